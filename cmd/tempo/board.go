package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/tempo/internal/client"
	"github.com/alfredjeanlab/tempo/internal/model"
	"github.com/alfredjeanlab/tempo/internal/ui"
	"github.com/spf13/cobra"
)

var (
	nodeType string
	nodeX    float64
	nodeY    float64
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Short:   "Workflow boards: dependency graphs over tasks and events",
	GroupID: "boards",
}

var boardCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a workflow board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		board, err := tempoClient.CreateBoard(context.Background(), &client.CreateBoardRequest{
			UserID: userID,
			Name:   args[0],
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(board)
			return nil
		}
		fmt.Printf("created %s\n", board.ID)
		return nil
	},
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workflow boards",
	RunE: func(cmd *cobra.Command, args []string) error {
		boards, err := tempoClient.ListBoards(context.Background(), userID)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(boards)
			return nil
		}
		printBoardListTable(boards)
		return nil
	},
}

var boardShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a board with its nodes and edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := tempoClient.GetBoard(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp)
			return nil
		}

		fmt.Printf("%s  %s\n\n", resp.Board.Name, ui.RenderMuted(resp.Board.ID))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NODE\tTYPE\tREF\tPOSITION")
		for _, n := range resp.Graph.Nodes {
			fmt.Fprintf(w, "%s\t%s\t%s\t(%.0f, %.0f)\n",
				n.ID, n.ExternalType, n.ExternalID, n.Position.X, n.Position.Y)
		}
		w.Flush()

		if len(resp.Graph.Edges) > 0 {
			fmt.Println()
			for _, e := range resp.Graph.Edges {
				fmt.Printf("%s: %s %s %s\n", e.ID, e.SourceID, ui.RenderMuted("->"), e.TargetID)
			}
		}
		return nil
	},
}

var boardDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a board (nodes and edges go with it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tempoClient.DeleteBoard(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var boardAddNodeCmd = &cobra.Command{
	Use:   "add-node <board-id> <external-id>",
	Short: "Place a task or event on a board",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		node, err := tempoClient.AddNode(context.Background(), args[0], &client.AddNodeRequest{
			ExternalID:   args[1],
			ExternalType: nodeType,
			Position:     model.Position{X: nodeX, Y: nodeY},
		})
		if err != nil {
			return err
		}
		fmt.Printf("added %s\n", node.ID)
		return nil
	},
}

var boardRemoveNodeCmd = &cobra.Command{
	Use:   "remove-node <board-id> <node-id>",
	Short: "Remove a node (the task or event itself stays)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tempoClient.RemoveNode(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", args[1])
		return nil
	},
}

var boardLinkCmd = &cobra.Command{
	Use:   "link <board-id> <source-node> <target-node>",
	Short: "Add a dependency edge (source before target)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		edge, err := tempoClient.AddEdge(context.Background(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("linked %s -> %s (%s)\n", edge.SourceID, edge.TargetID, edge.ID)
		return nil
	},
}

var boardUnlinkCmd = &cobra.Command{
	Use:   "unlink <board-id> <edge-id>",
	Short: "Remove a dependency edge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tempoClient.RemoveEdge(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("unlinked %s\n", args[1])
		return nil
	},
}

var boardValidateCmd = &cobra.Command{
	Use:   "validate <board-id>",
	Short: "Check the board for cycles and dangling references",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := tempoClient.ValidateBoard(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(result)
			return nil
		}
		if result.IsValid {
			fmt.Println("board is valid")
			return nil
		}
		for _, e := range result.Errors {
			fmt.Println(e)
		}
		return fmt.Errorf("%d issues", len(result.Errors))
	},
}

var boardOrderCmd = &cobra.Command{
	Use:   "order <board-id>",
	Short: "Print a dependency-respecting node order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := tempoClient.BoardOrder(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp)
			return nil
		}
		if resp.Cyclic {
			return fmt.Errorf("board has a dependency cycle; no valid order")
		}
		fmt.Println(strings.Join(resp.Order, " -> "))
		return nil
	},
}

var boardStatusCmd = &cobra.Command{
	Use:   "status <board-id>",
	Short: "Show derived node statuses and overall progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := tempoClient.BoardStatuses(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NODE\tSTATUS")
		for _, s := range resp.Statuses {
			fmt.Fprintf(w, "%s\t%s\n", s.ID, s.Status)
		}
		w.Flush()
		fmt.Printf("\nprogress: %d%%\n", resp.Progress)
		return nil
	},
}

func init() {
	boardAddNodeCmd.Flags().StringVar(&nodeType, "type", "task", "node type (task or event)")
	boardAddNodeCmd.Flags().Float64Var(&nodeX, "x", 0, "canvas x position")
	boardAddNodeCmd.Flags().Float64Var(&nodeY, "y", 0, "canvas y position")

	boardCmd.AddCommand(boardCreateCmd)
	boardCmd.AddCommand(boardListCmd)
	boardCmd.AddCommand(boardShowCmd)
	boardCmd.AddCommand(boardDeleteCmd)
	boardCmd.AddCommand(boardAddNodeCmd)
	boardCmd.AddCommand(boardRemoveNodeCmd)
	boardCmd.AddCommand(boardLinkCmd)
	boardCmd.AddCommand(boardUnlinkCmd)
	boardCmd.AddCommand(boardValidateCmd)
	boardCmd.AddCommand(boardOrderCmd)
	boardCmd.AddCommand(boardStatusCmd)
}
