package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alfredjeanlab/tempo/internal/client"
	"github.com/spf13/cobra"
)

var (
	taskPriority int
	taskDue      string
	taskStatus   string
	taskTitle    string
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Short:   "Manage tasks",
	GroupID: "tracking",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.CreateTaskRequest{
			UserID:   userID,
			Title:    args[0],
			Priority: taskPriority,
		}
		if taskDue != "" {
			t, err := time.Parse(time.RFC3339, taskDue)
			if err != nil {
				return fmt.Errorf("invalid --due: %w", err)
			}
			req.DueAt = &t
		}

		task, err := tempoClient.CreateTask(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(task)
			return nil
		}
		fmt.Printf("created %s\n", task.ID)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := tempoClient.ListTasks(context.Background(), userID)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(tasks)
			return nil
		}
		printTaskListTable(tasks)
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := tempoClient.GetTask(context.Background(), args[0])
		if err != nil {
			return err
		}
		printJSON(task)
		return nil
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task's title, status, priority, or due date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateTaskRequest{}
		if cmd.Flags().Changed("title") {
			req.Title = &taskTitle
		}
		if cmd.Flags().Changed("status") {
			req.Status = &taskStatus
		}
		if cmd.Flags().Changed("priority") {
			req.Priority = &taskPriority
		}
		if taskDue != "" {
			t, err := time.Parse(time.RFC3339, taskDue)
			if err != nil {
				return fmt.Errorf("invalid --due: %w", err)
			}
			req.DueAt = &t
		}

		task, err := tempoClient.UpdateTask(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(task)
			return nil
		}
		fmt.Printf("updated %s (%s)\n", task.ID, task.Status)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := "completed"
		task, err := tempoClient.UpdateTask(context.Background(), args[0], &client.UpdateTaskRequest{Status: &status})
		if err != nil {
			return err
		}
		fmt.Printf("completed %s\n", task.ID)
		return nil
	},
}

func init() {
	taskCreateCmd.Flags().IntVar(&taskPriority, "priority", 0, "task priority")
	taskCreateCmd.Flags().StringVar(&taskDue, "due", "", "due date (RFC3339)")

	taskUpdateCmd.Flags().StringVar(&taskTitle, "title", "", "new title")
	taskUpdateCmd.Flags().StringVar(&taskStatus, "status", "", "new status (open, in_progress, completed, archived)")
	taskUpdateCmd.Flags().IntVar(&taskPriority, "priority", 0, "new priority")
	taskUpdateCmd.Flags().StringVar(&taskDue, "due", "", "new due date (RFC3339)")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskDoneCmd)
}
