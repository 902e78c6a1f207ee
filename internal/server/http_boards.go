package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alfredjeanlab/tempo/internal/events"
	"github.com/alfredjeanlab/tempo/internal/idgen"
	"github.com/alfredjeanlab/tempo/internal/model"
	"github.com/alfredjeanlab/tempo/internal/workflow"
)

type createBoardInput struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// handleCreateBoard handles POST /v1/boards.
func (s *TempoServer) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var in createBoardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := idgen.GenerateWithPrefix("wb-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	board := &model.Board{ID: id, UserID: in.UserID, Name: in.Name}
	if err := s.store.CreateBoard(r.Context(), board); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create board")
		return
	}

	writeJSON(w, http.StatusCreated, board)
}

// handleListBoards handles GET /v1/boards.
func (s *TempoServer) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.store.ListBoards(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list boards")
		return
	}
	if boards == nil {
		boards = []*model.Board{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"boards": boards})
}

// handleGetBoard handles GET /v1/boards/{id}. The response carries the board
// and its full graph snapshot.
func (s *TempoServer) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	board, err := s.store.GetBoard(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "board not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get board")
		return
	}

	graph, err := s.store.GetWorkflowGraph(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get workflow graph")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"board": board,
		"graph": graph,
	})
}

// handleDeleteBoard handles DELETE /v1/boards/{id}.
func (s *TempoServer) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteBoard(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "board not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete board")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type addNodeInput struct {
	ExternalID   string         `json:"external_id"`
	ExternalType string         `json:"external_type"`
	Position     model.Position `json:"position"`
}

// handleAddNode handles POST /v1/boards/{id}/nodes.
func (s *TempoServer) handleAddNode(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")

	var in addNodeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	nodeType := model.NodeType(in.ExternalType)
	if !nodeType.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid external_type")
		return
	}
	if in.ExternalID == "" {
		writeError(w, http.StatusBadRequest, "external_id is required")
		return
	}

	id, err := idgen.GenerateWithPrefix("wn-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	node := &model.WorkflowNode{
		ID:           id,
		BoardID:      boardID,
		ExternalID:   in.ExternalID,
		ExternalType: nodeType,
		Position:     in.Position,
	}
	if err := s.store.AddWorkflowNode(r.Context(), node); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add node")
		return
	}

	s.publish(r.Context(), events.TopicBoardNodeAdded, events.BoardNodeAdded{Node: node})

	writeJSON(w, http.StatusCreated, node)
}

// handleRemoveNode handles DELETE /v1/boards/{id}/nodes/{node_id}. Removing
// a node removes its edges but never the underlying task or event.
func (s *TempoServer) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	nodeID := r.PathValue("node_id")

	if err := s.store.RemoveWorkflowNode(r.Context(), boardID, nodeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "node not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to remove node")
		return
	}

	s.publish(r.Context(), events.TopicBoardNodeRemoved, events.BoardNodeRemoved{
		BoardID: boardID,
		NodeID:  nodeID,
	})

	w.WriteHeader(http.StatusNoContent)
}

type addEdgeInput struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// handleAddEdge handles POST /v1/boards/{id}/edges. The edge is checked
// against the current graph snapshot before any mutation: self-loops,
// duplicates, unknown endpoints, and cycle-creating edges are all refused
// with a 409 and nothing is written.
func (s *TempoServer) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")

	var in addEdgeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.SourceID == "" || in.TargetID == "" {
		writeError(w, http.StatusBadRequest, "source_id and target_id are required")
		return
	}

	graph, err := s.store.GetWorkflowGraph(r.Context(), boardID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get workflow graph")
		return
	}

	if !workflow.CanAddEdge(graph, in.SourceID, in.TargetID) {
		s.publish(r.Context(), events.TopicBoardEdgeRejected, events.BoardEdgeRejected{
			BoardID:  boardID,
			SourceID: in.SourceID,
			TargetID: in.TargetID,
			Reason:   "edge would create a cycle, duplicate, or self-loop",
		})
		writeError(w, http.StatusConflict, "edge rejected: would create a cycle, duplicate, or self-loop")
		return
	}

	id, err := idgen.GenerateWithPrefix("we-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	edge := &model.WorkflowEdge{
		ID:       id,
		BoardID:  boardID,
		SourceID: in.SourceID,
		TargetID: in.TargetID,
	}
	if err := s.store.AddWorkflowEdge(r.Context(), edge); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add edge")
		return
	}

	s.publish(r.Context(), events.TopicBoardEdgeAdded, events.BoardEdgeAdded{Edge: edge})

	writeJSON(w, http.StatusCreated, edge)
}

// handleRemoveEdge handles DELETE /v1/boards/{id}/edges/{edge_id}.
func (s *TempoServer) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	edgeID := r.PathValue("edge_id")

	if err := s.store.RemoveWorkflowEdge(r.Context(), boardID, edgeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "edge not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to remove edge")
		return
	}

	s.publish(r.Context(), events.TopicBoardEdgeRemoved, events.BoardEdgeRemoved{
		BoardID: boardID,
		EdgeID:  edgeID,
	})

	w.WriteHeader(http.StatusNoContent)
}

// handleValidateBoard handles GET /v1/boards/{id}/validate.
func (s *TempoServer) handleValidateBoard(w http.ResponseWriter, r *http.Request) {
	graph, err := s.store.GetWorkflowGraph(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get workflow graph")
		return
	}

	writeJSON(w, http.StatusOK, workflow.ValidateGraph(graph))
}

// handleBoardOrder handles GET /v1/boards/{id}/order. A cyclic graph has no
// valid order; the response says so instead of failing.
func (s *TempoServer) handleBoardOrder(w http.ResponseWriter, r *http.Request) {
	graph, err := s.store.GetWorkflowGraph(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get workflow graph")
		return
	}

	order, ok := workflow.TopologicalSort(graph)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"order":  nil,
			"cyclic": true,
		})
		return
	}
	if order == nil {
		order = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order":  order,
		"cyclic": false,
	})
}

// handleBoardStatuses handles GET /v1/boards/{id}/statuses: each node's
// derived status plus overall completion progress.
func (s *TempoServer) handleBoardStatuses(w http.ResponseWriter, r *http.Request) {
	graph, err := s.store.GetWorkflowGraph(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get workflow graph")
		return
	}

	statuses := workflow.NodeStatuses(graph.Nodes, time.Now().UTC())
	writeJSON(w, http.StatusOK, map[string]any{
		"statuses": statuses,
		"progress": workflow.Progress(statuses),
	})
}
