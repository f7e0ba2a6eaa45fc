package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"familytree-backend/application/store"
	"familytree-backend/application/store/snapshot"
	"familytree-backend/pkg/common"
	"familytree-backend/pkg/utils"
)

// GraphHandler handles whole-graph and view-merge HTTP requests
type GraphHandler struct {
	store  *store.FamilyStore
	logger *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(familyStore *store.FamilyStore, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		store:  familyStore,
		logger: logger,
	}
}

// ConnectRequest represents the request body for a freeform connection
type ConnectRequest struct {
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	SourceHandle string `json:"sourceHandle" validate:"required,oneof=top bottom left right"`
	TargetHandle string `json:"targetHandle" validate:"required,oneof=top bottom left right"`
}

// NodeChangesRequest represents a batch of raw node edits from the view
type NodeChangesRequest struct {
	Changes []store.NodeChange `json:"changes" validate:"required,dive"`
}

// EdgeChangesRequest represents a batch of raw edge edits from the view
type EdgeChangesRequest struct {
	Changes []store.EdgeChange `json:"changes" validate:"required,dive"`
}

// SelectRequest represents the request body for changing the selection.
// An empty or absent id clears the selection.
type SelectRequest struct {
	NodeID string `json:"nodeId"`
}

// ImportRequest represents the request body for an AI import
type ImportRequest struct {
	Description string `json:"description" validate:"required,min=1"`
}

// GetGraph handles GET /graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// ReplaceGraph handles PUT /graph
func (h *GraphHandler) ReplaceGraph(w http.ResponseWriter, r *http.Request) {
	var snap snapshot.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	if err := h.store.SetGraph(&snap); err != nil {
		h.logger.Warn("graph replace rejected", zap.Error(err))
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// Connect handles POST /connections
func (h *GraphHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	edgeID, err := h.store.Connect(store.Connection{
		Source:       req.Source,
		Target:       req.Target,
		SourceHandle: req.SourceHandle,
		TargetHandle: req.TargetHandle,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	if edgeID == "" {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "connection endpoint not found")
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": edgeID})
}

// NodeChanges handles POST /changes/nodes
func (h *GraphHandler) NodeChanges(w http.ResponseWriter, r *http.Request) {
	var req NodeChangesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	if err := h.store.ApplyNodeChanges(req.Changes); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// EdgeChanges handles POST /changes/edges
func (h *GraphHandler) EdgeChanges(w http.ResponseWriter, r *http.Request) {
	var req EdgeChangesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	h.store.ApplyEdgeChanges(req.Changes)
	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// Select handles PUT /selection
func (h *GraphHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}

	h.store.SelectNode(req.NodeID)
	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// AutoLayout handles POST /layout
func (h *GraphHandler) AutoLayout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.AutoLayout(); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// Import handles POST /import
func (h *GraphHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	if err := h.store.ImportDescription(r.Context(), req.Description); err != nil {
		h.logger.Warn("AI import failed", zap.Error(err))
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}
