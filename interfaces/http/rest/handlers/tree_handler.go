package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"familytree-backend/application/ports"
	"familytree-backend/application/store"
	"familytree-backend/pkg/common"
	"familytree-backend/pkg/utils"
)

// TreeHandler handles remote tree persistence HTTP requests
type TreeHandler struct {
	store  *store.FamilyStore
	remote ports.TreeRepository
	logger *zap.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(familyStore *store.FamilyStore, remote ports.TreeRepository, logger *zap.Logger) *TreeHandler {
	return &TreeHandler{
		store:  familyStore,
		remote: remote,
		logger: logger,
	}
}

// CreateTreeRequest represents the request body for creating a remote tree
type CreateTreeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

func (h *TreeHandler) remoteUnavailable(w http.ResponseWriter) bool {
	if h.remote == nil {
		common.RespondError(w, http.StatusServiceUnavailable, "REMOTE_DISABLED", "remote persistence is not configured")
		return true
	}
	return false
}

// CreateTree handles POST /trees
func (h *TreeHandler) CreateTree(w http.ResponseWriter, r *http.Request) {
	if h.remoteUnavailable(w) {
		return
	}

	var req CreateTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	tree, err := h.remote.CreateTree(r.Context(), req.Name)
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, tree)
}

// ListTrees handles GET /trees
func (h *TreeHandler) ListTrees(w http.ResponseWriter, r *http.Request) {
	if h.remoteUnavailable(w) {
		return
	}

	trees, err := h.remote.ListTrees(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, trees)
}

// DeleteTree handles DELETE /trees/{treeID}
func (h *TreeHandler) DeleteTree(w http.ResponseWriter, r *http.Request) {
	if h.remoteUnavailable(w) {
		return
	}

	treeID := chi.URLParam(r, "treeID")
	if err := h.remote.DeleteTree(r.Context(), treeID); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"id": treeID})
}

// SavePositions handles POST /trees/{treeID}/save
func (h *TreeHandler) SavePositions(w http.ResponseWriter, r *http.Request) {
	if h.remoteUnavailable(w) {
		return
	}

	treeID := chi.URLParam(r, "treeID")
	if err := h.store.SaveToRemote(r.Context(), treeID); err != nil {
		h.logger.Warn("remote save failed", zap.String("treeID", treeID), zap.Error(err))
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"id": treeID})
}

// LoadTree handles POST /trees/{treeID}/load
func (h *TreeHandler) LoadTree(w http.ResponseWriter, r *http.Request) {
	if h.remoteUnavailable(w) {
		return
	}

	treeID := chi.URLParam(r, "treeID")
	if err := h.store.LoadFromRemote(r.Context(), treeID); err != nil {
		h.logger.Warn("remote load failed", zap.String("treeID", treeID), zap.Error(err))
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}
