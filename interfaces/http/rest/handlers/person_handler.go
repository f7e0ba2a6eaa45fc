package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"familytree-backend/application/store"
	"familytree-backend/domain/core/entities"
	"familytree-backend/pkg/common"
	"familytree-backend/pkg/utils"
)

// PersonHandler handles person-related HTTP requests
type PersonHandler struct {
	store  *store.FamilyStore
	logger *zap.Logger
}

// NewPersonHandler creates a new person handler
func NewPersonHandler(familyStore *store.FamilyStore, logger *zap.Logger) *PersonHandler {
	return &PersonHandler{
		store:  familyStore,
		logger: logger,
	}
}

// UpdatePersonRequest represents the request body for a partial update
type UpdatePersonRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Gender    *string `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	BirthDate *string `json:"birthDate,omitempty"`
	DeathDate *string `json:"deathDate,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	PhotoURL  *string `json:"photoUrl,omitempty"`
}

// CreatePersonResponse represents the response for operations that add a person
type CreatePersonResponse struct {
	ID string `json:"id"`
}

// CreatePerson handles POST /people
func (h *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := h.store.AddPerson()
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreatePersonResponse{ID: id})
}

// UpdatePerson handles PATCH /people/{personID}
func (h *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personID")

	var req UpdatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	update := entities.PersonUpdate{
		Name:      req.Name,
		BirthDate: req.BirthDate,
		DeathDate: req.DeathDate,
		Bio:       req.Bio,
		PhotoURL:  req.PhotoURL,
	}
	if req.Gender != nil {
		gender := entities.ParseGender(*req.Gender)
		update.Gender = &gender
	}

	found, err := h.store.UpdatePerson(personID, update)
	if err != nil {
		respondAppError(w, err)
		return
	}
	if !found {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "person not found")
		return
	}

	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// DeletePerson handles DELETE /people/{personID}
func (h *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personID")

	if !h.store.DeletePerson(personID) {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "person not found")
		return
	}

	common.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

// AddSpouse handles POST /people/{personID}/spouse
func (h *PersonHandler) AddSpouse(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personID")

	id, err := h.store.AddSpouse(personID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	if id == "" {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "person not found")
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreatePersonResponse{ID: id})
}

// AddChild handles POST /people/{personID}/children
func (h *PersonHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personID")

	id, err := h.store.AddChild(personID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	if id == "" {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "person not found")
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreatePersonResponse{ID: id})
}
