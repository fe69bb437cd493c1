package handlers

import (
	"net/http"

	"teapot/internal/models"
)

const msgBrewNotFound = "Brew not found"

// List brews, filtered by status, teapot and tea
func (h *Handler) HandleBrewList(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	p := q.page()
	filter := models.BrewFilter{
		Status:   enumParam(q, "status", models.BrewStatus.Valid, models.BrewStatuses),
		TeapotID: q.str("teapotId"),
		TeaID:    q.str("teaId"),
	}
	if !q.ok(w) {
		return
	}

	brews, total := h.store.ListBrews(filter, p)
	writeJSON(w, http.StatusOK, listResponse(brews, p, total))
}

// Start a brew. Both references must exist at creation time; a dangling
// reference is reported as a 400 NOT_FOUND.
func (h *Handler) HandleBrewCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBrewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeValidation(w, err)
		return
	}

	if _, ok := h.store.GetTeapot(*req.TeapotID); !ok {
		writeError(w, http.StatusBadRequest, models.CodeNotFound, msgTeapotNotFound, nil)
		return
	}
	tea, ok := h.store.GetTea(*req.TeaID)
	if !ok {
		writeError(w, http.StatusBadRequest, models.CodeNotFound, msgTeaNotFound, nil)
		return
	}

	brew := req.Build(h.newID(), h.timestamp(), tea)
	h.store.CreateBrew(brew)
	writeJSON(w, http.StatusCreated, brew)
}

func (h *Handler) HandleBrewGet(w http.ResponseWriter, r *http.Request) {
	brew, ok := h.store.GetBrew(r.PathValue("id"))
	if !ok {
		writeNotFound(w, msgBrewNotFound)
		return
	}
	writeJSON(w, http.StatusOK, brew)
}

func (h *Handler) HandleBrewPatch(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.store.GetBrew(r.PathValue("id"))
	if !ok {
		writeNotFound(w, msgBrewNotFound)
		return
	}

	var req models.PatchBrewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	brew, err := req.Merge(existing, h.stamp(existing.UpdatedAt))
	if err != nil {
		writeValidation(w, err)
		return
	}

	if !h.store.UpdateBrew(brew) {
		writeNotFound(w, msgBrewNotFound)
		return
	}
	writeJSON(w, http.StatusOK, brew)
}

// Deleting a brew also deletes its steeps.
func (h *Handler) HandleBrewDelete(w http.ResponseWriter, r *http.Request) {
	if !h.store.DeleteBrew(r.PathValue("id")) {
		writeNotFound(w, msgBrewNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ========== Steeps ==========

func (h *Handler) HandleSteepList(w http.ResponseWriter, r *http.Request) {
	brewID := r.PathValue("id")
	if _, ok := h.store.GetBrew(brewID); !ok {
		writeNotFound(w, msgBrewNotFound)
		return
	}

	q := newQuery(r)
	p := q.page()
	if !q.ok(w) {
		return
	}

	steeps, total := h.store.ListSteepsByBrew(brewID, p)
	writeJSON(w, http.StatusOK, listResponse(steeps, p, total))
}

// Record a steep. The store numbers it; a brew deleted between the lookup
// and the insert still yields a 404.
func (h *Handler) HandleSteepCreate(w http.ResponseWriter, r *http.Request) {
	brewID := r.PathValue("id")
	if _, ok := h.store.GetBrew(brewID); !ok {
		writeNotFound(w, msgBrewNotFound)
		return
	}

	var req models.CreateSteepRequest
	if !decodeBody(w, r, &req) {
		return
	}

	steep, err := req.Build(h.newID(), brewID, h.timestamp())
	if err != nil {
		writeValidation(w, err)
		return
	}

	stored, ok := h.store.CreateSteep(steep)
	if !ok {
		writeNotFound(w, msgBrewNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}
