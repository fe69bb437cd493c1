package handlers

import (
	"net/http"

	"teapot/internal/models"
)

const msgTeapotNotFound = "Teapot not found"

// List teapots, filtered by material and style
func (h *Handler) HandleTeapotList(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	p := q.page()
	filter := models.TeapotFilter{
		Material: enumParam(q, "material", models.TeapotMaterial.Valid, models.TeapotMaterials),
		Style:    enumParam(q, "style", models.TeapotStyle.Valid, models.TeapotStyles),
	}
	if !q.ok(w) {
		return
	}

	teapots, total := h.store.ListTeapots(filter, p)
	writeJSON(w, http.StatusOK, listResponse(teapots, p, total))
}

func (h *Handler) HandleTeapotCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTeapotRequest
	if !decodeBody(w, r, &req) {
		return
	}

	teapot, err := req.Build(h.newID(), h.timestamp())
	if err != nil {
		writeValidation(w, err)
		return
	}

	h.store.CreateTeapot(teapot)
	writeJSON(w, http.StatusCreated, teapot)
}

func (h *Handler) HandleTeapotGet(w http.ResponseWriter, r *http.Request) {
	teapot, ok := h.store.GetTeapot(r.PathValue("id"))
	if !ok {
		writeNotFound(w, msgTeapotNotFound)
		return
	}
	writeJSON(w, http.StatusOK, teapot)
}

// Full replacement (PUT)
func (h *Handler) HandleTeapotReplace(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.store.GetTeapot(r.PathValue("id"))
	if !ok {
		writeNotFound(w, msgTeapotNotFound)
		return
	}

	var req models.UpdateTeapotRequest
	if !decodeBody(w, r, &req) {
		return
	}

	teapot, err := req.Replace(existing, h.stamp(existing.UpdatedAt))
	if err != nil {
		writeValidation(w, err)
		return
	}

	// The teapot may have been deleted since it was read.
	if !h.store.UpdateTeapot(teapot) {
		writeNotFound(w, msgTeapotNotFound)
		return
	}
	writeJSON(w, http.StatusOK, teapot)
}

// Partial update (PATCH)
func (h *Handler) HandleTeapotPatch(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.store.GetTeapot(r.PathValue("id"))
	if !ok {
		writeNotFound(w, msgTeapotNotFound)
		return
	}

	var req models.PatchTeapotRequest
	if !decodeBody(w, r, &req) {
		return
	}

	teapot, err := req.Merge(existing, h.stamp(existing.UpdatedAt))
	if err != nil {
		writeValidation(w, err)
		return
	}

	if !h.store.UpdateTeapot(teapot) {
		writeNotFound(w, msgTeapotNotFound)
		return
	}
	writeJSON(w, http.StatusOK, teapot)
}

func (h *Handler) HandleTeapotDelete(w http.ResponseWriter, r *http.Request) {
	if !h.store.DeleteTeapot(r.PathValue("id")) {
		writeNotFound(w, msgTeapotNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List brews made in a teapot
func (h *Handler) HandleTeapotBrews(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.store.GetTeapot(id); !ok {
		writeNotFound(w, msgTeapotNotFound)
		return
	}

	q := newQuery(r)
	p := q.page()
	if !q.ok(w) {
		return
	}

	brews, total := h.store.ListBrewsByTeapot(id, p)
	writeJSON(w, http.StatusOK, listResponse(brews, p, total))
}
