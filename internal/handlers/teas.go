package handlers

import (
	"net/http"

	"teapot/internal/models"
)

const msgTeaNotFound = "Tea not found"

func (h *Handler) HandleTeaList(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	p := q.page()
	filter := models.TeaFilter{
		Type:          enumParam(q, "type", models.TeaType.Valid, models.TeaTypes),
		CaffeineLevel: enumParam(q, "caffeineLevel", models.CaffeineLevel.Valid, models.CaffeineLevels),
	}
	if !q.ok(w) {
		return
	}

	teas, total := h.store.ListTeas(filter, p)
	writeJSON(w, http.StatusOK, listResponse(teas, p, total))
}

func (h *Handler) HandleTeaCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTeaRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tea, err := req.Build(h.newID(), h.timestamp())
	if err != nil {
		writeValidation(w, err)
		return
	}

	h.store.CreateTea(tea)
	writeJSON(w, http.StatusCreated, tea)
}

func (h *Handler) HandleTeaGet(w http.ResponseWriter, r *http.Request) {
	tea, ok := h.store.GetTea(r.PathValue("id"))
	if !ok {
		writeNotFound(w, msgTeaNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tea)
}

func (h *Handler) HandleTeaReplace(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.store.GetTea(r.PathValue("id"))
	if !ok {
		writeNotFound(w, msgTeaNotFound)
		return
	}

	var req models.UpdateTeaRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tea, err := req.Replace(existing, h.stamp(existing.UpdatedAt))
	if err != nil {
		writeValidation(w, err)
		return
	}

	if !h.store.UpdateTea(tea) {
		writeNotFound(w, msgTeaNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tea)
}

func (h *Handler) HandleTeaPatch(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.store.GetTea(r.PathValue("id"))
	if !ok {
		writeNotFound(w, msgTeaNotFound)
		return
	}

	var req models.PatchTeaRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tea, err := req.Merge(existing, h.stamp(existing.UpdatedAt))
	if err != nil {
		writeValidation(w, err)
		return
	}

	if !h.store.UpdateTea(tea) {
		writeNotFound(w, msgTeaNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tea)
}

// Brews that reference the tea are left untouched.
func (h *Handler) HandleTeaDelete(w http.ResponseWriter, r *http.Request) {
	if !h.store.DeleteTea(r.PathValue("id")) {
		writeNotFound(w, msgTeaNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
