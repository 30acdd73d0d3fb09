package handler

import (
	"net/http"

	"github.com/javiator/tenant-management/internal/dto"
)

// ListProperties handles GET /api/properties.
func (h *Handlers) ListProperties(w http.ResponseWriter, r *http.Request) {
	out, err := h.services.Properties.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, out)
}

// CreateProperty handles POST /api/properties.
func (h *Handlers) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var in dto.Property
	if !h.decode(w, r, &in) || !h.validate(w, r, &in) {
		return
	}

	out, err := h.services.Properties.Create(r.Context(), in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.recordWrite("property", "create")
	h.writeJSONResponse(w, http.StatusCreated, out)
}

// GetProperty handles GET /api/properties/{id}.
func (h *Handlers) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	out, err := h.services.Properties.Get(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, out)
}

// UpdateProperty handles PUT /api/properties/{id}. The body is not validated.
func (h *Handlers) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in dto.Property
	if !h.decode(w, r, &in) {
		return
	}

	out, err := h.services.Properties.Update(r.Context(), id, in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.recordWrite("property", "update")
	h.writeJSONResponse(w, http.StatusOK, out)
}

// DeleteProperty handles DELETE /api/properties/{id}. A property still
// referenced by transactions yields 409; its tenants are otherwise detached.
func (h *Handlers) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.services.Properties.Delete(r.Context(), id); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.recordWrite("property", "delete")
	w.WriteHeader(http.StatusNoContent)
}

// ListPropertyTransactions handles GET /api/properties/{id}/transactions.
func (h *Handlers) ListPropertyTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	out, err := h.services.Properties.Transactions(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, out)
}
