package handler

import (
	"net/http"

	"github.com/javiator/tenant-management/internal/dto"
)

// ListTransactions handles GET /api/transactions.
func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	out, err := h.services.Transactions.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, out)
}

// CreateTransaction handles POST /api/transactions.
func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in dto.Transaction
	if !h.decode(w, r, &in) || !h.validate(w, r, &in) {
		return
	}

	out, err := h.services.Transactions.Create(r.Context(), in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.recordWrite("transaction", "create")
	h.writeJSONResponse(w, http.StatusCreated, out)
}

// GetTransaction handles GET /api/transactions/{id}.
func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	out, err := h.services.Transactions.Get(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, out)
}

// UpdateTransaction handles PUT /api/transactions/{id}. The body is not
// validated, and a null tenantId clears the tenant link.
func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in dto.Transaction
	if !h.decode(w, r, &in) {
		return
	}

	out, err := h.services.Transactions.Update(r.Context(), id, in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.recordWrite("transaction", "update")
	h.writeJSONResponse(w, http.StatusOK, out)
}

// DeleteTransaction handles DELETE /api/transactions/{id}.
func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.services.Transactions.Delete(r.Context(), id); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.recordWrite("transaction", "delete")
	w.WriteHeader(http.StatusNoContent)
}
