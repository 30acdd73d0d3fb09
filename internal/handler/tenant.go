package handler

import (
	"net/http"

	"github.com/javiator/tenant-management/internal/dto"
)

// ListTenants handles GET /api/tenants.
func (h *Handlers) ListTenants(w http.ResponseWriter, r *http.Request) {
	out, err := h.services.Tenants.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, out)
}

// CreateTenant handles POST /api/tenants.
func (h *Handlers) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var in dto.Tenant
	if !h.decode(w, r, &in) || !h.validate(w, r, &in) {
		return
	}

	out, err := h.services.Tenants.Create(r.Context(), in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.recordWrite("tenant", "create")
	h.writeJSONResponse(w, http.StatusCreated, out)
}

// GetTenant handles GET /api/tenants/{id}.
func (h *Handlers) GetTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	out, err := h.services.Tenants.Get(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, out)
}

// UpdateTenant handles PUT /api/tenants/{id}. The body is not validated.
func (h *Handlers) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in dto.Tenant
	if !h.decode(w, r, &in) {
		return
	}

	out, err := h.services.Tenants.Update(r.Context(), id, in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.recordWrite("tenant", "update")
	h.writeJSONResponse(w, http.StatusOK, out)
}

// DeleteTenant handles DELETE /api/tenants/{id}.
func (h *Handlers) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.services.Tenants.Delete(r.Context(), id); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.recordWrite("tenant", "delete")
	w.WriteHeader(http.StatusNoContent)
}

// ListTenantTransactions handles GET /api/tenants/{id}/transactions.
func (h *Handlers) ListTenantTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	out, err := h.services.Tenants.Transactions(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, out)
}
