package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/models"
)

// ListInvoices handles GET /api/invoices.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	items, err := h.svc.ListInvoices(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, "list invoices", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"invoices": items})
}

// GetInvoice handles GET /api/invoices/{id}.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get invoice", err)
		return
	}
	w.Header().Set("ETag", `"`+inv.Revision+`"`)
	writeJSON(w, http.StatusOK, inv)
}

// CreateInvoice handles POST /api/invoices.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.Invoice
	if !decodeBody(w, r, &req) {
		return
	}
	inv, err := h.svc.CreateInvoice(r.Context(), req)
	if err != nil {
		writeServiceError(w, "create invoice", err)
		return
	}
	h.notify("invoice", "created", inv.ID)
	writeJSON(w, http.StatusCreated, inv)
}

// UpdateInvoice handles PUT /api/invoices/{id} with optimistic
// concurrency via the If-Match header (revision checksum).
func (h *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.Invoice
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	ifMatch := r.Header.Get("If-Match")
	// Strip surrounding quotes if present (standard ETag format).
	ifMatch = strings.Trim(ifMatch, `"`)

	inv, err := h.svc.UpdateInvoice(r.Context(), req, ifMatch)
	if err != nil {
		writeServiceError(w, "update invoice", err)
		return
	}
	h.notify("invoice", "updated", inv.ID)
	w.Header().Set("ETag", `"`+inv.Revision+`"`)
	writeJSON(w, http.StatusOK, inv)
}

// DeleteInvoice handles DELETE /api/invoices/{id}.
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteInvoice(r.Context(), id); err != nil {
		writeServiceError(w, "delete invoice", err)
		return
	}
	h.notify("invoice", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// PreviewInvoice handles POST /api/invoices/preview, computing totals
// and the tax breakdown for an unsaved draft.
func (h *Handler) PreviewInvoice(w http.ResponseWriter, r *http.Request) {
	var req InvoicePreviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	totals, breakdown, err := h.svc.InvoiceTotals(r.Context(), req.Invoice, req.ExtraTaxRates)
	if err != nil {
		writeServiceError(w, "preview invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, InvoicePreviewResponse{Totals: totals, Breakdown: breakdown})
}

// RenderInvoice handles GET /api/invoices/{id}/render. With export=1
// the rendered document is also written to the export directory.
func (h *Handler) RenderInvoice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	export := q.Get("export") == "1" || q.Get("export") == "true"

	html, exported, err := h.svc.RenderInvoice(r.Context(), chi.URLParam(r, "id"), q.Get("template"), export)
	if err != nil {
		writeServiceError(w, "render invoice", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if exported != "" {
		w.Header().Set("X-Export-Path", exported)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

// ListTaxRates handles GET /api/tax-rates.
func (h *Handler) ListTaxRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.svc.ListTaxRates(r.Context())
	if err != nil {
		writeServiceError(w, "list tax rates", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"taxRates": rates})
}

// SaveTaxRate handles POST /api/tax-rates (upsert).
func (h *Handler) SaveTaxRate(w http.ResponseWriter, r *http.Request) {
	var req models.TaxRate
	if !decodeBody(w, r, &req) {
		return
	}
	rate, err := h.svc.SaveTaxRate(r.Context(), req)
	if err != nil {
		writeServiceError(w, "save tax rate", err)
		return
	}
	h.notify("taxrate", "updated", rate.ID)
	writeJSON(w, http.StatusOK, rate)
}

// DeleteTaxRate handles DELETE /api/tax-rates/{id}. Rates still
// referenced by invoice items cannot be removed.
func (h *Handler) DeleteTaxRate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteTaxRate(r.Context(), id); err != nil {
		writeServiceError(w, "delete tax rate", err)
		return
	}
	h.notify("taxrate", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
