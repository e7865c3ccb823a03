package http

import (
	"net/http"
	"strconv"

	"github.com/docforge/docforge/internal/domain/audit"
	"github.com/docforge/docforge/internal/domain/document"
	"github.com/docforge/docforge/internal/middleware"
)

const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	pdfContentType  = "application/pdf"
)

// GenerateDocument handles POST /api/v1/documents.
func (h *Handlers) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())

	req, ok := readJSON[document.GenerateRequest](w, r, h.BodyLimit)
	if !ok {
		return
	}

	resp, err := h.Documents.Generate(r.Context(), tenantID, req)
	if err != nil {
		h.record(r, tenantID, audit.ActionDocGenerated, req.TemplateID, audit.OutcomeFailure,
			map[string]any{"data": req.Data})
		writeDomainError(w, err, "template not found")
		return
	}

	details := map[string]any{
		"data":          req.Data,
		"output_format": string(req.OutputFormat),
		"stored":        req.Store,
	}
	if len(resp.Warnings) > 0 {
		details["warnings"] = resp.Warnings
	}
	h.record(r, tenantID, audit.ActionDocGenerated, req.TemplateID, audit.OutcomeSuccess, details)

	status := http.StatusOK
	if req.Store {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// DownloadDocument handles GET /api/v1/documents/{id}. The stored
// envelope is decrypted server-side; the response body is plaintext.
func (h *Handlers) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	id := urlParam(r, "id")

	d, data, err := h.Documents.Fetch(r.Context(), tenantID, id)
	if err != nil {
		writeDomainError(w, err, "document not found")
		return
	}

	h.record(r, tenantID, audit.ActionDocDownloaded, d.ID, audit.OutcomeSuccess,
		map[string]any{"format": string(d.Format), "size_bytes": d.SizeBytes})

	contentType := docxContentType
	if d.Format == document.FormatPDF {
		contentType = pdfContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+d.ID+"."+string(d.Format)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// DeleteDocument handles DELETE /api/v1/documents/{id}.
func (h *Handlers) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	id := urlParam(r, "id")

	if err := h.Documents.Delete(r.Context(), tenantID, id); err != nil {
		writeDomainError(w, err, "document not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
