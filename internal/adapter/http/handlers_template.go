package http

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/docforge/docforge/internal/domain/audit"
	"github.com/docforge/docforge/internal/domain/template"
	"github.com/docforge/docforge/internal/middleware"
)

// UploadTemplate handles POST /api/v1/templates. Two upload shapes are
// accepted: multipart/form-data with a "file" part, and a JSON body with
// the docx payload base64-encoded in "content".
func (h *Handlers) UploadTemplate(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())

	var name string
	var data []byte
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var ok bool
		name, data, ok = readMultipartTemplate(w, r, h.BodyLimit)
		if !ok {
			return
		}
	} else {
		req, ok := readJSON[template.CreateRequest](w, r, h.BodyLimit)
		if !ok {
			return
		}
		decoded, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			writeError(w, http.StatusBadRequest, "content is not valid base64")
			return
		}
		name, data = req.Name, decoded
	}
	if !requireField(w, name, "name") {
		return
	}

	tpl, err := h.Templates.Upload(r.Context(), tenantID, name, data)
	if err != nil {
		h.record(r, tenantID, audit.ActionTemplateUpload, name, audit.OutcomeFailure, nil)
		writeDomainError(w, err, "template not created")
		return
	}

	h.record(r, tenantID, audit.ActionTemplateUpload, tpl.ID, audit.OutcomeSuccess,
		map[string]any{"name": tpl.Name, "size_bytes": tpl.SizeBytes, "variables": len(tpl.Variables)})
	writeJSON(w, http.StatusCreated, tpl)
}

// readMultipartTemplate pulls the template name and bytes out of a
// multipart upload. The name falls back to the part's filename.
func readMultipartTemplate(w http.ResponseWriter, r *http.Request, bodyLimit int64) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := r.ParseMultipartForm(bodyLimit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file part is required")
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file part")
		return "", nil, false
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	return name, data, true
}

// ListTemplates handles GET /api/v1/templates.
func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	templates, err := h.Templates.List(r.Context(), tenantID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if templates == nil {
		templates = []template.Template{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// GetTemplate handles GET /api/v1/templates/{id}.
func (h *Handlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	tpl, err := h.Templates.Get(r.Context(), tenantID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

// TemplateVariables handles GET /api/v1/templates/{id}/variables.
func (h *Handlers) TemplateVariables(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	vars, err := h.Templates.Variables(r.Context(), tenantID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "template not found")
		return
	}
	if vars == nil {
		vars = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"variables": vars})
}

// DeleteTemplate handles DELETE /api/v1/templates/{id}.
func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	id := urlParam(r, "id")

	if err := h.Templates.Delete(r.Context(), tenantID, id); err != nil {
		writeDomainError(w, err, "template not found")
		return
	}

	h.record(r, tenantID, audit.ActionTemplateDeleted, id, audit.OutcomeSuccess, nil)
	w.WriteHeader(http.StatusNoContent)
}
