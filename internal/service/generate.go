package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/crypto"
	"github.com/docforge/docforge/internal/docx"
	"github.com/docforge/docforge/internal/domain"
	"github.com/docforge/docforge/internal/domain/document"
	"github.com/docforge/docforge/internal/domain/tenant"
	"github.com/docforge/docforge/internal/port/converter"
	"github.com/docforge/docforge/internal/port/database"
	"github.com/docforge/docforge/internal/port/objectstore"
	"github.com/docforge/docforge/internal/render"
)

const (
	pdfContentType = "application/pdf"
	// maxRemoteTemplateBytes caps template_url downloads.
	maxRemoteTemplateBytes = 25 << 20
	maxTemplateRedirects   = 5
)

// GenerateService runs the document generation pipeline: resolve template,
// process data, render, optionally convert to PDF, optionally encrypt and
// persist.
type GenerateService struct {
	store     database.Store
	objects   objectstore.ObjectStore
	templates *TemplateService
	convert   converter.Converter
	keyring   *crypto.Keyring
	retention config.Retention
	fetch     *http.Client
}

// NewGenerateService creates a new generation service.
func NewGenerateService(store database.Store, objects objectstore.ObjectStore, templates *TemplateService, conv converter.Converter, keyring *crypto.Keyring, retention config.Retention) *GenerateService {
	return &GenerateService{
		store:     store,
		objects:   objects,
		templates: templates,
		convert:   conv,
		keyring:   keyring,
		retention: retention,
		fetch: &http.Client{
			Timeout: 30 * time.Second,
			// A vetted host can still answer with a redirect, so every
			// hop is vetted the same way as the original URL.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxTemplateRedirects {
					return errors.New("too many redirects")
				}
				return document.ValidateTemplateURL(req.URL.String())
			},
		},
	}
}

// Generate renders a document from a stored template or a remote URL.
// Conversion failure on pdf/both requests degrades to DOCX output with a
// warning instead of failing the call.
func (s *GenerateService) Generate(ctx context.Context, tenantID string, req document.GenerateRequest) (*document.GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	templateBytes, err := s.resolveTemplate(ctx, tenantID, &req)
	if err != nil {
		return nil, err
	}

	rctx := render.Process(req.Data, time.Now())
	docxBytes, err := docx.Render(templateBytes, rctx)
	if err != nil {
		return nil, err
	}

	outputs, warnings, err := s.produceOutputs(ctx, docxBytes, req.OutputFormat)
	if err != nil {
		return nil, err
	}

	resp := &document.GenerateResponse{Warnings: warnings}
	for _, out := range outputs {
		if req.Store {
			stored, err := s.persist(ctx, tenantID, req.TemplateID, out)
			if err != nil {
				return nil, err
			}
			resp.Outputs = append(resp.Outputs, *stored)
			continue
		}
		resp.Outputs = append(resp.Outputs, document.GeneratedOutput{
			Format:  out.format,
			Content: base64.StdEncoding.EncodeToString(out.data),
		})
	}
	return resp, nil
}

type artifact struct {
	format document.Format
	data   []byte
}

// produceOutputs renders the requested formats. For "both" the PDF
// conversion runs concurrently with nothing else blocking; the DOCX bytes
// are already in hand.
func (s *GenerateService) produceOutputs(ctx context.Context, docxBytes []byte, format document.Format) ([]artifact, []string, error) {
	switch format {
	case document.FormatDOCX:
		return []artifact{{format: document.FormatDOCX, data: docxBytes}}, nil, nil

	case document.FormatPDF:
		pdf, err := s.convert.Convert(ctx, docxBytes)
		if err != nil {
			slog.Warn("pdf conversion failed, degrading to docx", "error", err)
			return []artifact{{format: document.FormatDOCX, data: docxBytes}},
				[]string{"conversion: unavailable"}, nil
		}
		return []artifact{{format: document.FormatPDF, data: pdf}}, nil, nil

	case document.FormatBoth:
		var pdf []byte
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var convErr error
			pdf, convErr = s.convert.Convert(gctx, docxBytes)
			return convErr
		})
		outputs := []artifact{{format: document.FormatDOCX, data: docxBytes}}
		if err := g.Wait(); err != nil {
			slog.Warn("pdf conversion failed, returning docx only", "error", err)
			return outputs, []string{"conversion: unavailable"}, nil
		}
		return append(outputs, artifact{format: document.FormatPDF, data: pdf}), nil, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown output format %q", domain.ErrValidation, format)
}

// persist encrypts an artifact, uploads it under the tenant's documents
// namespace, and records the metadata row.
func (s *GenerateService) persist(ctx context.Context, tenantID, templateID string, out artifact) (*document.GeneratedOutput, error) {
	paths, err := tenant.PathsFor(tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	env, err := s.keyring.Encrypt(tenantID, out.data)
	if err != nil {
		return nil, fmt.Errorf("encrypt document: %w", err)
	}

	d := &document.Document{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		TemplateID: templateID,
		Format:     out.format,
		SizeBytes:  int64(len(out.data)),
		Encrypted:  true,
		CreatedAt:  time.Now().UTC(),
	}
	d.StorageKey = paths.Documents + "/" + d.ID + "." + string(out.format)
	if s.retention.DocumentTTL > 0 {
		d.ExpiresAt = d.CreatedAt.Add(s.retention.DocumentTTL)
	}

	contentType := docxContentType
	if out.format == document.FormatPDF {
		contentType = pdfContentType
	}
	if err := s.objects.Put(ctx, d.StorageKey, env.Marshal(), contentType); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	if err := s.store.CreateDocument(ctx, d); err != nil {
		if delErr := s.objects.Delete(ctx, d.StorageKey); delErr != nil {
			slog.Warn("failed to clean up orphaned document object", "key", d.StorageKey, "error", delErr)
		}
		return nil, fmt.Errorf("create document: %w", err)
	}

	return &document.GeneratedOutput{
		Format:     out.format,
		DocumentID: d.ID,
		StorageKey: d.StorageKey,
	}, nil
}

// Fetch loads and decrypts a stored document. Another tenant's document is
// ErrNotFound; a tampered envelope is ErrDecryption, never partial bytes.
func (s *GenerateService) Fetch(ctx context.Context, tenantID, id string) (*document.Document, []byte, error) {
	d, err := s.store.GetDocument(ctx, tenantID, id)
	if err != nil {
		return nil, nil, err
	}

	raw, err := s.objects.Get(ctx, d.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("load document: %w", err)
	}

	if !d.Encrypted {
		return d, raw, nil
	}
	env, err := crypto.UnmarshalEnvelope(raw)
	if err != nil {
		return nil, nil, err
	}
	plaintext, err := s.keyring.Decrypt(tenantID, env)
	if err != nil {
		return nil, nil, err
	}
	return d, plaintext, nil
}

// Delete removes a stored document and its object.
func (s *GenerateService) Delete(ctx context.Context, tenantID, id string) error {
	d, err := s.store.GetDocument(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDocument(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, d.StorageKey); err != nil {
		slog.Warn("failed to delete document object", "key", d.StorageKey, "error", err)
	}
	return nil
}

// resolveTemplate returns the template bytes for a request, from the
// store or from a vetted remote URL.
func (s *GenerateService) resolveTemplate(ctx context.Context, tenantID string, req *document.GenerateRequest) ([]byte, error) {
	if req.TemplateID != "" {
		return s.templates.Bytes(ctx, tenantID, req.TemplateID)
	}
	return s.fetchRemoteTemplate(ctx, req.TemplateURL)
}

// fetchRemoteTemplate downloads a template after the SSRF guard has
// approved the URL and its resolved addresses.
func (s *GenerateService) fetchRemoteTemplate(ctx context.Context, rawURL string) ([]byte, error) {
	if err := document.ValidateTemplateURL(rawURL); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	resp, err := s.fetch.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch template url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: template url returned %d", domain.ErrValidation, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteTemplateBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read template url: %w", err)
	}
	if len(data) > maxRemoteTemplateBytes {
		return nil, fmt.Errorf("%w: remote template too large", domain.ErrValidation)
	}
	return data, nil
}

// StartRetentionSweep purges expired documents on a ticker until ctx is
// cancelled. A zero DocumentTTL disables the sweep.
func (s *GenerateService) StartRetentionSweep(ctx context.Context) {
	if s.retention.DocumentTTL <= 0 || s.retention.SweepInterval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(s.retention.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweepExpired(ctx)
			}
		}
	}()
}

func (s *GenerateService) sweepExpired(ctx context.Context) {
	docs, err := s.store.ListExpiredDocuments(ctx, time.Now().UTC(), 100)
	if err != nil {
		slog.Warn("retention sweep list failed", "error", err)
		return
	}
	for _, d := range docs {
		if err := s.Delete(ctx, d.TenantID, d.ID); err != nil {
			slog.Warn("retention sweep delete failed", "document", d.ID, "error", err)
			continue
		}
	}
	if len(docs) > 0 {
		slog.Info("retention sweep purged documents", "count", len(docs))
	}
}
