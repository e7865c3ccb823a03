// Package docx implements the template engine for DOCX containers:
// placeholder extraction and context merging over the document's XML parts.
//
// Placeholders use double-brace syntax ({{nome_cliente}}). Word frequently
// splits a placeholder's literal text across multiple runs, so the scanner
// skips XML markup found between the braces and treats the surrounding
// text as one tag.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/docforge/docforge/internal/domain"
	"github.com/docforge/docforge/internal/render"
)

// Template is a parsed DOCX container ready for tag inspection or merging.
type Template struct {
	raw   []byte
	zr    *zip.Reader
	parts map[string]string // text parts by archive name
	order []string          // text parts in archive order
}

// Parse opens a DOCX container and loads its text-bearing XML parts.
// Non-DOCX input fails with domain.ErrTemplateParse.
func Parse(data []byte) (*Template, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open container: %w", domain.ErrTemplateParse)
	}

	t := &Template{raw: data, zr: zr, parts: make(map[string]string)}
	for _, f := range zr.File {
		if !isTextPart(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", f.Name, domain.ErrTemplateParse)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", f.Name, domain.ErrTemplateParse)
		}
		t.parts[f.Name] = string(content)
		t.order = append(t.order, f.Name)
	}

	if _, ok := t.parts["word/document.xml"]; !ok {
		return nil, fmt.Errorf("missing word/document.xml: %w", domain.ErrTemplateParse)
	}
	return t, nil
}

// isTextPart reports whether an archive entry carries substitutable text.
func isTextPart(name string) bool {
	if name == "word/document.xml" || name == "word/footnotes.xml" || name == "word/endnotes.xml" {
		return true
	}
	if !strings.HasSuffix(name, ".xml") {
		return false
	}
	return strings.HasPrefix(name, "word/header") || strings.HasPrefix(name, "word/footer")
}

// Tags returns the distinct placeholder names declared by the template, in
// parse order. Extraction never needs a rendering context.
func (t *Template) Tags() ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, name := range t.sortedParts() {
		tags, err := scanTags(t.parts[name])
		if err != nil {
			return nil, err
		}
		for _, tg := range tags {
			if !seen[tg.name] {
				seen[tg.name] = true
				out = append(out, tg.name)
			}
		}
	}
	return out, nil
}

// sortedParts yields the main document first, then remaining text parts in
// lexical order, so parse order is stable across archives.
func (t *Template) sortedParts() []string {
	names := make([]string, 0, len(t.order))
	for _, n := range t.order {
		if n != "word/document.xml" {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return append([]string{"word/document.xml"}, names...)
}

// Render merges the context into the template and serializes a new
// container. Parts the engine does not touch round-trip byte-for-byte.
// All unresolved tags from the attempt are collected into one RenderError.
func (t *Template) Render(ctx *render.Context) ([]byte, error) {
	rendered := make(map[string]string, len(t.parts))
	var missing []string
	seenMissing := make(map[string]bool)

	for _, name := range t.sortedParts() {
		out, miss, err := substitute(t.parts[name], ctx)
		if err != nil {
			return nil, err
		}
		for _, m := range miss {
			if !seenMissing[m] {
				seenMissing[m] = true
				missing = append(missing, m)
			}
		}
		rendered[name] = out
	}

	if len(missing) > 0 {
		return nil, &RenderError{Kind: ErrKindTagNotFound, MissingTags: missing}
	}

	return t.repack(rendered)
}

// repack writes a new container: substituted parts are recompressed at the
// strongest deflate setting, everything else is copied raw.
func (t *Template) repack(rendered map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, f := range t.zr.File {
		content, touched := rendered[f.Name]
		if !touched || content == t.parts[f.Name] {
			if err := copyRaw(zw, f); err != nil {
				return nil, &RenderError{Kind: ErrKindOther, Message: err.Error()}
			}
			continue
		}

		hdr := &zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, &RenderError{Kind: ErrKindOther, Message: err.Error()}
		}
		if _, err := w.Write([]byte(content)); err != nil {
			return nil, &RenderError{Kind: ErrKindOther, Message: err.Error()}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, &RenderError{Kind: ErrKindOther, Message: err.Error()}
	}
	return buf.Bytes(), nil
}

// copyRaw transfers an entry without recompression, preserving its bytes.
func copyRaw(zw *zip.Writer, f *zip.File) error {
	rc, err := f.OpenRaw()
	if err != nil {
		return fmt.Errorf("open raw %s: %w", f.Name, err)
	}
	fh := f.FileHeader
	w, err := zw.CreateRaw(&fh)
	if err != nil {
		return fmt.Errorf("create raw %s: %w", f.Name, err)
	}
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("copy raw %s: %w", f.Name, err)
	}
	return nil
}

// ExtractVariables returns the distinct placeholder names declared by a
// template, independent of any rendering context.
func ExtractVariables(data []byte) ([]string, error) {
	t, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return t.Tags()
}

// Render parses and merges in one call.
func Render(data []byte, ctx *render.Context) ([]byte, error) {
	t, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return t.Render(ctx)
}
