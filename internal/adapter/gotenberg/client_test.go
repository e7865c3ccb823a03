package gotenberg

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/domain"
)

func testConfig(url string) config.Converter {
	return config.Converter{
		URL:         url,
		Timeout:     5 * time.Second,
		MaxFailures: 3,
		OpenFor:     time.Minute,
	}
}

func TestConvertSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != convertPath {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.MultipartForm.File["files"] == nil {
			t.Error("missing files part")
		}
		w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	pdf, err := c.Convert(context.Background(), []byte("docx bytes"))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if string(pdf) != "%PDF-1.7 fake" {
		t.Errorf("pdf = %q", pdf)
	}
}

func TestConvertFailureWrapsConversionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.Convert(context.Background(), []byte("docx"))
	if !errors.Is(err, domain.ErrConversion) {
		t.Errorf("err = %v, want ErrConversion", err)
	}
}

func TestConvertBreakerOpensAfterFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	for range 5 {
		_, _ = c.Convert(context.Background(), []byte("docx"))
	}
	if calls > 3 {
		t.Errorf("server saw %d calls, breaker should have opened after 3", calls)
	}
}
