package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/skinsight/dermascan/internal/config"
)

func testConfig(baseURL string) config.UploadConfig {
	return config.UploadConfig{
		BaseURL:      baseURL,
		APIKey:       "test-key",
		Timeout:      5 * time.Second,
		MaxFileBytes: 1 << 20,
	}
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/files" {
			t.Errorf("path = %q, want /v1/files", r.URL.Path)
		}
		if got := r.Header.Get("api_key"); got != "test-key" {
			t.Errorf("api_key header = %q", got)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("reading form file: %v", err)
		}
		defer file.Close()

		if header.Filename != "lesion.jpg" {
			t.Errorf("filename = %q", header.Filename)
		}
		body, _ := io.ReadAll(file)
		if string(body) != "image bytes" {
			t.Errorf("file body = %q", body)
		}

		json.NewEncoder(w).Encode(map[string]string{"file_url": "https://files.test/stored.jpg"})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zap.NewNop())

	url, err := c.Upload(context.Background(), "lesion.jpg", strings.NewReader("image bytes"), 11)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if url != "https://files.test/stored.jpg" {
		t.Errorf("url = %q", url)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zap.NewNop())

	_, err := c.Upload(context.Background(), "big.jpg", strings.NewReader("x"), 2<<20)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if called {
		t.Error("oversized file must be rejected before any request is sent")
	}
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zap.NewNop())

	_, err := c.Upload(context.Background(), "lesion.jpg", strings.NewReader("image bytes"), 11)
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestUploadMissingFileURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), zap.NewNop())

	_, err := c.Upload(context.Background(), "lesion.jpg", strings.NewReader("image bytes"), 11)
	if err == nil {
		t.Fatal("expected error when the collaborator returns no file URL")
	}
}
