package app

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/codelens/internal/config"
)

func TestNewClient_UsesConfiguredPaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ocr":
			_, _ = w.Write([]byte(`{"extracted_text":"x = 1"}`))
		case "/review":
			_, _ = w.Write([]byte(`{"readability":1,"bugs":"No bug found"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := config.Defaults()
	cfg.APIURL = srv.URL
	cfg.ExtractPath = "/ocr"
	cfg.AnalyzePath = "/review"
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	text, err := client.Extract(context.Background(), "shot.png", []byte("png"))
	if err != nil || text != "x = 1" {
		t.Fatalf("Extract = %q, %v", text, err)
	}
	if _, err := client.Analyze(context.Background(), text); err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if strings.Join(paths, ",") != "/ocr,/review" {
		t.Fatalf("paths = %v, want [/ocr /review]", paths)
	}
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	cfg := config.Defaults()
	cfg.APIURL = "://nope"
	if _, err := NewClient(cfg); err == nil {
		t.Fatalf("NewClient accepted an invalid URL")
	}
}

func TestSetupLogging_WritesToFile(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	path := filepath.Join(t.TempDir(), "state", "codelens.log")

	closeLog, err := setupLogging(path)
	if err != nil {
		t.Fatalf("setupLogging returned error: %v", err)
	}
	log.Printf("analyze code failed: boom")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "analyze code failed: boom") {
		t.Fatalf("log file = %q", data)
	}
}

func TestSetupLogging_EmptyPathDiscards(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	closeLog, err := setupLogging("")
	if err != nil {
		t.Fatalf("setupLogging returned error: %v", err)
	}
	defer closeLog()
	if log.Writer() != io.Discard {
		t.Fatalf("log output = %T, want io.Discard", log.Writer())
	}
}

func TestWatch_ReportsSettledImages(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, 20*time.Millisecond, func(_ context.Context, path string) {
			seen <- path
		})
	}()
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	for _, name := range []string{"notes.txt", "shot.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	select {
	case got := <-seen:
		if filepath.Base(got) != "shot.png" {
			t.Fatalf("handled %q, want shot.png", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for the image")
	}

	select {
	case extra := <-seen:
		t.Fatalf("unexpected second callback for %q", extra)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Watch did not stop after cancel")
	}
}

func TestWatch_MissingDir(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), 0, func(context.Context, string) {})
	if err == nil {
		t.Fatalf("Watch on a missing directory returned nil")
	}
}
