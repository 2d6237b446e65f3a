package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dlpal/dlpal/internal/model"
)

func TestCountingWriterClampsOvershoot(t *testing.T) {
	var got []float64
	cw := newCountingWriter(100, 0, func(p float64) { got = append(got, p) })

	// Stream claims 100 bytes but delivers 150
	if _, err := cw.Write(make([]byte, 150)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cw.finish()

	for _, p := range got {
		if p < 0 || p > 100 {
			t.Errorf("Progress %v out of [0, 100]", p)
		}
	}
	if got[len(got)-1] != 100 {
		t.Errorf("Expected final progress 100, got %v", got[len(got)-1])
	}
}

func TestCountingWriterBatchesUpdates(t *testing.T) {
	calls := 0
	cw := newCountingWriter(1000, time.Hour, func(p float64) { calls++ })

	for i := 0; i < 100; i++ {
		cw.Write(make([]byte, 10))
	}

	// First write may emit (lastEmit zero value), later ones must be held back
	if calls > 1 {
		t.Errorf("Expected at most 1 batched update, got %d", calls)
	}
}

func TestFetchWritesFileAndReportsProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out.mp4")
	variant := model.StreamVariant{URL: server.URL, ContentLength: int64(len(payload)), Container: "mp4"}

	var last float64
	fetcher := NewHTTPFetcher(server.Client())
	fetcher.SetProgressInterval(0)

	path, err := fetcher.Fetch(context.Background(), variant, dest, func(p float64) { last = p })
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if path != dest {
		t.Errorf("Expected path %q, got %q", dest, path)
	}
	if last != 100 {
		t.Errorf("Expected final progress 100, got %v", last)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Expected output file, got %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("Output file differs from payload (%d vs %d bytes)", len(data), len(payload))
	}
}

func TestFetchErrorIsTransferError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out.mp4")
	variant := model.StreamVariant{URL: server.URL, ContentLength: 10}

	_, err := NewHTTPFetcher(server.Client()).Fetch(context.Background(), variant, dest, nil)
	if err == nil {
		t.Fatal("Expected error for failing stream")
	}

	var transferErr *TransferError
	if !errors.As(err, &transferErr) {
		t.Errorf("Expected *TransferError, got %T: %v", err, err)
	}
}
