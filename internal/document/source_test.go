package document

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jacoelho/dq/internal/ratelimit"
	"github.com/jacoelho/dq/pkg/pathquery"
)

func TestOpenStdin(t *testing.T) {
	f := NewFetcher(nil, nil)
	f.stdin = strings.NewReader("a: 1\n")

	rc, err := f.Open(context.Background(), StdinName)
	if err != nil {
		t.Fatalf("Open(-) error = %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if got := string(data); got != "a: 1\n" {
		t.Errorf("Open(-) read %q, want %q", got, "a: 1\n")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, []byte("name: local\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := NewFetcher(nil, nil)
	docs, err := f.Load(context.Background(), path, FormatAuto)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", path, err)
	}
	want := []any{pathquery.Map{{Key: "name", Value: "local"}}}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("Load(%q) = %#v, want %#v", path, docs, want)
	}
}

func TestOpenMissingFile(t *testing.T) {
	f := NewFetcher(nil, nil)
	_, err := f.Open(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, ErrSource) {
		t.Errorf("Open() error = %v, want ErrSource", err)
	}
}

func TestFetchURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("name: remote\n"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), nil)
	docs, err := f.Load(context.Background(), srv.URL, FormatAuto)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", srv.URL, err)
	}
	want := []any{pathquery.Map{{Key: "name", Value: "remote"}}}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("Load(%q) = %#v, want %#v", srv.URL, docs, want)
	}
}

func TestFetchURLStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), nil)
	if _, err := f.Open(context.Background(), srv.URL); !errors.Is(err, ErrSource) {
		t.Errorf("Open(%q) error = %v, want ErrSource", srv.URL, err)
	}
}

func TestFetchHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("name: remote\n"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(srv.Client(), ratelimit.New(1))
	if _, err := f.Open(ctx, srv.URL); !errors.Is(err, ErrSource) {
		t.Errorf("Open() error = %v, want ErrSource", err)
	}
}
