package objectstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestRouter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.sql")
	if err := os.WriteFile(path, []byte("select 1;"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	loc, err := ParseLocation("file://" + path)
	if err != nil {
		t.Fatalf("ParseLocation() err=%v", err)
	}

	r := NewRouter(Config{MaxScriptBytes: 1024})
	got, err := ReadText(context.Background(), r, loc, 1024)
	if err != nil {
		t.Fatalf("ReadText() err=%v", err)
	}
	if got != "select 1;" {
		t.Fatalf("ReadText()=%q", got)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() err=%v", err)
	}
}

func TestRouter_FileNotFound(t *testing.T) {
	r := NewRouter(Config{MaxScriptBytes: 1024})
	_, _, err := r.Get(context.Background(), Location{Scheme: SchemeFile, Key: filepath.Join(t.TempDir(), "missing.sql")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() err=%v, want ErrNotFound", err)
	}
}

func TestRouter_Register(t *testing.T) {
	loc := Location{Scheme: SchemeS3, Bucket: "b", Key: "k.sql"}
	mem := &memStore{objects: map[string]string{loc.String(): "select 2;"}}

	r := NewRouter(Config{MaxScriptBytes: 1024})
	r.Register(SchemeS3, mem)

	body, _, err := r.Get(context.Background(), loc)
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if string(data) != "select 2;" {
		t.Fatalf("Get() body=%q", data)
	}
}

func TestRouter_AzureNeedsAccount(t *testing.T) {
	r := NewRouter(Config{MaxScriptBytes: 1024})
	if _, _, err := r.Get(context.Background(), Location{Scheme: SchemeAzure, Bucket: "c", Key: "k"}); err == nil {
		t.Fatalf("Get() expected error without azure account")
	}
}

func TestRouter_UnknownScheme(t *testing.T) {
	r := NewRouter(Config{MaxScriptBytes: 1024})
	if _, _, err := r.Get(context.Background(), Location{Scheme: "ftp", Bucket: "b", Key: "k"}); err == nil {
		t.Fatalf("Get() expected error for unknown scheme")
	}
}
