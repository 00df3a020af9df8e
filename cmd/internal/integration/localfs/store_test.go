package localfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir, "/uploads/")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	url, err := store.Put(ctx, "gallery/a.png", "image/png", strings.NewReader("png"), 3)
	if err != nil {
		t.Fatal(err)
	}
	if url != "/uploads/gallery/a.png" {
		t.Errorf("url = %s", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "gallery", "a.png"))
	if err != nil || string(data) != "png" {
		t.Fatalf("stored %q, %v", data, err)
	}

	if err = store.Delete(ctx, "gallery/a.png"); err != nil {
		t.Fatal(err)
	}
	if err = store.Delete(ctx, "gallery/a.png"); err != nil {
		t.Errorf("deleting a missing object: %v", err)
	}
}

func TestRejectsEscapingKeys(t *testing.T) {
	store, err := NewImageStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = store.Put(context.Background(), "../evil.png", "image/png", strings.NewReader("x"), 1); err == nil {
		t.Error("key outside the upload dir accepted")
	}
}
