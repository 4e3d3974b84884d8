package handlers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestImageStoreDeleteRefusesOutsidePaths(t *testing.T) {
	store := ImageStore{Root: t.TempDir()}

	for _, relPath := range []string{
		"../etc/passwd",
		"uploads/../../etc/passwd",
		"somewhere/else.png",
	} {
		if err := store.Delete(relPath); err == nil {
			t.Fatalf("expected refusal for %q", relPath)
		}
	}
}

func TestImageStoreDeleteRemovesStoredFile(t *testing.T) {
	root := t.TempDir()
	store := ImageStore{Root: root}

	target := filepath.Join(root, "test.png")
	if err := os.WriteFile(target, []byte("fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete("uploads/test.png"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("expected file to be removed")
	}
}

func TestImageStoreDeleteMissingFileIsNoop(t *testing.T) {
	store := ImageStore{Root: t.TempDir()}
	if err := store.Delete("uploads/never-existed.png"); err != nil {
		t.Fatalf("expected nil for missing file, got %v", err)
	}
}

func TestDiscardImagesRemovesAllStoredFiles(t *testing.T) {
	root := t.TempDir()
	store := ImageStore{Root: root}

	stored := []string{"uploads/a.png", "uploads/b.jpg"}
	for _, relPath := range stored {
		target := filepath.Join(root, filepath.Base(relPath))
		if err := os.WriteFile(target, []byte("fake"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	discardImages(store, stored)

	for _, relPath := range stored {
		target := filepath.Join(root, filepath.Base(relPath))
		if _, err := os.Stat(target); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed", relPath)
		}
	}
}

func TestDiscardImagesSurvivesBadPaths(t *testing.T) {
	root := t.TempDir()
	store := ImageStore{Root: root}

	target := filepath.Join(root, "keep-going.png")
	if err := os.WriteFile(target, []byte("fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A refused path must not stop cleanup of the remaining files.
	discardImages(store, []string{"../outside.png", "uploads/keep-going.png"})

	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("expected valid path to be removed despite earlier refusal")
	}
}
