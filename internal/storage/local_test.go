package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLocalStoreConsumesTempFile(t *testing.T) {
	baseDir := t.TempDir()
	l, err := NewLocal(baseDir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	tempPath := writeTemp(t, t.TempDir(), "dl-1.part", []byte("payload"))

	url, err := l.Store(context.Background(), tempPath, "video.mp4")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if url != PublicPathPrefix+"video.mp4" {
		t.Errorf("url = %q, want %q", url, PublicPathPrefix+"video.mp4")
	}

	if _, err := os.Stat(tempPath); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after Store: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(baseDir, "video.mp4"))
	if err != nil {
		t.Fatalf("artifact unreadable: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("artifact content = %q, want payload", data)
	}
}

func TestLocalStoreFailureLeavesNoArtifact(t *testing.T) {
	baseDir := t.TempDir()
	l, err := NewLocal(baseDir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	// A stale file under the final name must not survive a failed Store:
	// the static route would serve it as if it were the new artifact.
	dest := writeTemp(t, baseDir, "video.mp4", []byte("stale"))

	missing := filepath.Join(t.TempDir(), "dl-gone.part")
	if _, err := l.Store(context.Background(), missing, "video.mp4"); err == nil {
		t.Fatal("Store succeeded with a missing temp file, want error")
	}

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("failed Store left %s behind: %v", dest, err)
	}
}

func TestLocalRemoveMissingIsNoError(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if err := l.Remove(context.Background(), "never-stored.mp4"); err != nil {
		t.Errorf("Remove of missing artifact: %v", err)
	}
}
