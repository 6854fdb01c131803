package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PublicPathPrefix is the route completed downloads are served under.
const PublicPathPrefix = "/downloads/"

// Local stores artifacts on the local filesystem. The server exposes the
// base directory under PublicPathPrefix via a static file route.
type Local struct {
	baseDir string
}

// NewLocal creates a local backend rooted at baseDir, creating it when
// missing.
func NewLocal(baseDir string) (*Local, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create downloads directory: %w", err)
	}
	return &Local{baseDir: baseDir}, nil
}

// Dir returns the backing directory, for the static file route.
func (l *Local) Dir() string {
	return l.baseDir
}

// Store moves tempPath into the base directory as filename. Rename is
// tried first; a cross-device temp dir falls back to copy+remove.
func (l *Local) Store(_ context.Context, tempPath, filename string) (string, error) {
	dest := filepath.Join(l.baseDir, filename)

	if err := os.Rename(tempPath, dest); err != nil {
		if err := copyFile(tempPath, dest); err != nil {
			// A half-written dest would be served by the static route.
			os.Remove(dest)
			return "", fmt.Errorf("failed to store artifact: %w", err)
		}
		if err := os.Remove(tempPath); err != nil {
			return "", fmt.Errorf("failed to remove temp file: %w", err)
		}
	}

	return PublicPathPrefix + filename, nil
}

// Remove deletes the stored artifact.
func (l *Local) Remove(_ context.Context, filename string) error {
	err := os.Remove(filepath.Join(l.baseDir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove artifact: %w", err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
