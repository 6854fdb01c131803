// Package download orchestrates rendition transfers: locate the chosen
// format, stream it to a scoped temp file, publish the artifact and
// track record state through the retention window.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/topclip/tikfetch/internal/format"
	"github.com/topclip/tikfetch/internal/storage"
	"github.com/topclip/tikfetch/internal/video"
)

var (
	// ErrFormatNotFound means the requested format_id matched no
	// rendition of the resolved video.
	ErrFormatNotFound = errors.New("format not found")

	// ErrDownloadFailed means the transfer or publish step failed.
	ErrDownloadFailed = errors.New("download failed")
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Manager owns download records and their temp files. Records live in
// memory for the process lifetime, trimmed by the retention janitor.
//
// Filenames are deterministic per video+rendition, so overlapping
// downloads of the same rendition converge on one artifact; when either
// record expires the shared artifact goes with it.
type Manager struct {
	service   *video.Service
	backend   storage.Backend
	client    *http.Client
	tempDir   string
	retention time.Duration
	logger    *zap.Logger

	mu      sync.RWMutex
	records map[string]*Record
}

// NewManager creates a download manager writing in-flight transfers to
// tempDir.
func NewManager(service *video.Service, backend storage.Backend, tempDir string, retention time.Duration, logger *zap.Logger) (*Manager, error) {
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &Manager{
		service: service,
		backend: backend,
		client: &http.Client{
			Timeout: 0, // transfers are bounded by the request context
		},
		tempDir:   tempDir,
		retention: retention,
		logger:    logger.Named("download"),
		records:   make(map[string]*Record),
	}, nil
}

// Get returns a snapshot of the record with the given id.
func (m *Manager) Get(downloadID string) (Snapshot, bool) {
	m.mu.RLock()
	rec, ok := m.records[downloadID]
	m.mu.RUnlock()
	if !ok {
		return Snapshot{}, false
	}
	return rec.Snapshot(), true
}

// Download resolves rawURL, locates the rendition matching formatID and
// transfers it to public storage. It returns the record's terminal
// snapshot. Resolution errors and ErrFormatNotFound are returned before
// any record is created; transfer errors leave a failed record behind
// and return ErrDownloadFailed.
func (m *Manager) Download(ctx context.Context, rawURL, formatID string) (Snapshot, error) {
	meta, err := m.service.Resolve(ctx, rawURL)
	if err != nil {
		return Snapshot{}, err
	}

	f := format.Find(meta.AvailableFormats, formatID)
	if f == nil {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrFormatNotFound, formatID)
	}

	sourceURL := f.SourceURL
	if sourceURL == "" {
		sourceURL = meta.VideoURL
	}
	if sourceURL == "" {
		// The "best" fallback advertises availability without a direct
		// stream; there is nothing to fetch from it.
		return Snapshot{}, fmt.Errorf("%w: %s has no downloadable source", ErrFormatNotFound, formatID)
	}

	id := uuid.New().String()
	filename := buildFilename(meta.Author, meta.Title, meta.ID, f.Quality, f.Ext)

	rec := newRecord(id, filename)
	m.mu.Lock()
	m.records[id] = rec
	m.mu.Unlock()

	m.logger.Info("download started",
		zap.String("download_id", id),
		zap.String("video_id", meta.ID),
		zap.String("format_id", formatID))

	if err := m.transfer(ctx, rec, sourceURL, filename); err != nil {
		rec.fail()
		m.logger.Warn("download failed",
			zap.String("download_id", id),
			zap.Error(err))
		return rec.Snapshot(), fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	m.logger.Info("download completed",
		zap.String("download_id", id),
		zap.String("filename", filename))
	return rec.Snapshot(), nil
}

// transfer streams the source to a temp file and hands it to storage.
// The temp file never survives this call: Store consumes it on success
// and the deferred remove covers every failure and cancellation path.
func (m *Manager) transfer(ctx context.Context, rec *Record, sourceURL, filename string) error {
	rec.start()

	tempPath := filepath.Join(m.tempDir, fmt.Sprintf("dl-%s.part", rec.id))
	defer os.Remove(tempPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "https://www.tiktok.com/")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("stream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return fmt.Errorf("stream responded with status %d", resp.StatusCode)
	}

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	// Progress tracks observed bytes over Content-Length. An unknown
	// length stays at 0 until completion sets 100.
	written, err := io.Copy(file, &progressReader{
		reader: resp.Body,
		total:  resp.ContentLength,
		record: rec,
	})
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("transfer interrupted: %w", err)
	}

	fileURL, err := m.backend.Store(ctx, tempPath, filename)
	if err != nil {
		return fmt.Errorf("failed to publish artifact: %w", err)
	}

	rec.complete(fileURL, written)
	return nil
}

// Run sweeps expired terminal records until ctx is cancelled. Each
// sweep drops the record and removes its stored artifact.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *Manager) sweep(ctx context.Context) {
	now := time.Now().UTC()

	m.mu.RLock()
	var expired []*Record
	for _, rec := range m.records {
		if rec.expired(m.retention, now) {
			expired = append(expired, rec)
		}
	}
	m.mu.RUnlock()

	for _, rec := range expired {
		snap := rec.Snapshot()
		if snap.Status == StatusCompleted {
			// The record is dropped only once its artifact is gone; a
			// failed remove leaves it in place for the next sweep.
			if err := m.backend.Remove(ctx, snap.Filename); err != nil {
				m.logger.Warn("failed to remove expired artifact",
					zap.String("download_id", snap.DownloadID),
					zap.Error(err))
				continue
			}
		}
		m.mu.Lock()
		delete(m.records, snap.DownloadID)
		m.mu.Unlock()
		m.logger.Debug("record expired", zap.String("download_id", snap.DownloadID))
	}
}

// progressReader counts bytes off the stream and feeds the record's
// progress as a 0-100 percentage when the total is known.
type progressReader struct {
	reader io.Reader
	total  int64
	read   int64
	record *Record
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.read += int64(n)
	if pr.total > 0 {
		pr.record.setProgress(int(pr.read * 100 / pr.total))
	}
	return n, err
}
