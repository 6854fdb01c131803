package download

import (
	"sync"
	"time"
)

// Status is the state of a download record.
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// Terminal reports whether no further transition can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Record tracks one download from creation to its terminal state. All
// mutation goes through methods; a terminal record never transitions
// again.
type Record struct {
	mu sync.Mutex

	id        string
	status    Status
	fileURL   string
	filename  string
	fileSize  int64
	progress  int
	createdAt time.Time
	updatedAt time.Time
}

func newRecord(id, filename string) *Record {
	now := time.Now().UTC()
	return &Record{
		id:        id,
		status:    StatusPending,
		filename:  filename,
		createdAt: now,
		updatedAt: now,
	}
}

// Snapshot is an immutable view of a record, safe to serialize.
type Snapshot struct {
	DownloadID string `json:"download_id"`
	Status     Status `json:"status"`
	FileURL    string `json:"file_url,omitempty"`
	Filename   string `json:"filename"`
	FileSize   int64  `json:"file_size,omitempty"`
	Progress   int    `json:"progress"`
}

// Snapshot returns a copy of the record's current state.
func (r *Record) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		DownloadID: r.id,
		Status:     r.status,
		FileURL:    r.fileURL,
		Filename:   r.filename,
		FileSize:   r.fileSize,
		Progress:   r.progress,
	}
}

func (r *Record) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Terminal() {
		return
	}
	r.status = StatusDownloading
	r.updatedAt = time.Now().UTC()
}

// setProgress updates progress while downloading. Values never decrease.
func (r *Record) setProgress(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusDownloading || percent <= r.progress {
		return
	}
	r.progress = percent
	r.updatedAt = time.Now().UTC()
}

// complete marks the record completed. Returns false if the record had
// already reached a terminal state.
func (r *Record) complete(fileURL string, fileSize int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Terminal() {
		return false
	}
	r.status = StatusCompleted
	r.fileURL = fileURL
	r.fileSize = fileSize
	r.progress = 100
	r.updatedAt = time.Now().UTC()
	return true
}

// fail marks the record failed. Returns false if the record had already
// reached a terminal state.
func (r *Record) fail() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Terminal() {
		return false
	}
	r.status = StatusFailed
	r.updatedAt = time.Now().UTC()
	return true
}

func (r *Record) expired(retention time.Duration, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status.Terminal() && now.Sub(r.updatedAt) >= retention
}
