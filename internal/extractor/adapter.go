package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Adapter runs the engine under a bounded timeout and guarantees that
// only the package's error taxonomy escapes upward.
type Adapter struct {
	engine  Engine
	timeout time.Duration
	logger  *zap.Logger
}

// NewAdapter creates an Adapter. A non-positive timeout falls back to 30s.
func NewAdapter(engine Engine, timeout time.Duration, logger *zap.Logger) *Adapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Adapter{
		engine:  engine,
		timeout: timeout,
		logger:  logger.Named("extractor"),
	}
}

// Resolve calls the engine for url. The returned error is always one of
// ErrExtractionTimeout, ErrContentUnavailable or ErrExtraction (possibly
// wrapped), never a raw engine error.
func (a *Adapter) Resolve(ctx context.Context, url string) (*RawInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	info, err := a.engine.Resolve(ctx, url)
	if err != nil {
		return nil, a.classify(url, err)
	}

	if info == nil || info.ID == "" {
		a.logger.Warn("engine returned empty metadata", zap.String("url", url))
		return nil, fmt.Errorf("%w: empty metadata", ErrExtraction)
	}

	a.logger.Info("resolved metadata",
		zap.String("video_id", info.ID),
		zap.Int("candidates", len(info.Formats)),
		zap.Duration("elapsed", time.Since(start)))
	return info, nil
}

func (a *Adapter) classify(url string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrExtractionTimeout):
		a.logger.Warn("engine timed out", zap.String("url", url))
		return ErrExtractionTimeout
	case errors.Is(err, context.Canceled):
		// Client disconnect; propagate so the caller can stop quietly.
		return context.Canceled
	case errors.Is(err, ErrContentUnavailable):
		a.logger.Info("content unavailable", zap.String("url", url))
		return ErrContentUnavailable
	default:
		a.logger.Error("extraction failed", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrExtraction, err)
	}
}
