// Package audit records and queries the change log of mutating requests.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/ServiLut/tote-bag/internal/domain/audit"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultWriteTimeout bounds one background audit write
const DefaultWriteTimeout = 5 * time.Second

// PreviousStateFetcher loads the current state of an entity by its id.
// A nil result means there is nothing to snapshot.
type PreviousStateFetcher func(ctx context.Context, id string) (any, error)

// ByID adapts a repository finder keyed by UUID to a PreviousStateFetcher.
// Ids that are not UUIDs yield no snapshot.
func ByID[T any](find func(ctx context.Context, id uuid.UUID) (*T, error)) PreviousStateFetcher {
	return func(ctx context.Context, id string) (any, error) {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, nil
		}
		v, err := find(ctx, parsed)
		if err != nil || v == nil {
			return nil, err
		}
		return v, nil
	}
}

// Recorder snapshots previous state and writes audit records in the
// background. Close waits for pending writes.
type Recorder struct {
	repo     audit.Repository
	fetchers map[string]PreviousStateFetcher
	timeout  time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewRecorder creates a Recorder. fetchers maps an entity name (the first
// path segment) to the function that loads it.
func NewRecorder(repo audit.Repository, fetchers map[string]PreviousStateFetcher, timeout time.Duration, logger *zap.Logger) *Recorder {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	table := make(map[string]PreviousStateFetcher, len(fetchers))
	for entity, fetch := range fetchers {
		table[entity] = fetch
	}
	return &Recorder{
		repo:     repo,
		fetchers: table,
		timeout:  timeout,
		logger:   logger,
	}
}

// PreviousState returns the JSON snapshot of entity/id, or nil when the
// entity is unknown, the lookup fails or the row does not exist
func (r *Recorder) PreviousState(ctx context.Context, entity, id string) []byte {
	fetch, ok := r.fetchers[entity]
	if !ok || id == "" {
		return nil
	}
	v, err := fetch(ctx, id)
	if err != nil {
		r.logger.Debug("no previous state for audit",
			zap.String("entity", entity),
			zap.String("entity_id", id),
			zap.Error(err),
		)
		return nil
	}
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		r.logger.Warn("failed to encode previous state", zap.String("entity", entity), zap.Error(err))
		return nil
	}
	return b
}

// Record writes the entry on a background goroutine. The write outlives
// the request context and is bounded by the recorder timeout. Failures
// are logged.
func (r *Recorder) Record(ctx context.Context, e audit.Entry) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.logger.Warn("audit recorder closed, dropping entry",
			zap.String("action", e.Action),
			zap.String("entity", e.Entity),
		)
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()

		l := audit.NewLog(e)
		if err := r.repo.Create(ctx, l); err != nil {
			r.logger.Error("failed to save audit log",
				zap.String("action", e.Action),
				zap.String("entity", e.Entity),
				zap.Error(err),
			)
		}
	}()
}

// Close stops accepting entries and waits for in-flight writes until ctx
// is done
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("audit recorder: pending writes abandoned"), ctx.Err())
	}
}
