package edits

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"map-editor/core/session"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a commit id is unknown.
var ErrNotFound = errors.New("commit not found")

const (
	defaultHistory = 500
	defaultLimit   = 50
	defaultQueue   = 256
	persistTimeout = 10 * time.Second
)

// Journal records committed edits. Commits land in the in-memory history
// immediately; database writes happen on a background worker so Commit
// never waits on I/O.
type Journal struct {
	db      *gorm.DB
	logger  *zap.Logger
	history int

	mu     sync.RWMutex
	recent []Entry

	queueMu sync.Mutex
	queue   chan Entry
	closed  bool
	done    chan struct{}
}

// NewJournal creates a journal. db may be nil, in which case only the
// in-memory history is kept. With a database, Close must be called to flush
// pending writes.
func NewJournal(db *gorm.DB, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &Journal{db: db, logger: logger, history: defaultHistory}
	if db != nil {
		j.queue = make(chan Entry, defaultQueue)
		j.done = make(chan struct{})
		go j.run()
	}
	return j
}

// Close stops accepting database writes and waits until the queued ones are done.
func (j *Journal) Close() {
	if j.queue == nil {
		return
	}
	j.queueMu.Lock()
	if !j.closed {
		j.closed = true
		close(j.queue)
	}
	j.queueMu.Unlock()
	<-j.done
}

func (j *Journal) run() {
	defer close(j.done)
	for e := range j.queue {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if err := j.persist(ctx, e); err != nil {
			j.logger.Error("Failed to persist committed edit",
				zap.String("commit_id", e.ID),
				zap.String("layer", e.LayerID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Migrate creates or updates the edit_commits table.
func (j *Journal) Migrate(ctx context.Context) error {
	if j.db == nil {
		return nil
	}
	if err := j.db.WithContext(ctx).AutoMigrate(&CommitRow{}); err != nil {
		return fmt.Errorf("failed to migrate edit journal: %w", err)
	}
	return nil
}

// Commit records c. It satisfies session.Committer.
func (j *Journal) Commit(c session.Commit) {
	e := entryFromCommit(c)

	j.mu.Lock()
	j.recent = append(j.recent, e)
	if len(j.recent) > j.history {
		j.recent = j.recent[len(j.recent)-j.history:]
	}
	j.mu.Unlock()

	if j.db == nil {
		j.logger.Debug("Edit journaled in memory only", zap.String("commit_id", e.ID))
		return
	}

	j.queueMu.Lock()
	defer j.queueMu.Unlock()
	if j.closed {
		j.logger.Warn("Edit journal closed, commit kept in memory only", zap.String("commit_id", e.ID))
		return
	}
	select {
	case j.queue <- e:
	default:
		j.logger.Error("Edit journal queue full, commit kept in memory only",
			zap.String("commit_id", e.ID),
			zap.Int("queue", cap(j.queue)),
		)
	}
}

func (j *Journal) persist(ctx context.Context, e Entry) error {
	row, err := e.toRow()
	if err != nil {
		return err
	}
	if err := j.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert commit: %w", err)
	}
	return nil
}

func (j *Journal) getMemory(id string) (Entry, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	for _, e := range j.recent {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// List returns the most recent commits first, filtered by layer when layerID
// is non-empty.
func (j *Journal) List(ctx context.Context, layerID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if j.db == nil {
		return j.listMemory(layerID, limit), nil
	}

	q := j.db.WithContext(ctx).Order("committed_at DESC").Limit(limit)
	if layerID != "" {
		q = q.Where("layer_id = ?", layerID)
	}
	var rows []CommitRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}

	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		e, err := r.toEntry()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (j *Journal) listMemory(layerID string, limit int) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]Entry, 0, limit)
	for i := len(j.recent) - 1; i >= 0 && len(out) < limit; i-- {
		if layerID == "" || j.recent[i].LayerID == layerID {
			out = append(out, j.recent[i])
		}
	}
	return out
}

// Get returns one commit by id. Recent commits are served from memory, so a
// commit is visible before its database write finishes.
func (j *Journal) Get(ctx context.Context, id string) (Entry, error) {
	if e, ok := j.getMemory(id); ok {
		return e, nil
	}
	if j.db == nil {
		return Entry{}, ErrNotFound
	}

	var row CommitRow
	err := j.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to load commit: %w", err)
	}
	return row.toEntry()
}
