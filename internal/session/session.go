package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Status is the lifecycle phase of the current processing run.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

var (
	// ErrBusy rejects queue mutations while a run is in flight.
	ErrBusy = errors.New("processing in progress")
	// ErrEmptyQueue rejects starting a run with nothing staged.
	ErrEmptyQueue = errors.New("queue is empty")
	// ErrNotFound reports an unknown queue item id.
	ErrNotFound = errors.New("queue item not found")
)

// QueueItem is one staged image awaiting processing.
type QueueItem struct {
	ID      uuid.UUID
	Name    string
	Path    string
	Preview string
}

// ProcessedImage is one finished result row. Nil coordinates mean the
// location is unknown.
type ProcessedImage struct {
	FileName  string
	Source    string
	Preview   string
	Address   string
	Latitude  *float64
	Longitude *float64
	Date      string
	Time      string
}

// Progress counts processed images against the run total.
type Progress struct {
	Processed int
	Total     int
}

// Event is delivered to subscribers after every run transition.
type Event struct {
	Status   Status
	Progress Progress
}

// Previewer creates and releases preview resources for staged images.
type Previewer interface {
	Create(path string) (string, error)
	Release(ref string) error
}

// NopPreviewer satisfies Previewer without creating anything.
type NopPreviewer struct{}

func (NopPreviewer) Create(path string) (string, error) { return "", nil }
func (NopPreviewer) Release(ref string) error           { return nil }

// Store holds the staged queue and the accumulated results for one
// process. All mutation goes through named transitions, and the
// processing status moves only along Idle → Processing → Completed/Error
// → Idle. During a run the staged queue doubles as the not-yet-merged
// remainder, so preview ownership always has exactly one holder.
type Store struct {
	mu       sync.RWMutex
	previews Previewer
	queue    []QueueItem
	results  []ProcessedImage
	status   Status
	progress Progress
	lastErr  string

	nextSub     int
	subscribers map[int]chan Event
}

func New(previews Previewer) *Store {
	return &Store{
		previews:    previews,
		status:      StatusIdle,
		subscribers: make(map[int]chan Event),
	}
}

// Enqueue stages one image and renders its preview.
func (s *Store) Enqueue(name, path string) (QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusProcessing {
		return QueueItem{}, ErrBusy
	}

	preview, err := s.previews.Create(path)
	if err != nil {
		return QueueItem{}, fmt.Errorf("failed to create preview for %s: %w", name, err)
	}

	item := QueueItem{ID: uuid.New(), Name: name, Path: path, Preview: preview}
	s.queue = append(s.queue, item)
	return item, nil
}

// Remove unstages the item with the given id and releases its preview.
func (s *Store) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusProcessing {
		return ErrBusy
	}

	for i, item := range s.queue {
		if item.ID == id {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			s.releasePreview(item.Preview)
			return nil
		}
	}
	return ErrNotFound
}

// ClearQueue unstages every item and releases all queue previews.
func (s *Store) ClearQueue() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusProcessing {
		return ErrBusy
	}

	for _, item := range s.queue {
		s.releasePreview(item.Preview)
	}
	s.queue = nil
	return nil
}

// BeginProcessing transitions Idle → Processing and returns the ordered
// run snapshot. Queue mutations are rejected until the run completes or
// fails; the staged items are consumed chunk by chunk as results merge.
func (s *Store) BeginProcessing() ([]QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusProcessing {
		return nil, ErrBusy
	}
	if s.status != StatusIdle {
		return nil, fmt.Errorf("cannot start processing from status %q", s.status)
	}
	if len(s.queue) == 0 {
		return nil, ErrEmptyQueue
	}

	snapshot := make([]QueueItem, len(s.queue))
	copy(snapshot, s.queue)

	s.status = StatusProcessing
	s.progress = Progress{Processed: 0, Total: len(snapshot)}
	s.lastErr = ""
	s.notifyLocked()
	return snapshot, nil
}

// AppendResults merges one processed chunk: the first len(entries) staged
// items leave the queue, their previews now owned by the result rows, and
// progress advances by the chunk size.
func (s *Store) AppendResults(entries []ProcessedImage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(entries)
	if n > len(s.queue) {
		n = len(s.queue)
	}
	s.queue = s.queue[n:]
	s.results = append(s.results, entries...)
	s.progress.Processed += len(entries)
	s.notifyLocked()
}

// CompleteRun transitions Processing → Completed.
func (s *Store) CompleteRun() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = StatusCompleted
	s.notifyLocked()
}

// FailRun transitions Processing → Error. Results accumulated before the
// failure stay visible; previews of staged items the run never merged are
// released here, exactly once.
func (s *Store) FailRun(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = StatusError
	if err != nil {
		s.lastErr = err.Error()
	}
	for _, item := range s.queue {
		s.releasePreview(item.Preview)
	}
	s.queue = nil
	s.notifyLocked()
}

// ClearResults releases result previews and returns the store to Idle.
func (s *Store) ClearResults() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusProcessing {
		return ErrBusy
	}

	for _, entry := range s.results {
		s.releasePreview(entry.Preview)
	}
	s.results = nil
	s.progress = Progress{}
	s.lastErr = ""
	s.status = StatusIdle
	s.notifyLocked()
	return nil
}

// Queue returns a copy of the staged items.
func (s *Store) Queue() []QueueItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]QueueItem, len(s.queue))
	copy(items, s.queue)
	return items
}

// Results returns a copy of the accumulated result rows.
func (s *Store) Results() []ProcessedImage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]ProcessedImage, len(s.results))
	copy(entries, s.results)
	return entries
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Store) Progress() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

// Err returns the user-visible message from the last failed run.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) releasePreview(ref string) {
	if ref == "" {
		return
	}
	if err := s.previews.Release(ref); err != nil {
		slog.Warn("Failed to release preview", "ref", ref, "error", err)
	}
}
