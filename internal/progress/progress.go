// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress tracks the live state of batch runs. A run's
// pipeline goroutine is the single writer; CLI pollers and any other
// readers take consistent snapshots.
package progress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// State is a point-in-time view of a batch run.
type State struct {
	// Message describes the current phase in human terms
	// ("Fetching playlist...", "Processing video 3/12...", "Complete").
	Message string `json:"message" yaml:"message"`

	// Processed counts items fully analyzed and stored this run.
	Processed int `json:"processed" yaml:"processed"`

	// Skipped counts items left untouched because a complete analysis
	// was already stored.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Failed counts items that hit a per-item error this run.
	Failed int `json:"failed" yaml:"failed"`

	// Total is the number of items in the playlist.
	Total int `json:"total" yaml:"total"`

	// CurrentVideoID and CurrentVideoTitle identify the item being
	// worked on, empty between items and after completion.
	CurrentVideoID    string `json:"current_video_id,omitempty" yaml:"current_video_id,omitempty"`
	CurrentVideoTitle string `json:"current_video_title,omitempty" yaml:"current_video_title,omitempty"`

	// Done reports whether the run has finished, successfully or not.
	Done bool `json:"done" yaml:"done"`
}

// Counts formats the running tallies for log lines.
func (s State) Counts() string {
	return fmt.Sprintf("%d processed, %d skipped, %d failed (total: %d)",
		s.Processed, s.Skipped, s.Failed, s.Total)
}

// Tracker holds the mutable state of one run behind a mutex.
type Tracker struct {
	mu    sync.Mutex
	state State
}

// NewTracker returns a tracker in its initial state.
func NewTracker() *Tracker {
	return &Tracker{state: State{Message: "Starting..."}}
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SetMessage updates the phase message.
func (t *Tracker) SetMessage(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Message = msg
}

// SetTotal records the playlist size once it is known.
func (t *Tracker) SetTotal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Total = n
}

// StartItem marks an item as in progress.
func (t *Tracker) StartItem(videoID, title, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.CurrentVideoID = videoID
	t.state.CurrentVideoTitle = title
	t.state.Message = msg
}

// AddProcessed increments the processed count.
func (t *Tracker) AddProcessed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Processed++
}

// AddSkipped increments the skipped count.
func (t *Tracker) AddSkipped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Skipped++
}

// AddFailed increments the failed count.
func (t *Tracker) AddFailed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Failed++
}

// Finish marks the run complete with a final message and clears the
// current-item fields.
func (t *Tracker) Finish(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Message = msg
	t.state.CurrentVideoID = ""
	t.state.CurrentVideoTitle = ""
	t.state.Done = true
}

// ErrNotFound indicates an unknown run id.
var ErrNotFound = errors.New("unknown run id")

// Registry maps run ids to trackers so callers can poll runs they
// started earlier.
type Registry struct {
	mu   sync.Mutex
	runs map[string]*Tracker
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{runs: make(map[string]*Tracker)}
}

// NewRun registers a fresh tracker under a new run id.
func (r *Registry) NewRun() (string, *Tracker) {
	id := uuid.NewString()
	t := NewTracker()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[id] = t
	return id, t
}

// Get returns the tracker for a run id.
func (r *Registry) Get(id string) (*Tracker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t, nil
}
