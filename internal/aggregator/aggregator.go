package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/jlkcz/auditparser/internal/model"
)

// Stats holds a point-in-time snapshot of live event metrics.
type Stats struct {
	Uptime        string           `json:"uptime"`
	TotalEvents   int64            `json:"total_events"`
	EPS           float64          `json:"eps"`
	ActionCounts  map[string]int64 `json:"action_counts"`  // ALLOWED / DENIED / AUDIT
	ProfileCounts map[string]int64 `json:"profile_counts"` // events per profile
	DroppedEvents int64            `json:"dropped_events"`
	FilesWatched  int              `json:"files_watched"`
}

// Aggregator subscribes to the Hub and computes time-windowed metrics over
// the classified event stream.
type Aggregator struct {
	mu            sync.RWMutex
	startTime     time.Time
	totalEvents   int64
	actionCounts  map[string]int64
	profileCounts map[string]int64
	window        []time.Time // timestamps for EPS calculation (last 5 seconds)
	dropped       func() int64
	fileCount     func() int
	events        <-chan model.Record
}

// New creates an Aggregator that reads from the given Hub subscriber channel.
// droppedFn and fileCountFn provide live values from Hub and Watcher respectively.
func New(events <-chan model.Record, droppedFn func() int64, fileCountFn func() int) *Aggregator {
	return &Aggregator{
		startTime:     time.Now(),
		actionCounts:  make(map[string]int64),
		profileCounts: make(map[string]int64),
		dropped:       droppedFn,
		fileCount:     fileCountFn,
		events:        events,
	}
}

// Snapshot returns the current metrics.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	actions := make(map[string]int64)
	for k, v := range a.actionCounts {
		actions[k] = v
	}
	profiles := make(map[string]int64)
	for k, v := range a.profileCounts {
		profiles[k] = v
	}

	// Calculate EPS from the sliding window.
	now := time.Now()
	cutoff := now.Add(-5 * time.Second)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}
	eps := float64(recent) / 5.0

	return Stats{
		Uptime:        time.Since(a.startTime).Truncate(time.Second).String(),
		TotalEvents:   a.totalEvents,
		EPS:           eps,
		ActionCounts:  actions,
		ProfileCounts: profiles,
		DroppedEvents: a.dropped(),
		FilesWatched:  a.fileCount(),
	}
}

// Start begins consuming events and updating metrics. Blocks until context is cancelled.
func (a *Aggregator) Start(ctx context.Context) {
	// Periodically prune the sliding window.
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-a.events:
			if !ok {
				return
			}
			a.record(rec)
		case <-ticker.C:
			a.prune()
		}
	}
}

// record adds an event to the metrics.
func (a *Aggregator) record(rec model.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalEvents++
	a.actionCounts[rec.Row().Apparmor]++
	a.profileCounts[rec.Profile()]++
	a.window = append(a.window, time.Now())
}

// prune removes timestamps older than 5 seconds from the sliding window.
func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := time.Now().Add(-5 * time.Second)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}
