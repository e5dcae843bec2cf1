package hub

import (
	"context"
	"log"
	"sync"

	"github.com/jlkcz/auditparser/internal/model"
	"github.com/jlkcz/auditparser/internal/source"
)

const subscriberBuffer = 1024

// Hub receives raw audit lines, classifies them, and broadcasts the
// resulting records to all subscribers. Lines the classifier filters out or
// cannot recognize never reach subscribers; unrecognized ones are counted.
type Hub struct {
	classifier  *source.Scanner
	input       <-chan model.RawLine
	mu          sync.RWMutex
	subscribers []chan model.Record
	dropped     int64
	unknown     int64
}

// New creates a Hub that reads from the input channel and classifies with
// the given scanner.
func New(input <-chan model.RawLine, classifier *source.Scanner) *Hub {
	return &Hub{
		classifier: classifier,
		input:      input,
	}
}

// Subscribe returns a buffered channel that will receive classified records.
// Multiple consumers can subscribe; each gets a copy of every record.
func (h *Hub) Subscribe() <-chan model.Record {
	ch := make(chan model.Record, subscriberBuffer)
	h.mu.Lock()
	h.subscribers = append(h.subscribers, ch)
	h.mu.Unlock()
	return ch
}

// Dropped returns the total number of records dropped due to slow consumers.
func (h *Hub) Dropped() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// Unknown returns the number of unrecognizable lines seen so far.
func (h *Hub) Unknown() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.unknown
}

// Start begins reading from the input channel, classifying, and
// broadcasting. Blocks until the context is cancelled or the input channel
// is closed. Malformed lines are logged and skipped: a live stream should
// survive the occasional bad line that would abort a batch scan.
func (h *Hub) Start(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-h.input:
			if !ok {
				return
			}
			rec, unknown, err := h.classifier.Classify(raw.Text)
			if err != nil {
				log.Printf("hub: skipping malformed line from %s: %v", raw.Source, err)
				continue
			}
			if unknown != nil {
				h.mu.Lock()
				h.unknown++
				h.mu.Unlock()
				log.Printf("hub: %s", unknown.Render())
				continue
			}
			if rec == nil {
				continue
			}
			h.broadcast(rec)
		}
	}
}

// broadcast sends a record to all subscribers.
// If a subscriber's channel is full, the record is dropped for that subscriber.
func (h *Hub) broadcast(rec model.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- rec:
		default:
			h.dropped++
			log.Printf("hub: dropped record for slow consumer (total dropped: %d)", h.dropped)
		}
	}
}

// closeAll closes all subscriber channels.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}
