package tailer

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jlkcz/auditparser/internal/model"
	"github.com/jlkcz/auditparser/internal/watcher"
)

// Tailer reads newly appended lines from watched audit logs and emits
// RawLine values for classification downstream.
type Tailer struct {
	mu     sync.Mutex
	logs   map[string]*trackedLog
	out    chan model.RawLine
	ckpt   *Checkpoint
	events <-chan watcher.Event
	watch  *watcher.Watcher
}

type trackedLog struct {
	path   string
	file   *os.File
	offset int64
}

// New creates a Tailer that reads events from the given Watcher.
func New(w *watcher.Watcher, ckpt *Checkpoint) *Tailer {
	return &Tailer{
		logs:   make(map[string]*trackedLog),
		out:    make(chan model.RawLine, 512),
		ckpt:   ckpt,
		events: w.Events,
		watch:  w,
	}
}

// Lines returns the channel where raw audit lines are sent.
func (t *Tailer) Lines() <-chan model.RawLine {
	return t.out
}

// Start begins processing watcher events. Blocks until context is cancelled.
func (t *Tailer) Start(ctx context.Context) {
	defer close(t.out)

	// Open all initially watched logs.
	for _, p := range t.watch.Paths() {
		t.openLog(p)
	}

	// Periodic checkpoint save.
	saveTicker := time.NewTicker(5 * time.Second)
	defer saveTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.saveCheckpoint()
			t.closeAll()
			return

		case ev, ok := <-t.events:
			if !ok {
				return
			}
			t.handleEvent(ev)

		case <-saveTicker.C:
			t.saveCheckpoint()
		}
	}
}

// handleEvent dispatches watcher events to the appropriate handler.
func (t *Tailer) handleEvent(ev watcher.Event) {
	switch {
	case ev.Op&fsnotify.Write != 0:
		t.readNewLines(ev.Path)

	case ev.Op&fsnotify.Create != 0:
		// New file appeared (auditd rotated or was restarted).
		t.openLog(ev.Path)
		t.readNewLines(ev.Path)

	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		// Log rotated away — close and wait for it to reappear.
		t.closeLog(ev.Path)
		go t.reconnect(ev.Path)
	}
}

// openLog opens an audit log for tailing, resuming from the checkpointed
// offset. Without a checkpoint, tailing starts at the end: the batch report
// covers history, follow mode covers what happens next.
func (t *Tailer) openLog(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.logs[path]; exists {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("cannot open %s: %v", path, err)
		return
	}

	var offset int64
	if saved, ok := t.ckpt.Get(path); ok {
		// A rotated file can be smaller than the saved offset; start over.
		if info, err := f.Stat(); err == nil && saved <= info.Size() {
			offset = saved
		}
	} else {
		offset, _ = f.Seek(0, io.SeekEnd)
	}
	f.Seek(offset, io.SeekStart)

	t.logs[path] = &trackedLog{
		path:   path,
		file:   f,
		offset: offset,
	}
}

// readNewLines reads from the last offset to EOF and emits complete lines.
func (t *Tailer) readNewLines(path string) {
	t.mu.Lock()
	tl, ok := t.logs[path]
	if !ok {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	scanner := bufio.NewScanner(tl.file)
	for scanner.Scan() {
		t.out <- model.RawLine{Text: scanner.Text(), Source: path}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("read error on %s: %v", path, err)
	}

	// Update offset.
	pos, _ := tl.file.Seek(0, io.SeekCurrent)
	tl.offset = pos
	t.ckpt.Set(path, pos)
}

// closeLog releases a tracked log file.
func (t *Tailer) closeLog(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tl, ok := t.logs[path]; ok {
		tl.file.Close()
		delete(t.logs, path)
	}
}

// reconnect polls for a log to reappear after rotation (up to 5 retries).
func (t *Tailer) reconnect(path string) {
	for i := 0; i < 5; i++ {
		time.Sleep(1 * time.Second)
		if _, err := os.Stat(path); err == nil {
			log.Printf("reconnected to rotated log: %s", path)
			_ = t.watch.ReWatch(path)
			t.ckpt.Set(path, 0) // fresh file, read from the top
			t.openLog(path)
			return
		}
	}
	log.Printf("gave up reconnecting to %s after 5 retries", path)
}

// saveCheckpoint persists the current offsets to disk.
func (t *Tailer) saveCheckpoint() {
	if err := t.ckpt.Save(); err != nil {
		log.Printf("checkpoint save failed: %v", err)
	}
}

// closeAll closes all tracked log handles.
func (t *Tailer) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path, tl := range t.logs {
		tl.file.Close()
		delete(t.logs, path)
	}
}
