package janitor

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Janitor deletes saved screenshots after a fixed delay. Every pending
// deletion has a handle, so a download can cancel it and shutdown can
// drop all timers instead of leaking detached goroutines.
type Janitor struct {
	dir    string
	delay  time.Duration
	logger *zap.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func New(dir string, delay time.Duration, logger *zap.Logger) *Janitor {
	return &Janitor{
		dir:    dir,
		delay:  delay,
		logger: logger,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arms (or re-arms) the delayed delete for filename.
func (j *Janitor) Schedule(filename string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if timer, ok := j.timers[filename]; ok {
		timer.Stop()
	}

	j.timers[filename] = time.AfterFunc(j.delay, func() {
		j.expire(filename)
	})
}

// Cancel disarms the pending delete, keeping the file. It is a no-op
// for unknown filenames.
func (j *Janitor) Cancel(filename string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	timer, ok := j.timers[filename]
	if !ok {
		return false
	}
	timer.Stop()
	delete(j.timers, filename)
	return true
}

// Pending reports whether a delete is still scheduled for filename.
func (j *Janitor) Pending(filename string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	_, ok := j.timers[filename]
	return ok
}

// Stop cancels every pending deletion. Files stay on disk.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	for name, timer := range j.timers {
		timer.Stop()
		delete(j.timers, name)
	}
}

func (j *Janitor) expire(filename string) {
	j.mu.Lock()
	delete(j.timers, filename)
	j.mu.Unlock()

	j.remove(filename)
}

// remove is idempotent: a file already gone is not an error.
func (j *Janitor) remove(filename string) {
	path := filepath.Join(j.dir, filepath.Base(filename))
	err := os.Remove(path)
	switch {
	case err == nil:
		j.logger.Info("Screenshot deleted", zap.String("filename", filename))
	case os.IsNotExist(err):
	default:
		j.logger.Error("Failed to delete screenshot",
			zap.String("filename", filename),
			zap.Error(err))
	}
}
