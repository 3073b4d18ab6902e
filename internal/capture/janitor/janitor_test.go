package janitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("jpeg bytes"), 0o644))
	return path
}

func waitGone(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("file %s still exists", path)
}

func TestScheduleDeletesAfterDelay(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, 20*time.Millisecond, zap.NewNop())
	defer j.Stop()

	path := writeFile(t, dir, "screenshot_1.jpg")
	j.Schedule("screenshot_1.jpg")
	assert.True(t, j.Pending("screenshot_1.jpg"))

	waitGone(t, path)
	assert.False(t, j.Pending("screenshot_1.jpg"))
}

func TestCancelKeepsFile(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, 20*time.Millisecond, zap.NewNop())
	defer j.Stop()

	path := writeFile(t, dir, "screenshot_2.jpg")
	j.Schedule("screenshot_2.jpg")
	require.True(t, j.Cancel("screenshot_2.jpg"))

	time.Sleep(60 * time.Millisecond)
	_, err := os.Stat(path)
	assert.NoError(t, err)

	// Second cancel is a no-op.
	assert.False(t, j.Cancel("screenshot_2.jpg"))
}

func TestDeleteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, 10*time.Millisecond, zap.NewNop())
	defer j.Stop()

	// Never written to disk; expiry must not blow up.
	j.Schedule("never_existed.jpg")
	time.Sleep(50 * time.Millisecond)
	assert.False(t, j.Pending("never_existed.jpg"))
}

func TestRescheduleRearms(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, 30*time.Millisecond, zap.NewNop())
	defer j.Stop()

	path := writeFile(t, dir, "screenshot_3.jpg")
	j.Schedule("screenshot_3.jpg")
	j.Schedule("screenshot_3.jpg")

	waitGone(t, path)
}

func TestStopCancelsEverything(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, 20*time.Millisecond, zap.NewNop())

	path := writeFile(t, dir, "screenshot_4.jpg")
	j.Schedule("screenshot_4.jpg")
	j.Stop()

	time.Sleep(60 * time.Millisecond)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
