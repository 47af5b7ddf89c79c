package jobs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockJobProcessor is a mock implementation of JobProcessor
type MockJobProcessor struct {
	mock.Mock
}

func (m *MockJobProcessor) ProcessJobs(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// TestWorker_StartStop tests the worker start and stop functionality
func TestWorker_StartStop(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker in goroutine
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	// Let it run for a bit
	time.Sleep(250 * time.Millisecond)

	// Stop worker
	worker.Stop()
	wg.Wait()

	// Verify ProcessJobs was called at least once
	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

// TestWorker_ContextCancellation tests worker stops on context cancellation
func TestWorker_ContextCancellation(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	// Start worker in goroutine
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	// Let it run for a bit
	time.Sleep(150 * time.Millisecond)

	// Cancel context
	cancel()
	wg.Wait()

	// Verify ProcessJobs was called
	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

func writeFileAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))

	return path
}

func TestRetentionSweeper_RemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()

	stale := writeFileAged(t, dir, "old_upload.pdf", 48*time.Hour)
	fresh := writeFileAged(t, dir, "recent_upload.pdf", time.Minute)

	sweeper := NewRetentionSweeper([]string{dir}, 24*time.Hour)
	require.NoError(t, sweeper.ProcessJobs(context.Background()))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestRetentionSweeper_SweepsMultipleDirectories(t *testing.T) {
	uploads := t.TempDir()
	scrapes := t.TempDir()

	staleUpload := writeFileAged(t, uploads, "a.pdf", 48*time.Hour)
	staleScrape := writeFileAged(t, scrapes, "b.md", 48*time.Hour)

	sweeper := NewRetentionSweeper([]string{uploads, scrapes}, 24*time.Hour)
	require.NoError(t, sweeper.ProcessJobs(context.Background()))

	_, err := os.Stat(staleUpload)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(staleScrape)
	assert.True(t, os.IsNotExist(err))
}

func TestRetentionSweeper_MissingDirectorySkipped(t *testing.T) {
	sweeper := NewRetentionSweeper([]string{"/nonexistent/staging"}, 24*time.Hour)
	assert.NoError(t, sweeper.ProcessJobs(context.Background()))
}

func TestRetentionSweeper_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	stamp := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(sub, stamp, stamp))

	sweeper := NewRetentionSweeper([]string{dir}, 24*time.Hour)
	require.NoError(t, sweeper.ProcessJobs(context.Background()))

	_, err := os.Stat(sub)
	assert.NoError(t, err)
}

func TestRetentionSweeper_ZeroRetentionUsesDefault(t *testing.T) {
	dir := t.TempDir()

	// Older than the default 24h window.
	stale := writeFileAged(t, dir, "old.md", 25*time.Hour)

	sweeper := NewRetentionSweeper([]string{dir}, 0)
	require.NoError(t, sweeper.ProcessJobs(context.Background()))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}
