package lifecycle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"humboldt-hq/biotica/pkg/observation"
)

// filePrefix is the fixed artifact name prefix.
const filePrefix = "biotica_"

// Config contains configuration for the lifecycle manager.
type Config struct {
	// Dir is the export directory. Created if missing.
	Dir string

	// Retention is the age past which artifacts are eligible for
	// deletion. Default: 1 hour
	Retention time.Duration

	// SweepSchedule is a cron expression for the background sweep.
	// Default: "@every 10m"
	SweepSchedule string

	// JobIndexPath is the path of the job index database. Default:
	// "<Dir>/jobs.db"
	JobIndexPath string
}

// DefaultConfig returns the default lifecycle configuration.
func DefaultConfig() *Config {
	return &Config{
		Dir:           "data/exports",
		Retention:     time.Hour,
		SweepSchedule: "@every 10m",
	}
}

// Manager creates and reclaims export artifacts.
type Manager struct {
	config *Config
	index  *JobIndex
	logger *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewManager ensures the export directory exists and opens the job index.
func NewManager(config *Config) (*Manager, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Retention <= 0 {
		config.Retention = time.Hour
	}
	if config.JobIndexPath == "" {
		config.JobIndexPath = filepath.Join(config.Dir, "jobs.db")
	}

	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory %q: %w", config.Dir, err)
	}

	index, err := NewJobIndex(config.JobIndexPath)
	if err != nil {
		return nil, err
	}

	return &Manager{
		config: config,
		index:  index,
		logger: slog.Default().With("component", "export.lifecycle"),
		now:    time.Now,
	}, nil
}

// Retention returns the configured retention duration.
func (m *Manager) Retention() time.Duration {
	return m.config.Retention
}

// Create writes one artifact through the given generator function and
// records the job. The returned job carries the assigned path and final
// byte size; it is immutable from here on.
func (m *Manager) Create(ctx context.Context, format observation.Format, rowCount int, generate func(io.Writer) error) (*observation.ExportJob, error) {
	if !format.Valid() {
		return nil, observation.NewExportError(format, rowCount,
			fmt.Errorf("unknown export format"))
	}

	createdAt := m.now().UTC()
	id := uuid.NewString()
	name := fmt.Sprintf("%s%s_%s%s",
		filePrefix, createdAt.Format("20060102T150405"), id[:8], format.Extension())
	path := filepath.Join(m.config.Dir, name)

	file, err := os.Create(path)
	if err != nil {
		return nil, observation.NewExportError(format, rowCount, err)
	}

	if err := generate(file); err != nil {
		file.Close()
		os.Remove(path)
		return nil, err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return nil, observation.NewExportError(format, rowCount, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, observation.NewExportError(format, rowCount, err)
	}

	job := &observation.ExportJob{
		ID:        id,
		Format:    format,
		Path:      path,
		SizeBytes: info.Size(),
		RowCount:  rowCount,
		CreatedAt: createdAt,
	}

	if err := m.index.Save(ctx, job); err != nil {
		os.Remove(path)
		return nil, observation.NewExportError(format, rowCount, err)
	}

	m.logger.Info("export artifact created",
		"job_id", job.ID,
		"format", string(job.Format),
		"path", job.Path,
		"size_bytes", job.SizeBytes,
		"rows", job.RowCount,
	)

	return job, nil
}

// Job resolves a job ID recorded by Create. Returns ErrNotFound for
// unknown or already-reclaimed jobs.
func (m *Manager) Job(ctx context.Context, id string) (*observation.ExportJob, error) {
	return m.index.Get(ctx, id)
}

// Reclaim deletes every artifact strictly older than now minus retention
// and prunes the matching index entries. Per-file failures are logged and
// skipped; the sweep itself only fails when the directory cannot be read.
// Returns the number of files deleted.
func (m *Manager) Reclaim(ctx context.Context, now time.Time, retention time.Duration) (int, error) {
	cutoff := now.Add(-retention)

	entries, err := os.ReadDir(m.config.Dir)
	if err != nil {
		return 0, fmt.Errorf("read export directory %q: %w", m.config.Dir, err)
	}

	deleted := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if entry.IsDir() || !reclaimable(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			m.logger.Warn("skipping unreadable export file",
				"file", entry.Name(), "error", err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(m.config.Dir, entry.Name())
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				// Raced with another sweep; nothing to do.
				continue
			}
			m.logger.Warn("failed to delete export file",
				"file", entry.Name(), "error", err)
			continue
		}
		deleted++
	}

	pruned := m.pruneIndex(ctx, cutoff)

	if deleted > 0 || pruned > 0 {
		m.logger.Info("export sweep completed",
			"deleted_files", deleted,
			"pruned_jobs", pruned,
			"retention", retention.String(),
		)
	}

	return deleted, nil
}

// pruneIndex removes stale job rows whose artifact is gone from disk.
// A job whose file survived its sweep (a failed delete, say) keeps its
// row so the ID still resolves to the artifact. Returns the number of
// rows pruned.
func (m *Manager) pruneIndex(ctx context.Context, cutoff time.Time) int64 {
	stale, err := m.index.StaleJobs(ctx, cutoff)
	if err != nil {
		m.logger.Warn("failed to list stale export jobs", "error", err)
		return 0
	}

	ids := make([]string, 0, len(stale))
	for _, job := range stale {
		if _, err := os.Stat(job.Path); os.IsNotExist(err) {
			ids = append(ids, job.ID)
		}
	}
	if len(ids) == 0 {
		return 0
	}

	pruned, err := m.index.Delete(ctx, ids)
	if err != nil {
		m.logger.Warn("failed to prune job index", "error", err)
	}
	return pruned
}

// Close closes the job index.
func (m *Manager) Close() error {
	return m.index.Close()
}

// reclaimable reports whether a file name is one of our export artifacts.
// The sweep never touches anything else living in the directory (the job
// index database in particular).
func reclaimable(name string) bool {
	if !strings.HasPrefix(name, filePrefix) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".csv" || ext == ".xlsx"
}
