// Package lifecycle names, stores, and reclaims export artifacts on shared
// storage.
//
// # Artifacts
//
// Every export request produces one artifact file under the configured
// export directory, named with a fixed prefix, a timestamp, and a short
// unique suffix (for example "biotica_20260415T103000_3f2a9c1d.csv").
// Jobs are recorded in a small SQLite index so downloads can resolve a job
// ID to its path without trusting client-supplied file names.
//
// # Reclamation
//
// Reclaim deletes every artifact strictly older than the retention
// threshold. It checks age at visit time only, so artifacts created while
// a sweep is running are never touched, and no locking is needed against
// in-flight exports. Per-file deletion failures are logged and skipped;
// re-running with no eligible files is a no-op. The Scheduler runs the
// sweep on a cron schedule independently of any single export request.
package lifecycle
