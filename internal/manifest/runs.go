package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCanceled  RunStatus = "canceled"
)

// Run is one invocation of the packer over one partition.
type Run struct {
	ID         int64
	RunID      string
	ListPath   string
	RootDir    string
	OutputPath string
	Part       int
	NSplit     int
	Options    string
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Records    int64
	Bytes      int64
	Stats      string
	Error      string
	// ErrorKind is the fault class of Error, as reported by faults.Kind.
	ErrorKind string
}

const runColumns = `id, run_id, list_path, root_dir, output_path, part, nsplit, options_json,
    status, started_at, finished_at, record_count, bytes_written, stats_json, error_message, error_kind`

// StartRun inserts run with status running and assigns its ID.
func (s *Store) StartRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if run.RunID == "" {
		return errors.New("run id is required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = RunRunning
	res, err := s.execWithRetry(ctx,
		`INSERT INTO runs (run_id, list_path, root_dir, output_path, part, nsplit, options_json, status, started_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.ListPath, run.RootDir, run.OutputPath, run.Part, run.NSplit,
		run.Options, run.Status, run.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	run.ID = id
	return nil
}

// FinishRun commits pending records and stores the final state of run.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	if run == nil || run.ID == 0 {
		return errors.New("run has not been started")
	}
	if err := s.Flush(ctx); err != nil {
		return err
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	_, err := s.execWithRetry(ctx,
		`UPDATE runs
         SET status = ?, finished_at = ?, record_count = ?, bytes_written = ?, stats_json = ?, error_message = ?, error_kind = ?
         WHERE id = ?`,
		run.Status, nullableTime(run.FinishedAt), run.Records, run.Bytes,
		nullableString(run.Stats), nullableString(run.Error), nullableString(run.ErrorKind), run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// GetRun fetches a run by its run id. It returns nil when no run matches.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns every run, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+runColumns+` FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run        Run
		status     string
		startedAt  sql.NullString
		finishedAt sql.NullString
		stats      sql.NullString
		errMsg     sql.NullString
		errKind    sql.NullString
	)
	if err := row.Scan(
		&run.ID, &run.RunID, &run.ListPath, &run.RootDir, &run.OutputPath, &run.Part, &run.NSplit,
		&run.Options, &status, &startedAt, &finishedAt, &run.Records, &run.Bytes, &stats, &errMsg, &errKind,
	); err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	run.StartedAt = parseTime(startedAt)
	run.FinishedAt = parseTime(finishedAt)
	run.Stats = stats.String
	run.Error = errMsg.String
	run.ErrorKind = errKind.String
	return &run, nil
}
