package manifest

import (
	"context"
	"encoding/json"
	"fmt"
)

// Record locates one packed image inside a container.
type Record struct {
	Seq     int64
	ImageID uint64
	Path    string
	Offset  int64
	Size    int64
	Labels  []float32
}

// AddRecord queues rec for run. Rows are committed in batches; call Flush or
// FinishRun to make them durable.
func (s *Store) AddRecord(ctx context.Context, runPK int64, rec Record) error {
	ctx = ensureContext(ctx)
	if s.batch == nil {
		if err := s.beginBatch(ctx); err != nil {
			return err
		}
	}
	labels, err := json.Marshal(rec.Labels)
	if err != nil {
		return fmt.Errorf("encode labels: %w", err)
	}
	if _, err := s.insert.ExecContext(ctx, runPK, rec.Seq, int64(rec.ImageID), rec.Path, rec.Offset, rec.Size, string(labels)); err != nil {
		return fmt.Errorf("insert record %d: %w", rec.ImageID, err)
	}
	s.batchRows++
	if s.batchRows >= recordBatchSize {
		return s.Flush(ctx)
	}
	return nil
}

// Flush commits the pending record batch, if any.
func (s *Store) Flush(ctx context.Context) error {
	if s.batch == nil {
		return nil
	}
	tx := s.batch
	s.batch, s.insert, s.batchRows = nil, nil, 0
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record batch: %w", err)
	}
	return nil
}

func (s *Store) beginBatch(ctx context.Context) error {
	if err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		s.batch = tx
		return err
	}); err != nil {
		return fmt.Errorf("begin record batch: %w", err)
	}
	insert, err := s.batch.PrepareContext(ctx,
		`INSERT INTO records (run_pk, seq, image_id, path, byte_offset, size, labels_json)
         VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = s.batch.Rollback()
		s.batch = nil
		return fmt.Errorf("prepare record insert: %w", err)
	}
	s.insert = insert
	return nil
}

// Records returns the records of a run in write order.
func (s *Store) Records(ctx context.Context, runPK int64) ([]Record, error) {
	return s.queryRecords(ctx, `WHERE run_pk = ? ORDER BY seq`, runPK)
}

// FindImage returns the records of a run carrying imageID.
func (s *Store) FindImage(ctx context.Context, runPK int64, imageID uint64) ([]Record, error) {
	return s.queryRecords(ctx, `WHERE run_pk = ? AND image_id = ? ORDER BY seq`, runPK, int64(imageID))
}

func (s *Store) queryRecords(ctx context.Context, where string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT seq, image_id, path, byte_offset, size, labels_json FROM records `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var (
			rec    Record
			id     int64
			labels string
		)
		if err := rows.Scan(&rec.Seq, &id, &rec.Path, &rec.Offset, &rec.Size, &labels); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.ImageID = uint64(id)
		if err := json.Unmarshal([]byte(labels), &rec.Labels); err != nil {
			return nil, fmt.Errorf("decode labels of record %d: %w", rec.Seq, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
