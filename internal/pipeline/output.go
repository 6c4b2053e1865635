package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"

	"im2rec/internal/faults"
	"im2rec/internal/recordio"
)

// partitionOutput owns the files of one partition: the advisory lock, the
// container and the optional offset index.
type partitionOutput struct {
	path      string
	indexPath string

	lock   *flock.Flock
	file   *os.File
	writer *recordio.Writer
	index  *os.File
	idxBuf *bufio.Writer

	closed bool
}

func openPartition(path string, withIndex bool) (*partitionOutput, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, faults.Wrap(faults.ErrOutput, "output", "mkdir", dir, err)
		}
	}

	out := &partitionOutput{path: path, lock: flock.New(LockPath(path))}
	ok, err := out.lock.TryLock()
	if err != nil {
		return nil, faults.Wrap(faults.ErrOutput, "output", "lock", LockPath(path), err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrConfiguration, "output", "lock",
			fmt.Sprintf("%s is being written by another process", path), nil)
	}

	file, err := os.Create(path)
	if err != nil {
		_ = out.releaseLock()
		return nil, faults.Wrap(faults.ErrOutput, "output", "create", path, err)
	}
	out.file = file
	out.writer = recordio.NewWriter(file, 0)

	if withIndex {
		out.indexPath = IndexPath(path)
		index, err := os.Create(out.indexPath)
		if err != nil {
			_ = file.Close()
			_ = out.releaseLock()
			return nil, faults.Wrap(faults.ErrOutput, "output", "create", out.indexPath, err)
		}
		out.index = index
		out.idxBuf = bufio.NewWriter(index)
	}
	return out, nil
}

// append writes one record and its index line and returns the record offset.
func (o *partitionOutput) append(imageID uint64, record []byte) (int64, error) {
	offset, err := o.writer.WriteRecord(record)
	if err != nil {
		return 0, err
	}
	if o.idxBuf != nil {
		line := strconv.AppendUint(nil, imageID, 10)
		line = append(line, '\t')
		line = strconv.AppendInt(line, offset, 10)
		line = append(line, '\n')
		if _, err := o.idxBuf.Write(line); err != nil {
			return 0, fmt.Errorf("write index: %w", err)
		}
	}
	return offset, nil
}

// size returns the container size including buffered bytes.
func (o *partitionOutput) size() int64 { return o.writer.Offset() }

// releaseLock deletes the lock file while the lock is still held, then
// unlocks it.
func (o *partitionOutput) releaseLock() error {
	var errs []error
	if err := os.Remove(o.lock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, fmt.Errorf("remove %s: %w", o.lock.Path(), err))
	}
	if err := o.lock.Unlock(); err != nil {
		errs = append(errs, fmt.Errorf("unlock %s: %w", o.lock.Path(), err))
	}
	return errors.Join(errs...)
}

// Close flushes and closes every file and releases the lock. It is safe to
// call more than once; only the first call does any work.
func (o *partitionOutput) Close() error {
	if o == nil || o.closed {
		return nil
	}
	o.closed = true
	var errs []error
	if err := o.writer.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("flush %s: %w", o.path, err))
	}
	if err := o.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close %s: %w", o.path, err))
	}
	if o.index != nil {
		if err := o.idxBuf.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("flush %s: %w", o.indexPath, err))
		}
		if err := o.index.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", o.indexPath, err))
		}
	}
	if err := o.releaseLock(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return faults.Wrap(faults.ErrOutput, "output", "close", o.path, err)
	}
	return nil
}
