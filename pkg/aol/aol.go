package aol

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"crabdb/pkg/metrics"
	"crabdb/pkg/object"
	"crabdb/pkg/store"
)

const (
	opSet byte = 0
	opDel byte = 1

	sizeFieldBytes = 8
)

// logFile is one shard of the log: an open file guarded by a mutex that
// serializes writes to it. Two files never contend with each other.
type logFile struct {
	mu sync.Mutex
	f  *os.File
}

// AOL wraps a backing store.Store with write-before-apply durability.
// Keys are routed to one of its files by the same hash-mod-N function
// the in-memory store uses to route keys to shards (store.ShardIndex),
// so a file and a store shard serving the same key share a name in
// spirit even when their counts differ.
type AOL struct {
	dir     string
	files   []*logFile
	backing store.Store
	metrics *metrics.Metrics
}

// Open opens (creating if absent) numFiles log files named 0..numFiles-1
// under dir, replays them in ascending file-index order into backing,
// and returns the ready AOL. Replay failure (a corrupt middle record)
// returns an error; callers should treat this as a fatal startup
// condition and refuse to serve traffic. m may be nil.
func Open(dir string, numFiles int, backing store.Store, m *metrics.Metrics) (*AOL, error) {
	if numFiles <= 0 {
		numFiles = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("aol: create directory: %w", err)
	}

	files := make([]*logFile, numFiles)
	for i := 0; i < numFiles; i++ {
		path := filepath.Join(dir, strconv.Itoa(i))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("aol: open file %d: %w", i, err)
		}
		files[i] = &logFile{f: f}
	}

	a := &AOL{dir: dir, files: files, backing: backing, metrics: m}
	if err := a.recover(); err != nil {
		return nil, err
	}
	return a, nil
}

// Close closes all underlying log files.
func (a *AOL) Close() error {
	var firstErr error
	for _, lf := range a.files {
		lf.mu.Lock()
		if err := lf.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		lf.mu.Unlock()
	}
	return firstErr
}

// fileFor returns the log file that hosts key, using the same routing
// function the store uses for shard selection.
func (a *AOL) fileFor(key object.Key) *logFile {
	return a.files[store.ShardIndex(key, len(a.files))]
}

// Store appends a SET record for key/obj, fsyncs it, and only then
// applies the mutation to the backing store. If the append or fsync
// fails, the backing store is left untouched.
func (a *AOL) Store(key object.Key, obj object.Object) (object.Object, error) {
	body := append(key.Encode(), obj.Encode()...)
	if err := a.append(key, opSet, body); err != nil {
		return object.Null, err
	}
	return a.backing.Store(key, obj)
}

// Remove appends a DEL record for key, fsyncs it, and only then applies
// the removal to the backing store.
func (a *AOL) Remove(key object.Key) (object.Object, error) {
	body := key.Encode()
	if err := a.append(key, opDel, body); err != nil {
		return object.Null, err
	}
	return a.backing.Remove(key)
}

// Retrieve bypasses the log entirely and reads the backing store
// directly — reads need no durability record.
func (a *AOL) Retrieve(key object.Key) (object.Object, error) {
	return a.backing.Retrieve(key)
}

// UpdatedAt delegates to the backing store.
func (a *AOL) UpdatedAt(key object.Key) (int64, error) {
	return a.backing.UpdatedAt(key)
}

// append writes one framed record to the file hosting key: an 8-byte BE
// size covering the op byte and body, the op byte, then the body. It
// fsyncs before releasing the file's mutex so a successful return
// guarantees durability.
func (a *AOL) append(key object.Key, op byte, body []byte) error {
	lf := a.fileFor(key)

	frame := make([]byte, sizeFieldBytes+1+len(body))
	binary.BigEndian.PutUint64(frame, uint64(1+len(body)))
	frame[sizeFieldBytes] = op
	copy(frame[sizeFieldBytes+1:], body)

	lf.mu.Lock()
	defer lf.mu.Unlock()
	start := time.Now()

	if _, err := lf.f.Write(frame); err != nil {
		return fmt.Errorf("aol: write record: %w", err)
	}
	if err := lf.f.Sync(); err != nil {
		return fmt.Errorf("aol: fsync: %w", err)
	}
	a.metrics.ObserveAOLWrite(time.Since(start))
	return nil
}

// recover replays every file into a.backing in ascending file-index
// order. Within a file, records are applied in on-disk order. A record
// that is truncated at the very tail of the file (the classic
// crash-mid-write shape, since writers only ever append whole frames
// under a file's lock) stops replay for that file without error. A
// record whose declared size fits within the remaining bytes but whose
// body fails to decode is genuine corruption and aborts recovery.
func (a *AOL) recover() error {
	for i, lf := range a.files {
		if err := a.recoverFile(lf); err != nil {
			return fmt.Errorf("aol: recover file %d: %w", i, err)
		}
	}
	return nil
}

func (a *AOL) recoverFile(lf *logFile) error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if _, err := lf.f.Seek(0, 0); err != nil {
		return err
	}
	buf, err := readAll(lf.f)
	if err != nil {
		return err
	}

	offset := 0
	for {
		if len(buf)-offset < sizeFieldBytes {
			break // torn tail: not even a full size field
		}
		size := binary.BigEndian.Uint64(buf[offset : offset+sizeFieldBytes])
		bodyStart := offset + sizeFieldBytes
		if uint64(len(buf)-bodyStart) < size {
			break // torn tail: size field present, body incomplete
		}

		record := buf[bodyStart : bodyStart+int(size)]
		if err := a.applyRecord(record); err != nil {
			return err
		}
		offset = bodyStart + int(size)
	}

	// Leave the file positioned for subsequent appends.
	if _, err := lf.f.Seek(0, 2); err != nil {
		return err
	}
	return nil
}

func (a *AOL) applyRecord(record []byte) error {
	if len(record) < 1 {
		return ErrCorrupt
	}
	op := record[0]
	body := record[1:]

	key, rest, err := object.DecodeKey(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	switch op {
	case opSet:
		obj, rest2, err := object.Decode(rest)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if len(rest2) != 0 {
			return ErrCorrupt
		}
		if _, err := a.backing.Store(key, obj); err != nil {
			return err
		}
	case opDel:
		if len(rest) != 0 {
			return ErrCorrupt
		}
		if _, err := a.backing.Remove(key); err != nil {
			return err
		}
	default:
		return ErrUnknownOp
	}
	return nil
}

// readAll reads the whole of f, from offset 0 to its current size,
// regardless of the file's current position.
func readAll(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, info.Size())
	n, err := f.ReadAt(buf, 0)
	if err != nil && n < len(buf) {
		return nil, err
	}
	return buf[:n], nil
}
