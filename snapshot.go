package memzone

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hupe1980/memzone/codec"
	"github.com/hupe1980/memzone/internal/compress"
	"github.com/hupe1980/memzone/internal/hash"
)

const (
	// snapshotMagic identifies base snapshot files (ASCII: "MZS0").
	snapshotMagic = 0x4D5A5330
	// snapshotVersion is the current file format version (v1.0.0).
	snapshotVersion = 0x00010000

	// ioChunkSize is the granularity at which snapshot IO is charged
	// against the resource controller's IO limiter.
	ioChunkSize = 256 * 1024
)

var (
	// ErrInvalidMagic is returned when a snapshot file has the wrong magic number.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrInvalidVersion is returned for an unsupported snapshot format version.
	ErrInvalidVersion = errors.New("unsupported version")
	// ErrChecksumMismatch is returned when a snapshot fails integrity verification.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrUnknownCodec is returned when a snapshot names a codec this build does not provide.
	ErrUnknownCodec = errors.New("unknown codec")
	// ErrStoreNotEmpty is returned when loading a snapshot into a store that
	// already holds entries or has open zones.
	ErrStoreNotEmpty = errors.New("store is not empty")
)

// entryRecord is the persisted form of a frame-0 entry.
type entryRecord struct {
	Key  uint64  `json:"key"`
	Text string  `json:"text"`
	Lex  Lexical `json:"lex"`
}

// baseSnapshot is the payload encoded into a snapshot file.
type baseSnapshot struct {
	Entries []entryRecord `json:"entries"`
}

// SaveBase persists the persistent frame-0 entries to path.
//
// Zone-scoped entries are deliberately excluded: they are bulk-freed at a
// zone boundary and have no meaning across process restarts. The file is
// self-describing (codec and compression are named in the header) and carries
// a CRC32-Castagnoli checksum over header and payload. IO is throttled
// through the store's resource controller, if any.
func (s *Store) SaveBase(ctx context.Context, path string) error {
	start := time.Now()
	entries, err := s.saveBase(ctx, path)
	s.opts.metricsCollector.RecordSnapshotSave(entries, time.Since(start), err)
	s.opts.logger.LogSnapshot("save", path, entries, err)
	return err
}

func (s *Store) saveBase(ctx context.Context, path string) (int, error) {
	snap, err := s.collectBase()
	if err != nil {
		return 0, err
	}

	raw, err := s.opts.codec.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}

	comp, ok := compress.ByName(s.opts.compression)
	if !ok {
		return 0, fmt.Errorf("%w: %q", compress.ErrUnknownCompression, s.opts.compression)
	}
	payload, err := comp.Compress(raw)
	if err != nil {
		return 0, fmt.Errorf("compress snapshot: %w", err)
	}

	var buf bytes.Buffer
	writeHeader(&buf, s.opts.codec.Name(), comp.Name(), uint64(len(payload)))
	buf.Write(payload)
	checksum := hash.CRC32C(buf.Bytes())
	if err := binary.Write(&buf, binary.LittleEndian, checksum); err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	if err := writeChunked(ctx, f, s.rcAcquireIO, buf.Bytes()); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return 0, err
	}
	return len(snap.Entries), f.Close()
}

// collectBase snapshots frame 0 under the read lock.
func (s *Store) collectBase() (*baseSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	base := s.frames[0]
	snap := &baseSnapshot{Entries: make([]entryRecord, 0, base.owned.GetCardinality())}
	it := base.owned.Iterator()
	for it.HasNext() {
		e := s.byID[it.Next()]
		snap.Entries = append(snap.Entries, entryRecord{Key: e.Key, Text: e.Text, Lex: e.Lex})
	}
	return snap, nil
}

// LoadBase reads a snapshot from path into the store's persistent frame 0.
//
// The store must be empty (no entries, no open zones); mixing a loaded base
// into live state would make the snapshot's dedup claims unverifiable.
func (s *Store) LoadBase(ctx context.Context, path string) error {
	start := time.Now()
	entries, err := s.loadBase(ctx, path)
	s.opts.metricsCollector.RecordSnapshotLoad(entries, time.Since(start), err)
	s.opts.logger.LogSnapshot("load", path, entries, err)
	return err
}

func (s *Store) loadBase(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if err := s.rcAcquireIO(ctx, len(data)); err != nil {
		return 0, err
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if len(s.entries) > 0 || len(s.frames) > 1 {
		return 0, ErrStoreNotEmpty
	}

	// Acquire the whole budget up front so a mid-load limit failure leaves
	// the store empty instead of half-populated.
	var total int64
	for _, rec := range snap.Entries {
		total += int64(len(rec.Text)) + entryOverhead
	}
	if err := s.opts.rc.AcquireMemory(total); err != nil {
		return 0, err
	}

	base := s.frames[0]
	base.bytes += total
	for _, rec := range snap.Entries {
		e := &Entry{Key: rec.Key, Text: rec.Text, Lex: rec.Lex, Epoch: 0, id: s.nextID}
		s.nextID++
		s.entries[e.Key] = e
		s.byID[e.id] = e
		base.owned.Add(e.id)
	}
	return len(snap.Entries), nil
}

func writeHeader(buf *bytes.Buffer, codecName, compName string, payloadLen uint64) {
	_ = binary.Write(buf, binary.LittleEndian, uint32(snapshotMagic))
	_ = binary.Write(buf, binary.LittleEndian, uint32(snapshotVersion))
	writeString(buf, codecName)
	writeString(buf, compName)
	_ = binary.Write(buf, binary.LittleEndian, payloadLen)
}

func writeString(buf *bytes.Buffer, s string) {
	_ = binary.Write(buf, binary.LittleEndian, uint16(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeSnapshot(data []byte) (*baseSnapshot, error) {
	if len(data) < 4 {
		return nil, ErrInvalidMagic
	}

	// Footer checksum covers everything before it.
	body, footer := data[:len(data)-4], data[len(data)-4:]
	if hash.CRC32C(body) != binary.LittleEndian.Uint32(footer) {
		return nil, ErrChecksumMismatch
	}

	r := bytes.NewReader(body)
	var magic, version uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, ErrInvalidMagic
	}
	if magic != snapshotMagic {
		return nil, ErrInvalidMagic
	}
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, ErrInvalidVersion
	}
	if version != snapshotVersion {
		return nil, ErrInvalidVersion
	}

	codecName, err := readString(r)
	if err != nil {
		return nil, err
	}
	compName, err := readString(r)
	if err != nil {
		return nil, err
	}

	var payloadLen uint64
	if err := binary.Read(r, binary.LittleEndian, &payloadLen); err != nil {
		return nil, err
	}
	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	comp, ok := compress.ByName(compName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", compress.ErrUnknownCompression, compName)
	}
	raw, err := comp.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}
	var snap baseSnapshot
	if err := c.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// rcAcquireIO charges n bytes against the IO limiter in chunks no larger
// than ioChunkSize, so a single large snapshot cannot exceed the limiter's
// burst.
func (s *Store) rcAcquireIO(ctx context.Context, n int) error {
	for n > 0 {
		chunk := min(n, ioChunkSize)
		if err := s.opts.rc.AcquireIO(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// writeChunked writes data through acquire-then-write rounds so the IO
// limiter paces the writer rather than auditing it after the fact.
func writeChunked(ctx context.Context, w io.Writer, acquire func(context.Context, int) error, data []byte) error {
	for len(data) > 0 {
		n := min(ioChunkSize, len(data))
		if err := acquire(ctx, n); err != nil {
			return err
		}
		if _, err := w.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
