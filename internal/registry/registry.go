// Package registry stores encoded risk descriptors keyed by command text,
// and persists them to a compact binary snapshot file. It exists for the
// audit/persistence collaborators: agents that want to ship a pre-computed
// descriptor database rather than classify at startup.
package registry

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/tcpguard/tcpguard/internal/descriptor"
)

// Snapshot file format: header magic, format version, entry count, then
// per entry a length-prefixed command name followed by the 24-byte record.
var snapshotMagic = [4]byte{'T', 'C', 'P', 'R'}

const snapshotVersion uint16 = 1

// maxNameLen bounds command names in snapshots; the length prefix is one byte.
const maxNameLen = 255

// Registry errors
var (
	// ErrInvalidSnapshot is returned when a snapshot file is corrupt
	ErrInvalidSnapshot = errors.New("invalid registry snapshot")

	// ErrUnsupportedSnapshotVersion is returned for snapshots newer than this reader
	ErrUnsupportedSnapshotVersion = errors.New("unsupported registry snapshot version")

	// ErrNameTooLong is returned when a command name exceeds the length prefix
	ErrNameTooLong = errors.New("command name exceeds 255 bytes")
)

// Registry is a concurrent map of command text to encoded descriptor.
// Entries hold the encoded 24-byte form, so Load/Lookup round-trips are
// bit-exact and a corrupted snapshot entry is caught by the codec.
type Registry struct {
	mu      sync.RWMutex
	entries map[string][descriptor.Size]byte
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string][descriptor.Size]byte)}
}

// Put records the descriptor for a command, replacing any previous entry.
func (r *Registry) Put(command string, d descriptor.Descriptor) error {
	if len(command) > maxNameLen {
		return fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(command))
	}
	encoded := descriptor.Encode(d)
	r.mu.Lock()
	r.entries[command] = encoded
	r.mu.Unlock()
	return nil
}

// Lookup returns the decoded descriptor for a command.
func (r *Registry) Lookup(command string) (descriptor.Descriptor, bool) {
	r.mu.RLock()
	encoded, ok := r.entries[command]
	r.mu.RUnlock()
	if !ok {
		return descriptor.Descriptor{}, false
	}
	// Entries are written through Encode, so this cannot fail.
	d, err := descriptor.Decode(encoded[:])
	if err != nil {
		return descriptor.Descriptor{}, false
	}
	return d, true
}

// Len returns the number of stored descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Commands returns the stored command names in sorted order.
func (r *Registry) Commands() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// WriteTo serializes the registry as a snapshot. Entries are written in
// sorted command order so equal registries produce identical bytes.
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	records := make(map[string][descriptor.Size]byte, len(r.entries))
	for name, rec := range r.entries {
		records[name] = rec
	}
	r.mu.RUnlock()
	sort.Strings(names)

	bw := bufio.NewWriter(w)
	var written int64

	var header [10]byte
	copy(header[:], snapshotMagic[:])
	binary.BigEndian.PutUint16(header[4:], snapshotVersion)
	binary.BigEndian.PutUint32(header[6:], uint32(len(names)))
	n, err := bw.Write(header[:])
	written += int64(n)
	if err != nil {
		return written, err
	}

	for _, name := range names {
		if err := bw.WriteByte(byte(len(name))); err != nil {
			return written, err
		}
		written++
		n, err := bw.WriteString(name)
		written += int64(n)
		if err != nil {
			return written, err
		}
		record := records[name]
		n, err = bw.Write(record[:])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

// ReadFrom replaces the registry contents with a snapshot. Every record is
// validated through the descriptor codec; one corrupt record rejects the
// whole snapshot and leaves the registry unchanged.
func (r *Registry) ReadFrom(reader io.Reader) (int64, error) {
	br := bufio.NewReader(reader)
	var read int64

	var header [10]byte
	n, err := io.ReadFull(br, header[:])
	read += int64(n)
	if err != nil {
		return read, fmt.Errorf("%w: short header: %w", ErrInvalidSnapshot, err)
	}
	if [4]byte(header[:4]) != snapshotMagic {
		return read, fmt.Errorf("%w: bad magic % x", ErrInvalidSnapshot, header[:4])
	}
	if version := binary.BigEndian.Uint16(header[4:]); version > snapshotVersion {
		return read, fmt.Errorf("%w: %d", ErrUnsupportedSnapshotVersion, version)
	}
	count := binary.BigEndian.Uint32(header[6:])

	entries := make(map[string][descriptor.Size]byte, count)
	for i := uint32(0); i < count; i++ {
		nameLen, err := br.ReadByte()
		read++
		if err != nil {
			return read, fmt.Errorf("%w: truncated at entry %d: %w", ErrInvalidSnapshot, i, err)
		}
		name := make([]byte, nameLen)
		n, err := io.ReadFull(br, name)
		read += int64(n)
		if err != nil {
			return read, fmt.Errorf("%w: truncated name at entry %d: %w", ErrInvalidSnapshot, i, err)
		}
		var record [descriptor.Size]byte
		n, err = io.ReadFull(br, record[:])
		read += int64(n)
		if err != nil {
			return read, fmt.Errorf("%w: truncated record at entry %d: %w", ErrInvalidSnapshot, i, err)
		}
		if _, err := descriptor.Decode(record[:]); err != nil {
			return read, fmt.Errorf("%w: entry %d (%s): %w", ErrInvalidSnapshot, i, name, err)
		}
		entries[string(name)] = record
	}

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
	return read, nil
}
