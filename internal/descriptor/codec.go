package descriptor

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sigurn/crc16"

	"github.com/tcpguard/tcpguard/internal/risktypes"
)

// Byte offsets within the 24-byte wire format. All multi-byte integers are
// big-endian.
const (
	offMagic       = 0  // 4 bytes
	offVersion     = 4  // 2 bytes
	offFingerprint = 6  // 4 bytes
	offTier        = 10 // 1 byte
	offFlags       = 11 // 4 bytes
	offExecTime    = 15 // 2 bytes
	offMemory      = 17 // 2 bytes
	offOutput      = 19 // 2 bytes
	offReserved    = 21 // 1 byte, must be zero
	offChecksum    = 22 // 2 bytes, CRC-16/ARC over bytes 0..21
)

// Decode errors. A descriptor that fails any of these checks must be
// rejected outright; callers must never fall back to treating the input
// as Safe.
var (
	// ErrInvalidLength is returned when the input is not exactly Size bytes
	ErrInvalidLength = errors.New("descriptor must be exactly 24 bytes")

	// ErrInvalidMagic is returned when the magic field does not match
	ErrInvalidMagic = errors.New("invalid descriptor magic")

	// ErrUnsupportedVersion is returned when the version byte is newer than this decoder
	ErrUnsupportedVersion = errors.New("unsupported descriptor version")

	// ErrChecksumMismatch is returned when the trailing CRC does not validate
	ErrChecksumMismatch = errors.New("descriptor checksum mismatch")

	// ErrInvalidTier is returned when the tier byte is outside 0..4
	ErrInvalidTier = errors.New("descriptor risk tier out of range")

	// ErrReservedByte is returned when a reserved byte is not zero-filled
	ErrReservedByte = errors.New("descriptor reserved byte must be zero")
)

var crcTable = crc16.MakeTable(crc16.CRC16_ARC)

// checksum computes the CRC-16/ARC of the bytes preceding the checksum field.
func checksum(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}

// Encode serializes the descriptor into its fixed 24-byte wire form.
// Encoding is total and deterministic for any in-memory Descriptor.
func Encode(d Descriptor) [Size]byte {
	var buf [Size]byte
	copy(buf[offMagic:], Magic[:])
	binary.BigEndian.PutUint16(buf[offVersion:], d.Version)
	binary.BigEndian.PutUint32(buf[offFingerprint:], d.Fingerprint)
	buf[offTier] = byte(d.Tier)
	binary.BigEndian.PutUint32(buf[offFlags:], uint32(d.Flags))
	binary.BigEndian.PutUint16(buf[offExecTime:], d.Perf.ExecTimeMillis)
	binary.BigEndian.PutUint16(buf[offMemory:], d.Perf.MemoryMB)
	binary.BigEndian.PutUint16(buf[offOutput:], d.Perf.OutputKB)
	buf[offReserved] = 0
	binary.BigEndian.PutUint16(buf[offChecksum:], checksum(buf[:offChecksum]))
	return buf
}

// Decode parses and validates a 24-byte wire record. The checksum is
// recomputed over all bytes preceding the checksum field and must match
// exactly; there is no partial trust in a corrupted record.
func Decode(data []byte) (Descriptor, error) {
	if len(data) != Size {
		return Descriptor{}, fmt.Errorf("%w: got %d bytes", ErrInvalidLength, len(data))
	}
	if [4]byte(data[offMagic:offMagic+4]) != Magic {
		return Descriptor{}, fmt.Errorf("%w: % x", ErrInvalidMagic, data[offMagic:offMagic+4])
	}

	want := binary.BigEndian.Uint16(data[offChecksum:])
	got := checksum(data[:offChecksum])
	if want != got {
		return Descriptor{}, fmt.Errorf("%w: stored 0x%04x, computed 0x%04x", ErrChecksumMismatch, want, got)
	}

	version := binary.BigEndian.Uint16(data[offVersion:])
	if version > Version {
		return Descriptor{}, fmt.Errorf("%w: %d (decoder supports up to %d)", ErrUnsupportedVersion, version, Version)
	}

	tier := risktypes.RiskTier(data[offTier])
	if !tier.Valid() {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrInvalidTier, data[offTier])
	}
	if data[offReserved] != 0 {
		return Descriptor{}, fmt.Errorf("%w: offset %d is 0x%02x", ErrReservedByte, offReserved, data[offReserved])
	}

	return Descriptor{
		Version:     version,
		Fingerprint: binary.BigEndian.Uint32(data[offFingerprint:]),
		Tier:        tier,
		Flags:       risktypes.CapabilityFlags(binary.BigEndian.Uint32(data[offFlags:])),
		Perf: risktypes.PerformanceHint{
			ExecTimeMillis: binary.BigEndian.Uint16(data[offExecTime:]),
			MemoryMB:       binary.BigEndian.Uint16(data[offMemory:]),
			OutputKB:       binary.BigEndian.Uint16(data[offOutput:]),
		},
	}, nil
}
