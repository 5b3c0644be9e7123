package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcpguard/tcpguard/internal/risktypes"
)

func sampleDescriptor() Descriptor {
	return New(
		"rm -rf /",
		risktypes.RiskTierCritical,
		risktypes.CapDestructive|risktypes.CapFileModification,
		risktypes.PerformanceHint{ExecTimeMillis: 120, MemoryMB: 8, OutputKB: 1},
	)
}

func TestEncodeFixedWidth(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
	}{
		{"zero value", Descriptor{Version: Version}},
		{"typical", sampleDescriptor()},
		{"all flags set", New("x", risktypes.RiskTierHigh, risktypes.CapabilityFlags(0xffffffff), risktypes.PerformanceHint{})},
		{"max perf hints", New("y", risktypes.RiskTierSafe, 0, risktypes.PerformanceHint{ExecTimeMillis: 65535, MemoryMB: 65535, OutputKB: 65535})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.d)
			assert.Len(t, encoded[:], Size)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tiers := []risktypes.RiskTier{
		risktypes.RiskTierSafe,
		risktypes.RiskTierLow,
		risktypes.RiskTierMedium,
		risktypes.RiskTierHigh,
		risktypes.RiskTierCritical,
	}
	for _, tier := range tiers {
		t.Run(tier.String(), func(t *testing.T) {
			original := New("ls -la", tier, risktypes.CapNetworkAccess, risktypes.PerformanceHint{ExecTimeMillis: 50})
			encoded := Encode(original)
			decoded, err := Decode(encoded[:])
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	d := sampleDescriptor()
	assert.Equal(t, Encode(d), Encode(d))
}

func TestDecodeInvalidLength(t *testing.T) {
	encoded := Encode(sampleDescriptor())

	_, err := Decode(encoded[:Size-1])
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = Decode(append(encoded[:], 0))
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestDecodeInvalidMagic(t *testing.T) {
	encoded := Encode(sampleDescriptor())
	encoded[0] = 'X'
	_, err := Decode(encoded[:])
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	d := sampleDescriptor()
	d.Version = Version + 1
	encoded := Encode(d)
	_, err := Decode(encoded[:])
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeChecksumMismatch(t *testing.T) {
	encoded := Encode(sampleDescriptor())
	encoded[Size-1] ^= 0x01 // corrupt the trailing checksum byte
	_, err := Decode(encoded[:])
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

// Every single-bit corruption of an encoded descriptor must cause Decode to
// fail; CRC-16 detects all single-bit errors, and corruption of the magic or
// checksum fields fails their own checks first.
func TestChecksumSensitivity(t *testing.T) {
	pristine := Encode(sampleDescriptor())
	for byteIdx := 0; byteIdx < Size; byteIdx++ {
		for bit := 0; bit < 8; bit++ {
			corrupted := pristine
			corrupted[byteIdx] ^= 1 << bit
			_, err := Decode(corrupted[:])
			require.Errorf(t, err, "flipping bit %d of byte %d went undetected", bit, byteIdx)
		}
	}
}

func TestDecodeFlaggedDataCorruption(t *testing.T) {
	encoded := Encode(sampleDescriptor())
	encoded[offFlags] ^= 0x80 // corrupt payload, not magic/checksum
	_, err := Decode(encoded[:])
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestDecodeInvalidTierRejected(t *testing.T) {
	// Hand-build a record with tier byte 9 and a valid checksum: the tier
	// check must still reject it.
	encoded := Encode(sampleDescriptor())
	encoded[offTier] = 9
	reseal(&encoded)
	_, err := Decode(encoded[:])
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestDecodeReservedByteMustBeZero(t *testing.T) {
	encoded := Encode(sampleDescriptor())
	encoded[offReserved] = 0xff
	reseal(&encoded)
	_, err := Decode(encoded[:])
	assert.ErrorIs(t, err, ErrReservedByte)
}

// reseal recomputes the trailing checksum after test-local tampering so the
// decoder's field validations are exercised instead of the CRC check.
func reseal(buf *[Size]byte) {
	sum := checksum(buf[:offChecksum])
	buf[offChecksum] = byte(sum >> 8)
	buf[offChecksum+1] = byte(sum)
}

func TestFingerprintStable(t *testing.T) {
	assert.Equal(t, Fingerprint("ls"), Fingerprint("ls"))
	assert.NotEqual(t, Fingerprint("ls"), Fingerprint("rm"))
}
