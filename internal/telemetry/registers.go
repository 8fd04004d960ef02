package telemetry

import (
	"encoding/binary"
	"sync"

	"github.com/banshee-data/tyre.report/internal/thermal"
)

// Register map offsets within the 16-byte little-endian bank. Matches the
// layout bus controllers already poll.
const (
	RegTempLeft   = 0x00 // int16, tenths of °C
	RegTempCentre = 0x02 // int16, tenths of °C
	RegTempRight  = 0x04 // int16, tenths of °C
	RegConfidence = 0x06 // uint8, 0-100
	RegWarnings   = 0x07 // uint8, capped at 255
	RegSpanStart  = 0x08 // uint8
	RegSpanEnd    = 0x09 // uint8
	RegWidth      = 0x0A // uint8
	RegGradient   = 0x0B // int16, tenths of °C
	RegFrameCount = 0x0D // uint16, low 16 bits of frame number
	// 0x0E-0x0F reserved

	bankSize = 16
)

// RegisterBank is the fixed register map served to bus controllers. A write
// transaction sets the pointer; a subsequent block read returns up to 16
// bytes starting there. Update and the bus service loop run on different
// goroutines, so the bank is mutex-guarded.
type RegisterBank struct {
	mu      sync.Mutex
	regs    [bankSize]byte
	pointer int
}

// NewRegisterBank returns a zeroed bank with the pointer at the origin.
func NewRegisterBank() *RegisterBank {
	return &RegisterBank{}
}

// Update refreshes the bank from a frame result. Temperatures convert to
// int16 tenths with the fractional part truncated toward zero, matching the
// values controllers have calibrated against.
func (b *RegisterBank) Update(r *thermal.FrameResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	putInt16 := func(off int, v int16) {
		binary.LittleEndian.PutUint16(b.regs[off:off+2], uint16(v))
	}

	putInt16(RegTempLeft, tenths(r.Analysis.Left.Avg))
	putInt16(RegTempCentre, tenths(r.Analysis.Centre.Avg))
	putInt16(RegTempRight, tenths(r.Analysis.Right.Avg))

	b.regs[RegConfidence] = uint8(clampInt(int(r.Detection.Confidence*100), 0, 100))
	b.regs[RegWarnings] = uint8(clampInt(len(r.Warnings), 0, 255))

	b.regs[RegSpanStart] = uint8(clampInt(r.Detection.SpanStart, 0, 255))
	b.regs[RegSpanEnd] = uint8(clampInt(r.Detection.SpanEnd, 0, 255))
	b.regs[RegWidth] = uint8(clampInt(r.Detection.Width, 0, 255))

	putInt16(RegGradient, tenths(r.Analysis.LateralGradient))
	binary.LittleEndian.PutUint16(b.regs[RegFrameCount:RegFrameCount+2], uint16(r.FrameNumber))
}

// SetPointer handles a pointer-write transaction: the register origin for the
// next block read, wrapped into the bank.
func (b *RegisterBank) SetPointer(reg byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pointer = int(reg) % bankSize
}

// ReadBlock serves a block read of up to n bytes from the current pointer.
// The read never crosses the end of the bank and never exceeds 16 bytes.
func (b *RegisterBank) ReadBlock(n int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n > bankSize {
		n = bankSize
	}
	if remaining := bankSize - b.pointer; n > remaining {
		n = remaining
	}
	if n <= 0 {
		return nil
	}

	out := make([]byte, n)
	copy(out, b.regs[b.pointer:b.pointer+n])
	return out
}

// Snapshot returns a copy of the whole bank.
func (b *RegisterBank) Snapshot() [bankSize]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regs
}

// tenths converts a temperature to int16 tenths, truncating toward zero and
// saturating at the int16 range.
func tenths(v float64) int16 {
	scaled := v * 10
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
