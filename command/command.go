// Package command builds the fixed byte sequences understood by the
// TL-series firmware. Every builder returns a complete, self-contained
// frame; nothing here performs I/O.
package command

// Control bytes shared by the command set.
const (
	LF  = 0x0A
	ESC = 0x1B
	GS  = 0x1D
)

// CutKind selects between a full and a partial paper cut.
type CutKind int

const (
	CutFull CutKind = iota
	CutPartial
)

func (k CutKind) String() string {
	switch k {
	case CutFull:
		return "full"
	case CutPartial:
		return "partial"
	}
	return "unknown"
}

// Cut returns the frame for cutting the paper. The partial cut is only
// honored by models with a partial-cut blade; others fall back to a full
// cut in firmware.
func Cut(kind CutKind) []byte {
	if kind == CutPartial {
		return []byte{ESC, 0x6D}
	}
	return []byte{ESC, 0x69}
}

// FeedUnit selects how PrintAndFeed measures the feed amount.
type FeedUnit int

const (
	// FeedInches feeds by vertical motion units.
	FeedInches FeedUnit = iota
	// FeedLines feeds by whole lines.
	FeedLines
)

// Print returns the frame that prints the line buffer and feeds one line.
func Print() []byte {
	return []byte{LF}
}

// PrintAndFeed returns the frame that prints the line buffer and feeds
// the paper by amount units.
func PrintAndFeed(unit FeedUnit, amount byte) []byte {
	if unit == FeedLines {
		return []byte{ESC, 0x64, amount}
	}
	return []byte{ESC, 0x4A, amount}
}

// Speed is the print speed / quality trade-off.
type Speed int

const (
	SpeedHigh   Speed = iota // draft
	SpeedNormal
	SpeedLow // high quality
)

// SetSpeed returns the speed selection frame.
func SetSpeed(s Speed) []byte {
	return []byte{ESC, 0x78, byte(s)}
}

// Density is the burn density adjustment, from -50% to +50% in 25% steps.
type Density int

const (
	DensityMinus50 Density = iota
	DensityMinus25
	DensityZero
	DensityPlus25
	DensityPlus50
)

// SetDensity returns the density adjustment frame.
func SetDensity(d Density) []byte {
	return []byte{GS, 0x7C, byte(d)}
}

// Init returns the printer initialize frame (ESC @).
func Init() []byte {
	return []byte{ESC, 0x40}
}

// IntLowHigh serializes n as b little-endian bytes, the multi-byte number
// convention used across the command set. b must be between 1 and 4.
func IntLowHigh(n int, b int) []byte {
	out := make([]byte, b)
	for i := 0; i < b; i++ {
		out[i] = byte(n % 256)
		n /= 256
	}
	return out
}
