package bitimage

// Mode is one of the four bit-image encodings supported by the TL-series
// head: 8 or 24 vertical dots per band, single or double horizontal
// density. Double density changes only the selector byte the firmware
// sees; the packed data layout is identical to the single-density mode
// of the same pitch.
type Mode int

const (
	Mode8DotSingle Mode = iota
	Mode8DotDouble
	Mode24DotSingle
	Mode24DotDouble
)

type modeParams struct {
	pitch    int  // vertical dots per band, 8 or 24
	double   bool // horizontal double density
	selector byte // m byte of ESC *
}

// Selector bytes are fixed by the firmware command reference.
var modeTable = map[Mode]modeParams{
	Mode8DotSingle:  {pitch: 8, double: false, selector: 0x00},
	Mode8DotDouble:  {pitch: 8, double: true, selector: 0x01},
	Mode24DotSingle: {pitch: 24, double: false, selector: 0x20},
	Mode24DotDouble: {pitch: 24, double: true, selector: 0x21},
}

// Pitch returns the band height in dots, or 0 for an unknown mode.
func (m Mode) Pitch() int {
	return modeTable[m].pitch
}

// Double reports whether the mode prints at double horizontal density.
func (m Mode) Double() bool {
	return modeTable[m].double
}

// Selector returns the mode byte placed after the ESC * introducer.
func (m Mode) Selector() byte {
	return modeTable[m].selector
}

func (m Mode) valid() bool {
	_, ok := modeTable[m]
	return ok
}

func (m Mode) String() string {
	switch m {
	case Mode8DotSingle:
		return "8-dot single density"
	case Mode8DotDouble:
		return "8-dot double density"
	case Mode24DotSingle:
		return "24-dot single density"
	case Mode24DotDouble:
		return "24-dot double density"
	}
	return "unknown mode"
}
