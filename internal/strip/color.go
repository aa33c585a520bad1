package strip

import "fmt"

const (
	redShift   = 16
	greenShift = 8
	blueShift  = 0
	whiteShift = 24
)

// Color is one pixel worth of channel values. White is ignored by three channel strips.
type Color struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
	W uint8 `json:"w" yaml:"w"`
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.W)
}

// Pack puts a color into the 0xWWRRGGBB word the ws281x library expects. The layout never changes
// with the strip type, the library does the reordering on the wire.
func Pack(c Color) uint32 {
	return uint32(c.W)<<whiteShift |
		uint32(c.R)<<redShift |
		uint32(c.G)<<greenShift |
		uint32(c.B)<<blueShift
}

// Unpack is the inverse of Pack.
func Unpack(p uint32) Color {
	return Color{
		R: uint8(p >> redShift),
		G: uint8(p >> greenShift),
		B: uint8(p >> blueShift),
		W: uint8(p >> whiteShift),
	}
}
