package strip

// StripType is the strip_type code understood by the ws281x library. The low three bytes hold the
// shift of the red, green and blue byte in the wire word, the top byte the shift of the white byte
// for four channel strips.
type StripType uint32

const (
	SK6812StripRGBW StripType = 0x18100800
	SK6812StripRBGW StripType = 0x18100008
	SK6812StripGRBW StripType = 0x18081000
	SK6812StripGBRW StripType = 0x18080010
	SK6812StripBRGW StripType = 0x18001008
	SK6812StripBGRW StripType = 0x18000810

	WS2811StripRGB StripType = 0x00100800
	WS2811StripRBG StripType = 0x00100008
	WS2811StripGRB StripType = 0x00081000
	WS2811StripGBR StripType = 0x00080010
	WS2811StripBRG StripType = 0x00001008
	WS2811StripBGR StripType = 0x00000810

	WS2812Strip  = WS2811StripGRB
	SK6812Strip  = WS2811StripGRB
	SK6812WStrip = SK6812StripGRBW

	DefaultStripType     = WS2811StripGBR
	DefaultStripTypeName = "WS2811_STRIP_GBR"
)

var stripTypes = map[string]StripType{
	"SK6812_STRIP_RGBW": SK6812StripRGBW,
	"SK6812_STRIP_RBGW": SK6812StripRBGW,
	"SK6812_STRIP_GRBW": SK6812StripGRBW,
	"SK6812_STRIP_GBRW": SK6812StripGBRW,
	"SK6812_STRIP_BRGW": SK6812StripBRGW,
	"SK6812_STRIP_BGRW": SK6812StripBGRW,
	"WS2811_STRIP_RGB":  WS2811StripRGB,
	"WS2811_STRIP_RBG":  WS2811StripRBG,
	"WS2811_STRIP_GRB":  WS2811StripGRB,
	"WS2811_STRIP_GBR":  WS2811StripGBR,
	"WS2811_STRIP_BRG":  WS2811StripBRG,
	"WS2811_STRIP_BGR":  WS2811StripBGR,
	"WS2812_STRIP":      WS2812Strip,
	"SK6812_STRIP":      SK6812Strip,
	"SK6812W_STRIP":     SK6812WStrip,
}

// LookupStripType resolves a strip type name. Unknown names give back DefaultStripType and false,
// it is up to the caller to complain about it.
func LookupStripType(name string) (StripType, bool) {
	t, ok := stripTypes[name]
	if !ok {
		return DefaultStripType, false
	}
	return t, true
}

// StripTypeNames lists every name LookupStripType knows about.
func StripTypeNames() []string {
	names := make([]string, 0, len(stripTypes))
	for name := range stripTypes {
		names = append(names, name)
	}
	return names
}

func (t StripType) String() string {
	// the aliases share codes with the explicit orderings, prefer the explicit names.
	for _, name := range []string{
		"SK6812_STRIP_RGBW", "SK6812_STRIP_RBGW", "SK6812_STRIP_GRBW",
		"SK6812_STRIP_GBRW", "SK6812_STRIP_BRGW", "SK6812_STRIP_BGRW",
		"WS2811_STRIP_RGB", "WS2811_STRIP_RBG", "WS2811_STRIP_GRB",
		"WS2811_STRIP_GBR", "WS2811_STRIP_BRG", "WS2811_STRIP_BGR",
	} {
		if stripTypes[name] == t {
			return name
		}
	}
	return "UNKNOWN_STRIP"
}

// Channels is the number of bytes each pixel takes on the wire.
func (t StripType) Channels() int {
	if t>>24 != 0 {
		return 4
	}
	return 3
}

// Order gives the wire order of the channels as indexes into an {R, G, B, W} quad. Wire slot k
// carries the packed byte found at the k-th shift of the strip type.
func (t StripType) Order() []int {
	slots := []uint32{
		(uint32(t) >> 16) & 0xff,
		(uint32(t) >> 8) & 0xff,
		uint32(t) & 0xff,
		(uint32(t) >> 24) & 0xff,
	}

	order := make([]int, 0, t.Channels())
	for _, shift := range slots[:t.Channels()] {
		switch shift {
		case redShift:
			order = append(order, 0)
		case greenShift:
			order = append(order, 1)
		case blueShift:
			order = append(order, 2)
		case whiteShift:
			order = append(order, 3)
		}
	}
	return order
}
