package strip

import (
	"periph.io/x/conn/v3/physic"
)

// State is the single channel of LEDs this process owns. The pixel count is fixed once the state is
// created. State does no locking of its own: all access is expected to come from one goroutine.
type State struct {
	Gamma      GammaTable
	Brightness uint8
	Invert     bool
	StripType  StripType
	GpioPin    int
	DmaNum     int
	Frequency  physic.Frequency
	Driver     string
	SpiPort    string

	leds []uint32
}

// NewState creates a state with count zeroed pixels and the identity gamma curve.
func NewState(count int) *State {
	if count < 0 {
		count = 0
	}
	return &State{
		Gamma:      IdentityGamma(),
		Brightness: 255,
		StripType:  DefaultStripType,
		Frequency:  DefaultFrequency,
		Driver:     DriverPWM,
		leds:       make([]uint32, count),
	}
}

func (s *State) LedCount() int {
	return len(s.leds)
}

// Leds exposes the packed buffer. The slice is shared with the state; writes go straight to the
// framebuffer.
func (s *State) Leds() []uint32 {
	return s.leds
}

func (s *State) Color(i int) Color {
	return Unpack(s.leds[i])
}

// Frame snapshots everything the rendering primitive needs.
func (s *State) Frame() Frame {
	return Frame{
		Leds:       s.leds,
		Gamma:      &s.Gamma,
		Brightness: s.Brightness,
		Invert:     s.Invert,
		StripType:  s.StripType,
	}
}

func (s *State) clear() {
	for i := range s.leds {
		s.leds[i] = 0
	}
}
