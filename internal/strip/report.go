package strip

type LedState struct {
	Index int   `json:"index"`
	Color Color `json:"color"`
}

// Report is the visible state of the strip, one entry per pixel in strip order.
type Report struct {
	Leds []LedState `json:"leds"`
}

func BuildReport(s *State) Report {
	r := Report{
		Leds: make([]LedState, 0, s.LedCount()),
	}
	for i, p := range s.Leds() {
		r.Leds = append(r.Leds, LedState{
			Index: i,
			Color: Unpack(p),
		})
	}
	return r
}
