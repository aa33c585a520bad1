package strip

// Frame is everything handed to the rendering primitive for one render.
type Frame struct {
	Leds       []uint32
	Gamma      *GammaTable
	Brightness uint8
	Invert     bool
	StripType  StripType
}

// Engine is the hardware handle. Render pushes a frame out on the wire, Fini gives the channel back.
type Engine interface {
	Render(f Frame) error
	Fini() error
}

// Publisher receives a report every time the strip has been updated.
type Publisher interface {
	Publish(r Report)
}

// Publishers fans a report out to several publishers.
type Publishers []Publisher

func (p Publishers) Publish(r Report) {
	for _, pub := range p {
		if pub != nil {
			pub.Publish(r)
		}
	}
}
