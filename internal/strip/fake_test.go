package strip

import (
	"errors"
)

type fakeEngine struct {
	renders  []Frame
	finis    int
	failWith string
}

func (f *fakeEngine) Render(frame Frame) error {
	leds := make([]uint32, len(frame.Leds))
	copy(leds, frame.Leds)
	gamma := *frame.Gamma
	frame.Leds = leds
	frame.Gamma = &gamma
	f.renders = append(f.renders, frame)

	if f.failWith != "" {
		return errors.New(f.failWith)
	}
	return nil
}

func (f *fakeEngine) Fini() error {
	f.finis++
	return nil
}

func (f *fakeEngine) lastRender() Frame {
	return f.renders[len(f.renders)-1]
}

type fakePublisher struct {
	reports []Report
}

func (f *fakePublisher) Publish(r Report) {
	f.reports = append(f.reports, r)
}
