package strip

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"time"
)

// Result is what a SetLeds or SetGamma caller gets back.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Pipeline applies updates to the state, renders them and publishes what the strip should now show.
type Pipeline struct {
	state     *State
	engine    Engine
	publisher Publisher
	warn      *rate.Sometimes
}

func NewPipeline(state *State, engine Engine, publisher Publisher) *Pipeline {
	return &Pipeline{
		state:     state,
		engine:    engine,
		publisher: publisher,
		warn:      &rate.Sometimes{Interval: time.Second},
	}
}

func (p *Pipeline) State() *State {
	return p.state
}

// ApplyUpdate writes colors into the front of the buffer and renders the whole buffer. Colors past
// the end of the strip are dropped, pixels past the end of colors keep whatever they had.
func (p *Pipeline) ApplyUpdate(colors []Color) Result {
	leds := p.state.Leds()
	n := len(colors)
	if n > len(leds) {
		log.Debugf("Got %d colors for %d leds, ignoring the rest", n, len(leds))
		n = len(leds)
	}
	for i := 0; i < n; i++ {
		leds[i] = Pack(colors[i])
	}

	res := Result{Success: true}
	if err := p.engine.Render(p.state.Frame()); err != nil {
		res = Result{Success: false, Message: err.Error()}
		p.warn.Do(func() {
			log.Warnf("Could not set LED colors: %s", res.Message)
		})
	}

	p.publish()
	return res
}

// ApplyGamma replaces the first GammaUpdateLen entries of the gamma table. The new curve is used from
// the next render on.
func (p *Pipeline) ApplyGamma(values [GammaUpdateLen]byte) Result {
	p.state.Gamma.Update(values)
	log.Debug("Gamma table updated")
	return Result{Success: true}
}

// Report builds the current report without rendering anything.
func (p *Pipeline) Report() Report {
	return BuildReport(p.state)
}

func (p *Pipeline) publish() {
	if p.publisher == nil {
		return
	}
	p.publisher.Publish(BuildReport(p.state))
}
