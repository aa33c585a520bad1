package neopixel

import (
	"github.com/callebjorkell/ws281x-node/internal/strip"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// wsEngine is the part of the ws281x library device the pwm engine needs.
type wsEngine interface {
	Init() error
	Render() error
	Wait() error
	Fini()
	Leds(channel int) []uint32
}

// pwmEngine drives channel 0 of the native library. The library is set up with full brightness and
// its default gamma curve, brightness and gamma are applied here so that they can change at runtime.
type pwmEngine struct {
	ws wsEngine
}

func newPWMEngine(ws wsEngine) *pwmEngine {
	return &pwmEngine{ws: ws}
}

func (e *pwmEngine) Render(f strip.Frame) error {
	leds := e.ws.Leds(0)
	for i := range leds {
		if i >= len(f.Leds) {
			leds[i] = 0
			continue
		}
		leds[i] = f.Gamma.Correct(f.Leds[i], f.Brightness)
	}

	if err := e.ws.Render(); err != nil {
		return errors.Wrap(err, "render failed")
	}
	return nil
}

func (e *pwmEngine) Fini() error {
	if err := e.ws.Wait(); err != nil {
		log.Warn("Waiting for the last frame failed: ", err)
	}
	e.ws.Fini()
	return nil
}
