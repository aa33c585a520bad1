//go:build !pi

package neopixel

import (
	"github.com/callebjorkell/ws281x-node/internal/strip"
	log "github.com/sirupsen/logrus"
	"strings"
)

// mockDevice stands in for the native library on machines without the ws281x hardware.
type mockDevice struct {
	colors []uint32
}

func (d *mockDevice) Init() error {
	return nil
}

func (d *mockDevice) Render() error {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return nil
	}
	c := make([]string, 0, len(d.colors))
	for _, p := range d.colors {
		c = append(c, strip.Unpack(p).String())
	}
	log.Debugf("neopixel: render [%s]", strings.Join(c, " "))
	return nil
}

func (d *mockDevice) Wait() error {
	return nil
}

func (d *mockDevice) Fini() {
	log.Debug("neopixel: fini")
}

func (d *mockDevice) Leds(_ int) []uint32 {
	return d.colors
}

func openPWM(s *strip.State) (strip.Engine, error) {
	log.Warnf("Built without pi support, GPIO%d will not be driven", s.GpioPin)
	return newPWMEngine(&mockDevice{
		colors: make([]uint32, s.LedCount()),
	}), nil
}
