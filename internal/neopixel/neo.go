package neopixel

import (
	"fmt"
	"github.com/callebjorkell/ws281x-node/internal/strip"
	log "github.com/sirupsen/logrus"
)

// Open acquires the channel described by the state. Any failure comes back as a
// *strip.HardwareInitError.
func Open(s *strip.State) (strip.Engine, error) {
	log.Infof("Initializing %s driver: %d leds, %v, %v", s.Driver, s.LedCount(), s.StripType, s.Frequency)

	var (
		e   strip.Engine
		err error
	)
	switch s.Driver {
	case strip.DriverSPI:
		e, err = openSPI(s)
	case strip.DriverPWM:
		e, err = openPWM(s)
	default:
		err = fmt.Errorf("unsupported driver %q", s.Driver)
	}
	if err != nil {
		return nil, &strip.HardwareInitError{Driver: s.Driver, Err: err}
	}
	return e, nil
}
