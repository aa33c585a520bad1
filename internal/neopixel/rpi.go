//go:build pi

package neopixel

import (
	"fmt"
	"github.com/callebjorkell/ws281x-node/internal/strip"
	"github.com/pkg/errors"
	ws "github.com/rpi-ws281x/rpi-ws281x-go"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func openPWM(s *strip.State) (strip.Engine, error) {
	checkPin(s.GpioPin)

	opt := ws.DefaultOptions
	opt.Channels = append([]ws.ChannelOption(nil), ws.DefaultOptions.Channels...)
	opt.Frequency = int(s.Frequency / physic.Hertz)
	opt.DmaNum = s.DmaNum
	opt.Channels[0].GpioPin = s.GpioPin
	opt.Channels[0].LedCount = s.LedCount()
	opt.Channels[0].Invert = s.Invert
	opt.Channels[0].StripeType = int(s.StripType)
	// brightness and gamma are applied in software, see pwmEngine.
	opt.Channels[0].Brightness = 255

	dev, err := ws.MakeWS2811(&opt)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create ws2811 device")
	}
	if err := dev.Init(); err != nil {
		return nil, errors.Wrapf(err, "unable to init ws2811 on GPIO%d, DMA %d", s.GpioPin, s.DmaNum)
	}

	return newPWMEngine(dev), nil
}

// checkPin only logs. The native library does its own validation of the pin during init.
func checkPin(pin int) {
	if _, err := host.Init(); err != nil {
		log.Warn("Unable to initialize periph: ", err)
		return
	}

	name := fmt.Sprintf("GPIO%d", pin)
	p := gpioreg.ByName(name)
	if p == nil {
		log.Warnf("Pin %s is not known to this host", name)
		return
	}
	log.Debugf("Driving strip on %s (%s)", p.Name(), p.Function())
}
