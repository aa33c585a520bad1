package neopixel

import (
	"github.com/callebjorkell/ws281x-node/internal/strip"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"io"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// nrzled takes RGB input and puts it on the wire as G, R, B.
var nrzledWireOrder = []int{1, 0, 2}

// nrzledClock is the only SPI clock nrzled accepts. Three SPI bits encode one strip bit, which puts the
// strip at its fixed 800kHz.
const nrzledClock = 2500 * physic.KiloHertz

type pixelWriter interface {
	Write(pixels []byte) (int, error)
	Halt() error
}

// spiEngine drives the strip through the SPI MOSI line with periph's NRZ encoder. The strip type's
// channel order, brightness and gamma are all applied in software before handing the bytes over.
type spiEngine struct {
	dev      pixelWriter
	port     io.Closer
	channels int
	input    []int
	buf      []byte
}

func newSPIEngine(dev pixelWriter, port io.Closer, count int, t strip.StripType) *spiEngine {
	order := t.Order()
	// input[k] is the color channel that has to sit in input byte k so that nrzled's reordering
	// ends up with the strip's own wire order.
	input := make([]int, len(order))
	for slot, channel := range order {
		input[nrzledWireOrder[slot]] = channel
	}
	return &spiEngine{
		dev:      dev,
		port:     port,
		channels: len(order),
		input:    input,
		buf:      make([]byte, count*len(order)),
	}
}

func openSPI(s *strip.State) (strip.Engine, error) {
	if err := checkSPIStrip(s); err != nil {
		return nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "unable to initialize periph")
	}

	port, err := spireg.Open(s.SpiPort)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open SPI port %q", s.SpiPort)
	}
	if p, ok := port.(spi.Pins); ok {
		log.Infof("Using SPI pins CLK: %s MOSI: %s", p.CLK(), p.MOSI())
	}
	dev, err := newNrzled(port, s)
	if err != nil {
		port.Close()
		return nil, err
	}

	return newSPIEngine(dev, port, s.LedCount(), s.StripType), nil
}

// checkSPIStrip refuses strips nrzled cannot drive. On SPI it writes three bytes per pixel and drops any
// fourth, so four channel strips would lose white and shift every following pixel.
func checkSPIStrip(s *strip.State) error {
	if s.StripType.Channels() != 3 {
		return errors.Errorf("the spi driver cannot drive %v, use the pwm driver for four channel strips", s.StripType)
	}
	return nil
}

// newNrzled sets up the encoder on an opened port.
func newNrzled(port spi.Port, s *strip.State) (*nrzled.Dev, error) {
	if err := checkSPIStrip(s); err != nil {
		return nil, err
	}
	if s.Invert {
		log.Warn("The spi driver cannot invert the signal, ignoring invert")
	}
	if s.Frequency != strip.DefaultFrequency {
		log.Warnf("The spi driver always runs the strip at %v, ignoring %v", strip.DefaultFrequency, s.Frequency)
	}

	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: s.LedCount(),
		Channels:  3,
		Freq:      nrzledClock,
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to set up nrzled")
	}
	return dev, nil
}

func (e *spiEngine) Render(f strip.Frame) error {
	for i := range e.buf {
		e.buf[i] = 0
	}
	for i, p := range f.Leds {
		off := i * e.channels
		if off+e.channels > len(e.buf) {
			break
		}
		c := strip.Unpack(f.Gamma.Correct(p, f.Brightness))
		quad := [4]byte{c.R, c.G, c.B, c.W}
		for k, channel := range e.input {
			e.buf[off+k] = quad[channel]
		}
	}

	if _, err := e.dev.Write(e.buf); err != nil {
		return errors.Wrap(err, "spi write failed")
	}
	return nil
}

func (e *spiEngine) Fini() error {
	if err := e.dev.Halt(); err != nil {
		log.Warn("Unable to halt nrzled: ", err)
	}
	if e.port == nil {
		return nil
	}
	return e.port.Close()
}
