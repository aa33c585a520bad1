package strip

import (
	"fmt"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultFrequency is WS2811_TARGET_FREQ from the native library.
	DefaultFrequency = 800 * physic.KiloHertz

	DriverPWM = "pwm"
	DriverSPI = "spi"

	defaultGpioPin    = 21
	defaultDma        = 10
	defaultLedCount   = 30
	defaultBrightness = 255
)

// Params is the strip section of the configuration as the user wrote it.
type Params struct {
	TargetFrequency int    `yaml:"target_frequency"`
	GpioPin         int    `yaml:"gpio_pin"`
	Dma             int    `yaml:"dma"`
	StripType       string `yaml:"strip_type"`
	LedCount        int    `yaml:"led_count"`
	Invert          bool   `yaml:"invert"`
	Brightness      int    `yaml:"brightness"`
	Driver          string `yaml:"driver"`
	SpiPort         string `yaml:"spi_port"`
}

func DefaultParams() Params {
	return Params{
		TargetFrequency: int(DefaultFrequency / physic.Hertz),
		GpioPin:         defaultGpioPin,
		Dma:             defaultDma,
		StripType:       DefaultStripTypeName,
		LedCount:        defaultLedCount,
		Invert:          false,
		Brightness:      defaultBrightness,
		Driver:          DriverPWM,
	}
}

// Resolve turns the parameters into a state ready for hardware init. Bad values never fail the
// resolve, they are replaced and reported back as warnings. Pin, DMA channel and brightness are
// passed through untouched; brightness is cut to eight bits like the native struct field does.
func Resolve(p Params) (*State, []Warning) {
	var warnings []Warning

	count := p.LedCount
	if count < 0 {
		warnings = append(warnings, Warning{
			Field:   "led_count",
			Message: fmt.Sprintf("negative led count %d, using 0", count),
		})
		count = 0
	}

	s := NewState(count)

	if p.TargetFrequency < 0 {
		warnings = append(warnings, Warning{
			Field:   "target_frequency",
			Message: fmt.Sprintf("out of range, resetting to default %v", DefaultFrequency),
		})
		s.Frequency = DefaultFrequency
	} else {
		s.Frequency = physic.Frequency(p.TargetFrequency) * physic.Hertz
	}

	t, ok := LookupStripType(p.StripType)
	if !ok {
		warnings = append(warnings, Warning{
			Field:   "strip_type",
			Message: fmt.Sprintf("unknown strip type: %s, using %s", p.StripType, DefaultStripTypeName),
		})
	}
	s.StripType = t

	switch p.Driver {
	case DriverPWM, DriverSPI:
		s.Driver = p.Driver
	case "":
		s.Driver = DriverPWM
	default:
		warnings = append(warnings, Warning{
			Field:   "driver",
			Message: fmt.Sprintf("unknown driver: %s, using %s", p.Driver, DriverPWM),
		})
		s.Driver = DriverPWM
	}

	s.GpioPin = p.GpioPin
	s.DmaNum = p.Dma
	s.Invert = p.Invert
	s.Brightness = uint8(p.Brightness)
	s.SpiPort = p.SpiPort

	return s, warnings
}
