package neopixel

import (
	"errors"
	"github.com/callebjorkell/ws281x-node/internal/strip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type fakeDevice struct {
	leds     []uint32
	renders  [][]uint32
	waits    int
	finis    int
	failWith error
}

func (f *fakeDevice) Init() error { return nil }

func (f *fakeDevice) Render() error {
	if f.failWith != nil {
		return f.failWith
	}
	r := make([]uint32, len(f.leds))
	copy(r, f.leds)
	f.renders = append(f.renders, r)
	return nil
}

func (f *fakeDevice) Wait() error {
	f.waits++
	return nil
}

func (f *fakeDevice) Fini() { f.finis++ }

func (f *fakeDevice) Leds(_ int) []uint32 { return f.leds }

func TestPWMRender(t *testing.T) {
	tt := []struct {
		name       string
		leds       []uint32
		brightness uint8
		output     []uint32
	}{
		{
			"full brightness",
			[]uint32{0x00ff0000, 0x0000ff00, 0x000000ff},
			255,
			[]uint32{0x00ff0000, 0x0000ff00, 0x000000ff},
		},
		{
			"zero brightness",
			[]uint32{0xffffffff, 0x00ffffff, 0x12345678},
			0,
			[]uint32{0, 0, 0},
		},
		{
			"short frame clears the rest",
			[]uint32{0x00102030},
			255,
			[]uint32{0x00102030, 0, 0},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			dev := &fakeDevice{leds: []uint32{1, 1, 1}}
			e := newPWMEngine(dev)
			gamma := strip.IdentityGamma()

			err := e.Render(strip.Frame{Leds: tc.leds, Gamma: &gamma, Brightness: tc.brightness})
			require.NoError(t, err)
			require.Len(t, dev.renders, 1)
			assert.Equal(t, tc.output, dev.renders[0])
		})
	}
}

func TestPWMRenderAppliesGamma(t *testing.T) {
	dev := &fakeDevice{leds: make([]uint32, 1)}
	e := newPWMEngine(dev)

	var values [strip.GammaUpdateLen]byte
	for i := range values {
		values[i] = 128
	}
	gamma := strip.IdentityGamma()
	gamma.Update(values)

	err := e.Render(strip.Frame{Leds: []uint32{0x01020304}, Gamma: &gamma, Brightness: 255})
	require.NoError(t, err)
	assert.Equal(t, uint32(0x80808080), dev.renders[0][0])
}

func TestPWMRenderError(t *testing.T) {
	dev := &fakeDevice{leds: make([]uint32, 1), failWith: errors.New("Hardware revision is not supported")}
	e := newPWMEngine(dev)
	gamma := strip.IdentityGamma()

	err := e.Render(strip.Frame{Leds: []uint32{1}, Gamma: &gamma, Brightness: 255})
	assert.EqualError(t, err, "render failed: Hardware revision is not supported")
}

func TestPWMFini(t *testing.T) {
	dev := &fakeDevice{}
	e := newPWMEngine(dev)

	assert.NoError(t, e.Fini())
	assert.Equal(t, 1, dev.waits)
	assert.Equal(t, 1, dev.finis)
}

func TestOpenUnknownDriver(t *testing.T) {
	s := strip.NewState(1)
	s.Driver = "bitbang"

	e, err := Open(s)
	assert.Nil(t, e)

	var initErr *strip.HardwareInitError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, "bitbang", initErr.Driver)
}
