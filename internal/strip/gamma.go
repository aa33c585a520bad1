package strip

// GammaUpdateLen is the number of entries a gamma update replaces. The last table entry is never
// touched by updates.
const GammaUpdateLen = 255

// GammaTable maps a channel level to the level actually sent to the strip.
type GammaTable [256]byte

// IdentityGamma is the table the library starts out with.
func IdentityGamma() GammaTable {
	var g GammaTable
	for i := range g {
		g[i] = byte(i)
	}
	return g
}

// Update overwrites entries 0-254 with the given values.
func (g *GammaTable) Update(values [GammaUpdateLen]byte) {
	copy(g[:GammaUpdateLen], values[:])
}

// Correct runs a packed pixel through brightness scaling and the table, the same way the native
// library treats each channel before it hits the wire.
func (g *GammaTable) Correct(pixel uint32, brightness uint8) uint32 {
	scale := uint32(brightness) + 1
	c := Unpack(pixel)
	level := func(v uint8) uint8 {
		return g[(uint32(v)*scale)>>8]
	}
	return Pack(Color{
		R: level(c.R),
		G: level(c.G),
		B: level(c.B),
		W: level(c.W),
	})
}
