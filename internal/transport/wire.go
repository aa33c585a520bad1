// Package transport holds the JSON messages shared by the MQTT and HTTP front ends.
package transport

import (
	"fmt"
	"github.com/callebjorkell/ws281x-node/internal/strip"
)

// LedsRequest sets the strip from index 0 onwards. Any index field in the entries is ignored, the
// position in the list decides which pixel gets the color.
type LedsRequest struct {
	Leds []strip.Color `json:"leds"`
}

type GammaRequest struct {
	Gamma []int `json:"gamma"`
}

type GammaResponse struct {
	Success bool `json:"success"`
}

// Values checks that the request carries exactly strip.GammaUpdateLen byte sized values.
func (g GammaRequest) Values() ([strip.GammaUpdateLen]byte, error) {
	var gamma [strip.GammaUpdateLen]byte
	if len(g.Gamma) != strip.GammaUpdateLen {
		return gamma, fmt.Errorf("gamma must have %d entries, got %d", strip.GammaUpdateLen, len(g.Gamma))
	}
	for i, v := range g.Gamma {
		if v < 0 || v > 255 {
			return gamma, fmt.Errorf("gamma entry %d out of range: %d", i, v)
		}
		gamma[i] = byte(v)
	}
	return gamma, nil
}
