package mqtt

import (
	"context"
	"encoding/json"
	"github.com/callebjorkell/ws281x-node/internal/strip"
	"github.com/callebjorkell/ws281x-node/internal/transport"
	log "github.com/sirupsen/logrus"
	"time"
)

// requestTimeout bounds how long a message waits for the node to pick it up.
const requestTimeout = 5 * time.Second

// Strip is what the MQTT front end needs from the node.
type Strip interface {
	SetLeds(ctx context.Context, colors []strip.Color) (strip.Result, error)
	SetGamma(ctx context.Context, gamma [strip.GammaUpdateLen]byte) (strip.Result, error)
}

// handlers turns MQTT payloads into strip requests and back. It knows nothing about the broker.
type handlers struct {
	prefix string
	strip  Strip
}

func newHandlers(prefix string, s Strip) *handlers {
	return &handlers{prefix: prefix, strip: s}
}

func (h *handlers) topic(name string) string {
	return h.prefix + "/" + name
}

// handle returns the response payload for a request message, or false for topics it does not serve.
func (h *handlers) handle(topic string, payload []byte) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch topic {
	case h.topic(topicSetLeds):
		return h.setLeds(ctx, payload), true
	case h.topic(topicSetGamma):
		return h.setGamma(ctx, payload), true
	}
	log.Debugf("Ignoring message on %s", topic)
	return nil, false
}

func (h *handlers) setLeds(ctx context.Context, payload []byte) []byte {
	req := transport.LedsRequest{}
	if err := json.Unmarshal(payload, &req); err != nil {
		return failure(err)
	}

	res, err := h.strip.SetLeds(ctx, req.Leds)
	if err != nil {
		return failure(err)
	}
	return encode(res)
}

func (h *handlers) setGamma(ctx context.Context, payload []byte) []byte {
	req := transport.GammaRequest{}
	if err := json.Unmarshal(payload, &req); err != nil {
		return failure(err)
	}
	gamma, err := req.Values()
	if err != nil {
		return failure(err)
	}

	res, err := h.strip.SetGamma(ctx, gamma)
	if err != nil {
		return failure(err)
	}
	return encode(transport.GammaResponse{Success: res.Success})
}

func (h *handlers) report(r strip.Report) ([]byte, error) {
	return json.Marshal(r)
}

func failure(err error) []byte {
	log.Debug("Rejecting MQTT request: ", err)
	return encode(strip.Result{Success: false, Message: err.Error()})
}

func encode(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// the response types are plain structs, this does not happen.
		log.Error("Unable to encode response: ", err)
		return []byte(`{"success":false}`)
	}
	return b
}
