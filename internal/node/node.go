package node

import (
	"context"
	"errors"
	"github.com/callebjorkell/ws281x-node/internal/strip"
	log "github.com/sirupsen/logrus"
)

// ErrStopped is returned for requests that arrive after the node has shut down.
var ErrStopped = errors.New("node is shutting down")

type request struct {
	run  func()
	done chan struct{}
}

// Node owns the strip. Every request is executed on the goroutine running Run, so the state never
// sees two writers at once, and shutdown happens on that same goroutine.
type Node struct {
	pipeline  *strip.Pipeline
	sequencer *strip.Sequencer
	requests  chan request
	stopped   chan struct{}
}

func New(pipeline *strip.Pipeline, sequencer *strip.Sequencer) *Node {
	return &Node{
		pipeline:  pipeline,
		sequencer: sequencer,
		requests:  make(chan request),
		stopped:   make(chan struct{}),
	}
}

// Run serves requests until ctx is cancelled, then blanks and releases the strip before returning.
func (n *Node) Run(ctx context.Context) {
	log.Info("Serving strip requests")
	defer close(n.stopped)

	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down strip...")
			n.sequencer.Shutdown()
			return
		case req := <-n.requests:
			req.run()
			close(req.done)
		}
	}
}

// Stopped is closed once Run has returned.
func (n *Node) Stopped() <-chan struct{} {
	return n.stopped
}

func (n *Node) SetLeds(ctx context.Context, colors []strip.Color) (strip.Result, error) {
	var res strip.Result
	err := n.do(ctx, func() {
		log.Debugf("Setting %d leds", len(colors))
		res = n.pipeline.ApplyUpdate(colors)
	})
	return res, err
}

func (n *Node) SetGamma(ctx context.Context, gamma [strip.GammaUpdateLen]byte) (strip.Result, error) {
	var res strip.Result
	err := n.do(ctx, func() {
		res = n.pipeline.ApplyGamma(gamma)
	})
	return res, err
}

// State reports what the strip currently shows.
func (n *Node) State(ctx context.Context) (strip.Report, error) {
	var r strip.Report
	err := n.do(ctx, func() {
		r = n.pipeline.Report()
	})
	return r, err
}

func (n *Node) do(ctx context.Context, f func()) error {
	req := request{run: f, done: make(chan struct{})}

	select {
	case n.requests <- req:
	case <-n.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	// once accepted, the request always runs to completion before Run looks at anything else.
	<-req.done
	return nil
}
