package strip

import (
	log "github.com/sirupsen/logrus"
	"sync"
)

type Phase int

const (
	Unarmed Phase = iota
	Armed
	Blanking
	Released
)

func (p Phase) String() string {
	switch p {
	case Unarmed:
		return "unarmed"
	case Armed:
		return "armed"
	case Blanking:
		return "blanking"
	case Released:
		return "released"
	}
	return "N/A"
}

// Sequencer turns the strip off and hands the channel back, once.
type Sequencer struct {
	mu     sync.Mutex
	state  *State
	engine Engine
	phase  Phase
}

func NewSequencer(state *State) *Sequencer {
	return &Sequencer{state: state}
}

// Arm records the acquired hardware handle. Only an armed sequencer touches hardware on shutdown.
func (s *Sequencer) Arm(engine Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != Unarmed {
		log.Warnf("Sequencer is %v, not arming again", s.phase)
		return
	}
	s.engine = engine
	s.phase = Armed
}

func (s *Sequencer) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phase
}

// Shutdown blanks every pixel and releases the channel. Calling it again afterwards does nothing.
func (s *Sequencer) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case Released:
		log.Debug("Already released, nothing to do")
		return
	case Unarmed:
		log.Debug("Hardware was never initialized, skipping blank")
		s.phase = Released
		return
	}

	s.phase = Blanking
	log.Info("Blanking strip...")
	s.state.clear()
	if err := s.engine.Render(s.state.Frame()); err != nil {
		log.Errorf("Unable to blank strip: %v", err)
	}

	if err := s.engine.Fini(); err != nil {
		log.Errorf("Unable to release the strip: %v", err)
	}
	s.phase = Released
	log.Info("Strip released")
}
