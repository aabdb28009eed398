package acquisition

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jtejido/gbmscapture/diagnostics"
	"github.com/jtejido/gbmscapture/frame"
	"github.com/jtejido/gbmscapture/gbms"
)

// session is the per-capture state shared by the SDK callback, the poll
// tick and the waiting caller. busy is held by the callback for the whole
// event; the tick only reads it and yields. mu guards the fields and is
// never held across an SDK call.
type session struct {
	id string

	busy atomic.Bool

	mu           sync.Mutex
	state        State
	frameReady   bool
	ended        bool
	contrast     byte
	mask         gbms.Diagnostic
	prevMask     gbms.Diagnostic
	lastActivity time.Time
	frame        *frame.Frame
	template     []byte
	tracker      *diagnostics.Tracker
	events       map[gbms.EventCode]int

	done     chan struct{}
	stopOnce sync.Once
}

func newSession() *session {
	return &session{
		id:      uuid.NewString(),
		tracker: diagnostics.NewTracker(),
		events:  make(map[gbms.EventCode]int),
		done:    make(chan struct{}),
	}
}

// reset returns the session to a clean Idle state. The ended signal is
// left alone: once closed, done stays closed.
func (s *session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Idle
	s.frameReady = false
	s.contrast = 0
	s.mask, s.prevMask = 0, 0
	s.frame = nil
	s.template = nil
	s.tracker.Reset()
}

// advance moves to a non-terminal phase. An ended session keeps its
// terminal state.
func (s *session) advance(st State) {
	s.mu.Lock()
	if !s.ended {
		s.state = st
	}
	s.mu.Unlock()
}

// State returns the current phase.
func (s *session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// started moves to ScannerStart unless a terminal event already arrived.
func (s *session) started() { s.advance(ScannerStart) }

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActivity = now
	s.mu.Unlock()
}

func (s *session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// finish records the terminal state and wakes the waiting caller. Only the
// first call has any effect.
func (s *session) finish(st State, template []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.state = st
	s.template = template
	s.ended = true
	close(s.done)
}

func (s *session) isEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// stop halts the hardware acquisition at most once per session.
func (s *session) stop(dev gbms.Device) {
	s.stopOnce.Do(dev.StopAcquisition)
}

func (s *session) count(code gbms.EventCode) {
	s.mu.Lock()
	s.events[code]++
	s.mu.Unlock()
}

// result snapshots what the session recorded so far.
func (s *session) result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Result{
		Template:    s.template,
		SessionID:   s.id,
		Diagnostics: s.tracker.Labels(),
		Frame:       s.frame,
	}
}

func (s *session) eventCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.events))
	for code, n := range s.events {
		out[code.String()] = n
	}
	return out
}
