package acquisition

import (
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/jtejido/gbmscapture/diagnostics"
	"github.com/jtejido/gbmscapture/errcode"
	"github.com/jtejido/gbmscapture/frame"
	"github.com/jtejido/gbmscapture/gbms"
	"github.com/jtejido/gbmscapture/isotemplate"
)

// Processor applies SDK events to one session. Handle is the callback
// passed to StartAcquisition; tick is driven by the poll ticker.
type Processor struct {
	dev    gbms.Device
	sess   *session
	clock  clockwork.Clock
	log    *slog.Logger
	locale errcode.Localizer
}

func newProcessor(dev gbms.Device, sess *session, clock clockwork.Clock, log *slog.Logger, loc errcode.Localizer) *Processor {
	return &Processor{dev: dev, sess: sess, clock: clock, log: log, locale: loc}
}

// Handle is the gbms.Callback for the session. A callback arriving while
// another event is in progress is rejected rather than queued. The poll
// tick never takes busy, so it cannot cause an event to be dropped.
func (p *Processor) Handle(raw gbms.RawEvent) bool {
	if !p.sess.busy.CompareAndSwap(false, true) {
		p.log.Warn("event rejected while busy", "event", raw.Code)
		return false
	}
	defer p.sess.busy.Store(false)

	p.sess.count(raw.Code)
	return p.Dispatch(Decode(raw))
}

// Dispatch applies ev. It returns false when the event could not be
// processed, in which case the session has been stopped and ended.
func (p *Processor) Dispatch(ev Event) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.fail(fmt.Errorf("panic while handling %T: %v", ev, r))
			ok = false
		}
	}()

	var err error
	switch e := ev.(type) {
	case ScannerStarted:
		p.log.Info("scanner started")
		p.sess.started()
	case FrameAcquired:
		p.frameAcquired(e)
	case PreviewEnded:
		p.log.Info("preview phase ended")
		p.sess.advance(Acquisition)
	case AcquisitionEnded:
		err = p.acquisitionEnded(e)
	case AcquisitionFailed:
		p.acquisitionFailed(e)
	case Unhandled:
		p.log.Warn("unhandled event", "event", e.Code)
	}
	if err != nil {
		p.fail(err)
		return false
	}
	return true
}

func (p *Processor) frameAcquired(e FrameAcquired) {
	contrast := p.dev.GetFingerprintContrast()
	var f *frame.Frame
	if e.raw().HasFrame() {
		f = frame.Copy(e.Frame, e.Width, e.Height)
	}

	s := p.sess
	s.mu.Lock()
	s.contrast = contrast
	if contrast > 0 {
		s.lastActivity = p.clock.Now()
	}
	if f != nil {
		s.frame = f
		s.frameReady = true
	}
	s.mask = e.Diagnostic
	if !s.ended {
		s.state = Preview
	}
	s.mu.Unlock()

	p.log.Debug("frame acquired",
		"width", e.Width,
		"height", e.Height,
		"contrast", contrast,
		"rate", e.CurrentRate,
		"nominal_rate", e.NominalRate,
	)
}

func (p *Processor) acquisitionEnded(e AcquisitionEnded) error {
	p.log.Info("acquisition ended")
	p.log.Debug("event info", "flags", e.Info.Names())

	acceptable := diagnostics.Acceptable(e.Diagnostic)

	var tpl []byte
	if e.Info.Has(gbms.InfoISO19794_2_2005) {
		var err error
		if tpl, err = p.extractTemplate(); err != nil {
			return err
		}
	}

	var f *frame.Frame
	if acceptable && e.raw().HasFrame() {
		p.dev.ImageFinalization(e.Frame)
		f = frame.Copy(e.Frame, e.Width, e.Height)
	}
	if f != nil {
		p.sess.mu.Lock()
		p.sess.frame = f
		p.sess.mu.Unlock()
	}

	p.sess.finish(AcquisitionEnd, tpl)
	return nil
}

// extractTemplate reads the ISO 19794-2 template from the SDK and rewrites
// its vendor fields. An SDK failure yields no template and no error; a
// malformed template is an error.
func (p *Processor) extractTemplate() ([]byte, error) {
	size := p.dev.GetTemplateBufferSize()
	if size <= 0 {
		p.log.Error("template buffer size unavailable", "size", size)
		return nil, nil
	}
	buf := make([]byte, size)
	res, n := p.dev.GetIso19794Template(buf)
	if res != gbms.ResultOK {
		p.log.Error("failed to read ISO template", "result", res, "code", errcode.FromResult(res))
		return nil, nil
	}
	if n > 0 && n <= size {
		buf = buf[:n]
	}

	tpl, err := isotemplate.Adapt(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to adapt ISO template: %w", err)
	}
	p.log.Info("ISO template generated", "bytes", len(tpl))
	return tpl, nil
}

func (p *Processor) acquisitionFailed(e AcquisitionFailed) {
	p.sess.finish(ScannerError, nil)
	code := errcode.FromResult(e.FrameError)
	p.log.Error("acquisition error",
		"code", code.Name(),
		"result", e.FrameError,
		"message", p.locale.UserMessage(code),
	)
}

// fail settles the session after an internal failure: the hardware is
// stopped and the session ends in ScannerError without a template.
func (p *Processor) fail(err error) {
	p.log.Error("event processing failed", "error", err)
	p.sess.stop(p.dev)
	p.sess.mu.Lock()
	p.sess.state = ScannerError
	p.sess.mu.Unlock()
	p.sess.finish(ScannerError, nil)
}

// tick does the low-priority bookkeeping after frames: diagnostics changes
// are recorded and drive the scanner LED, and a terminal state settles back
// to Idle. It skips the cycle while an event is being handled and reports
// whether the session has ended.
func (p *Processor) tick() (ended bool) {
	s := p.sess
	if s.busy.Load() {
		return s.isEnded()
	}
	defer func() {
		if r := recover(); r != nil {
			p.fail(fmt.Errorf("panic in poll tick: %v", r))
			ended = true
		}
	}()

	var (
		changed bool
		mask    gbms.Diagnostic
		fresh   []string
	)
	s.mu.Lock()
	if s.state == Idle {
		ended = s.ended
		s.mu.Unlock()
		return ended
	}
	if s.frameReady {
		s.frameReady = false
		if s.mask != s.prevMask {
			changed, mask = true, s.mask
			fresh = s.tracker.Observe(mask)
			s.prevMask = mask
		}
	}
	if s.state.Terminal() {
		s.state = Idle
	}
	ended = s.ended
	s.mu.Unlock()

	for _, label := range fresh {
		p.log.Warn("new diagnostic", "diagnostic", label)
	}
	if changed {
		blink := diagnostics.ShouldBlink(mask)
		p.log.Info("configuring LED blink", "diagnostic", uint32(mask), "blink", blink)
		p.dev.SetLEDBlinkDuringAcquisition(blink)
		if !blink {
			p.dev.SetAutoCaptureBlocking(false)
		}
	}
	return ended
}
