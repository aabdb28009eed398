// Package acquisition drives one fingerprint capture session against a
// scanner: it starts the acquisition, applies the SDK's asynchronous events
// and waits for a terminal event or an inactivity timeout.
package acquisition

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcuadros/go-defaults"

	"github.com/jtejido/gbmscapture/errcode"
	"github.com/jtejido/gbmscapture/frame"
	"github.com/jtejido/gbmscapture/gbms"
)

// Options configures a Capturer. Zero fields take the tagged defaults.
type Options struct {
	// Object names the object to scan.
	Object       string        `default:"FLAT_RIGHT_INDEX"`
	PollInterval time.Duration `default:"100ms"`
	// WaitSlice is how long the caller sleeps between timeout checks.
	WaitSlice time.Duration  `default:"200ms"`
	Locale    errcode.Locale `default:"en"`

	Clock  clockwork.Clock
	Logger *slog.Logger
}

// Result is the outcome of a session that reached a terminal event or was
// cancelled. Template is nil when no template was produced.
type Result struct {
	Template    []byte
	SessionID   string
	Diagnostics []string
	Frame       *frame.Frame
}

// Present reports whether a non-empty template was produced.
func (r Result) Present() bool { return len(r.Template) > 0 }

// Base64 returns the template in standard base64, or "" when absent.
func (r Result) Base64() string {
	if !r.Present() {
		return ""
	}
	return base64.StdEncoding.EncodeToString(r.Template)
}

// Capturer runs capture sessions on a device. Only one session may run at a
// time per device; callers serialize Capture.
type Capturer struct {
	dev  gbms.Device
	opts Options
	log  *slog.Logger
}

func NewCapturer(dev gbms.Device, opts Options) *Capturer {
	defaults.SetDefaults(&opts)
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Capturer{dev: dev, opts: opts, log: log.With("component", "acquisition")}
}

// Capture runs one session. timeout bounds inactivity, not the session:
// every frame with a non-zero contrast restarts it. Hardware failures
// reported through the event stream end the session with an absent
// template and no error. Cancelling ctx stops the hardware and returns
// whatever has been recorded.
func (c *Capturer) Capture(ctx context.Context, timeout time.Duration) (Result, error) {
	sess := newSession()
	log := c.log.With("session", sess.id)
	proc := newProcessor(c.dev, sess, c.opts.Clock, log, errcode.NewLocalizer(c.opts.Locale))

	log.Info("starting capture", "timeout", timeout, "object", c.opts.Object)
	sess.reset()

	obj := c.dev.ObjectToScanFromString(c.opts.Object)
	if obj == gbms.NoObject {
		return Result{}, errcode.Wrap(errcode.InternalError,
			fmt.Errorf("invalid object to scan %q (known: %s)",
				c.opts.Object, strings.Join(gbms.ObjectNames(), ", ")))
	}

	opts := c.acquisitionOptions(obj)
	if res := c.dev.StartAcquisition(obj, opts, proc.Handle); res != gbms.ResultOK {
		sess.reset()
		code := errcode.FromResult(res)
		log.Error("failed to start acquisition", "result", res, "code", code.Name())
		return Result{}, code
	}

	sess.started()
	pollCtx, stopPoll := context.WithCancel(ctx)
	defer stopPoll()
	go c.poll(pollCtx, proc)

	sess.touch(c.opts.Clock.Now())
	if err := c.wait(ctx, sess, timeout); err != nil {
		if errors.Is(err, errcode.AcquisitionTimeout) {
			log.Warn("capture timed out", "events", sess.eventCounts())
		}
		return Result{}, err
	}

	res := sess.result()
	log.Info("capture finished",
		"template", res.Present(),
		"diagnostics", res.Diagnostics,
		"events", sess.eventCounts(),
	)
	return res, nil
}

func (c *Capturer) acquisitionOptions(obj gbms.ScanObject) gbms.AcquisitionOptions {
	var opts gbms.AcquisitionOptions
	if c.dev.ObjectType(obj).IsFlat() {
		opts |= gbms.OptionAutoCapture
		c.dev.SetSelectImageTimeout(0)
	}
	c.dev.SetMembraneUsageForFakeFingerDetection(true)
	c.dev.EnableAutoCaptureBlockForDetectedFakes(false)
	return opts
}

func (c *Capturer) poll(ctx context.Context, proc *Processor) {
	ticker := c.opts.Clock.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if proc.tick() {
				return
			}
		}
	}
}

// wait blocks until the session ends, the inactivity timeout elapses or ctx
// is cancelled. Only the timeout is an error.
func (c *Capturer) wait(ctx context.Context, sess *session, timeout time.Duration) error {
	for !sess.isEnded() {
		if c.opts.Clock.Since(sess.idleSince()) >= timeout {
			sess.stop(c.dev)
			sess.reset()
			return errcode.AcquisitionTimeout
		}
		select {
		case <-ctx.Done():
			c.log.Warn("capture interrupted", "session", sess.id, "error", ctx.Err())
			sess.stop(c.dev)
			return nil
		case <-sess.done:
		case <-c.opts.Clock.After(c.opts.WaitSlice):
		}
	}
	return nil
}
