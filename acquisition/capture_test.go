package acquisition

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtejido/gbmscapture/errcode"
	"github.com/jtejido/gbmscapture/gbms"
)

func instantScript() *gbms.Script {
	s := gbms.DefaultScript()
	for i := range s.Steps {
		s.Steps[i].Delay = 0
	}
	return s
}

func newTestCapturer(dev gbms.Device, clock clockwork.Clock) *Capturer {
	return NewCapturer(dev, Options{Clock: clock, Logger: discardLogger()})
}

func TestNewCapturerDefaults(t *testing.T) {
	c := NewCapturer(gbms.NewSimulator(nil), Options{})
	assert.Equal(t, "FLAT_RIGHT_INDEX", c.opts.Object)
	assert.Equal(t, 100*time.Millisecond, c.opts.PollInterval)
	assert.Equal(t, 200*time.Millisecond, c.opts.WaitSlice)
	assert.Equal(t, errcode.English, c.opts.Locale)
	assert.NotNil(t, c.opts.Clock)
}

func TestCaptureProducesAdaptedTemplate(t *testing.T) {
	sim := gbms.NewSimulator(instantScript())
	c := newTestCapturer(sim, nil)

	res, err := c.Capture(context.Background(), 5*time.Second)
	require.NoError(t, err)
	sim.Wait()

	require.True(t, res.Present())
	assert.Equal(t, []byte{0x00, 0x31, 0x01, 0x07, 0x00, 0x00}, res.Template[10:16])
	assert.NotEmpty(t, res.Base64())
	assert.NotEmpty(t, res.SessionID)
	require.NotNil(t, res.Frame)
	assert.Equal(t, 64, res.Frame.Width)

	calls := sim.Calls()
	assert.Equal(t, 1, calls.Start)
	assert.Equal(t, 0, calls.Stop)
	assert.Equal(t, 1, calls.Finalize)
	assert.Equal(t, 1, calls.SelectImageTimeout)
	assert.Equal(t, gbms.FlatRightIndex, calls.LastObject)
	assert.True(t, calls.LastOptions.Has(gbms.OptionAutoCapture))
}

func TestCaptureTimesOut(t *testing.T) {
	fc := clockwork.NewFakeClock()
	sim := gbms.NewSimulator(&gbms.Script{}, gbms.WithClock(fc))
	c := newTestCapturer(sim, fc)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := c.Capture(ctx, time.Second)
		done <- outcome{res, err}
	}()

	var out outcome
	for finished := false; !finished; {
		select {
		case out = <-done:
			finished = true
		default:
			// the poll ticker and one wait slice
			bctx, bcancel := context.WithTimeout(ctx, 50*time.Millisecond)
			_ = fc.BlockUntilContext(bctx, 2)
			bcancel()
			fc.Advance(200 * time.Millisecond)
		}
		require.NoError(t, ctx.Err(), "capture never returned")
	}

	assert.ErrorIs(t, out.err, errcode.AcquisitionTimeout)
	assert.Equal(t, errcode.AcquisitionTimeout, errcode.As(out.err))
	assert.False(t, out.res.Present())
	assert.Equal(t, 1, sim.Calls().Stop)
}

func TestCaptureStartFailure(t *testing.T) {
	sim := gbms.NewSimulator(&gbms.Script{StartResult: int(errcode.DeviceLocked)})
	c := newTestCapturer(sim, nil)

	start := time.Now()
	_, err := c.Capture(context.Background(), 5*time.Second)
	assert.ErrorIs(t, err, errcode.DeviceLocked)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 0, sim.Calls().Stop)
}

func TestCaptureUnacceptableEndIsAbsent(t *testing.T) {
	script := &gbms.Script{
		Template: gbms.DefaultScript().Template,
		Steps: []gbms.Step{
			{Event: gbms.RawEvent{Code: gbms.EventScannerStarted}},
			{Contrast: 80, Event: frameEvent(0)},
			{Contrast: 80, Event: endEvent(gbms.InfoAcquisitionPhase, gbms.DiagScannerFailure)},
		},
	}
	sim := gbms.NewSimulator(script)
	c := newTestCapturer(sim, nil)

	res, err := c.Capture(context.Background(), 5*time.Second)
	require.NoError(t, err)
	assert.False(t, res.Present())
	assert.Empty(t, res.Base64())
	assert.Equal(t, 0, sim.Calls().Finalize)
}

func TestCaptureHardwareErrorIsAbsent(t *testing.T) {
	script := &gbms.Script{
		Steps: []gbms.Step{
			{Event: gbms.RawEvent{Code: gbms.EventScannerStarted}},
			{Event: gbms.RawEvent{Code: gbms.EventAcquisitionError, FrameError: 6}},
		},
	}
	c := newTestCapturer(gbms.NewSimulator(script), nil)

	res, err := c.Capture(context.Background(), 5*time.Second)
	require.NoError(t, err)
	assert.False(t, res.Present())
}

func TestCaptureInternalFailure(t *testing.T) {
	script := &gbms.Script{
		Template: []byte{0x46, 0x4d, 0x52},
		Steps: []gbms.Step{
			{Contrast: 80, Event: endEvent(gbms.InfoISO19794_2_2005, 0)},
		},
	}
	sim := gbms.NewSimulator(script)
	c := newTestCapturer(sim, nil)

	res, err := c.Capture(context.Background(), 5*time.Second)
	require.NoError(t, err)
	assert.False(t, res.Present())
	assert.Equal(t, 1, sim.Calls().Stop)
}

func TestCaptureCancelled(t *testing.T) {
	sim := gbms.NewSimulator(&gbms.Script{})
	c := newTestCapturer(sim, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	res, err := c.Capture(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Present())
	assert.Equal(t, 1, sim.Calls().Stop)
}

func TestCaptureInvalidObject(t *testing.T) {
	sim := gbms.NewSimulator(nil)
	c := NewCapturer(sim, Options{Object: "SIXTH_FINGER", Logger: discardLogger()})

	_, err := c.Capture(context.Background(), time.Second)
	require.Error(t, err)
	assert.Equal(t, errcode.InternalError, errcode.As(err))
	assert.Equal(t, 0, sim.Calls().Start)
}

func TestCaptureCollectsDiagnostics(t *testing.T) {
	script := &gbms.Script{
		Template: gbms.DefaultScript().Template,
		Steps: []gbms.Step{
			{Event: gbms.RawEvent{Code: gbms.EventScannerStarted}},
			{Contrast: 40, Event: frameEvent(gbms.DiagDryFinger)},
			{Delay: 400 * time.Millisecond, Contrast: 80, Event: endEvent(gbms.InfoISO19794_2_2005, 0)},
		},
	}
	c := NewCapturer(gbms.NewSimulator(script), Options{PollInterval: 20 * time.Millisecond, Logger: discardLogger()})

	res, err := c.Capture(context.Background(), 5*time.Second)
	require.NoError(t, err)
	assert.True(t, res.Present())
	assert.Equal(t, []string{"dry finger"}, res.Diagnostics)
}

func TestCaptureKeepsEndDeliveredDuringTick(t *testing.T) {
	script := &gbms.Script{
		Template: gbms.DefaultScript().Template,
		Steps: []gbms.Step{
			{Event: gbms.RawEvent{Code: gbms.EventScannerStarted}},
			{Contrast: 40, Event: frameEvent(gbms.DiagDryFinger)},
		},
	}
	sim := gbms.NewSimulator(script)
	dev := &endOnBlinkDevice{Simulator: sim, end: endEvent(gbms.InfoISO19794_2_2005, 0)}
	c := NewCapturer(dev, Options{PollInterval: 20 * time.Millisecond, Logger: discardLogger()})

	res, err := c.Capture(context.Background(), 5*time.Second)
	require.NoError(t, err)
	assert.True(t, res.Present())
	assert.Eventually(t, dev.accepted.Load, time.Second, 10*time.Millisecond)
}
