package gbms

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Recorder wraps an SDK and records the session it drives as a Script, so a
// session captured on real hardware can be replayed by a Simulator.
type Recorder struct {
	SDK

	clock clockwork.Clock

	mu     sync.Mutex
	script Script
	last   time.Time
}

// NewRecorder wraps sdk. A nil clock uses the real clock.
func NewRecorder(sdk SDK, clock clockwork.Clock) *Recorder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Recorder{SDK: sdk, clock: clock}
}

func (r *Recorder) LoadLibrary() int {
	res := r.SDK.LoadLibrary()
	r.mu.Lock()
	r.script.LoadResult = res
	r.mu.Unlock()
	return res
}

func (r *Recorder) AttachedDevices() ([]DeviceInfo, int) {
	devs, res := r.SDK.AttachedDevices()
	r.mu.Lock()
	r.script.Devices = append([]DeviceInfo(nil), devs...)
	r.mu.Unlock()
	return devs, res
}

func (r *Recorder) StartAcquisition(obj ScanObject, opts AcquisitionOptions, cb Callback) int {
	r.mu.Lock()
	r.script.Steps = nil
	r.last = r.clock.Now()
	r.mu.Unlock()

	res := r.SDK.StartAcquisition(obj, opts, func(ev RawEvent) bool {
		r.record(ev)
		return cb(ev)
	})

	r.mu.Lock()
	r.script.StartResult = res
	r.mu.Unlock()
	return res
}

func (r *Recorder) record(ev RawEvent) {
	now := r.clock.Now()
	if ev.Frame != nil {
		ev.Frame = append([]byte(nil), ev.Frame...)
	}
	ev.UserData = nil

	r.mu.Lock()
	defer r.mu.Unlock()
	r.script.Steps = append(r.script.Steps, Step{Delay: now.Sub(r.last), Event: ev})
	r.last = now
}

// GetFingerprintContrast stamps the reported contrast on the event being
// processed.
func (r *Recorder) GetFingerprintContrast() byte {
	c := r.SDK.GetFingerprintContrast()
	r.mu.Lock()
	if n := len(r.script.Steps); n > 0 {
		r.script.Steps[n-1].Contrast = c
	}
	r.mu.Unlock()
	return c
}

func (r *Recorder) GetIso19794Template(buf []byte) (int, int) {
	res, n := r.SDK.GetIso19794Template(buf)
	r.mu.Lock()
	r.script.TemplateResult = res
	if res == ResultOK {
		r.script.Template = append([]byte(nil), buf...)
	}
	r.mu.Unlock()
	return res, n
}

// Script returns a copy of what has been recorded so far.
func (r *Recorder) Script() *Script {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.script
	s.Devices = append([]DeviceInfo(nil), r.script.Devices...)
	s.Steps = append([]Step(nil), r.script.Steps...)
	s.Template = append([]byte(nil), r.script.Template...)
	return &s
}
