package gbms

import (
	"sync"

	"github.com/jonboulle/clockwork"
)

const resultAcquisitionAlreadyStarted = 35

// Calls counts the SDK calls a Simulator received.
type Calls struct {
	Start               int
	Stop                int
	Finalize            int
	BlinkOn             int
	BlinkOff            int
	AutoCaptureBlockOff int
	SelectImageTimeout  int
	LastObject          ScanObject
	LastOptions         AcquisitionOptions
	CurrentDevice       DeviceID
	FlatMode            FlatAutoCaptureMode
}

// Simulator is a scripted scanner. StartAcquisition replays the script's
// steps on its own goroutine, the way the vendor SDK delivers callbacks
// from a driver thread.
type Simulator struct {
	clock  clockwork.Clock
	script *Script

	mu       sync.Mutex
	calls    Calls
	contrast byte
	running  bool
	stop     chan struct{}
	cb       Callback
	wg       sync.WaitGroup
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithClock sets the clock used for step delays.
func WithClock(c clockwork.Clock) SimulatorOption {
	return func(s *Simulator) { s.clock = c }
}

// NewSimulator returns a Simulator replaying script. A nil script runs the
// DefaultScript.
func NewSimulator(script *Script, opts ...SimulatorOption) *Simulator {
	if script == nil {
		script = DefaultScript()
	}
	s := &Simulator{clock: clockwork.NewRealClock(), script: script}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calls returns a snapshot of the call counters.
func (s *Simulator) Calls() Calls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Wait blocks until the replay goroutine of the last session has returned.
func (s *Simulator) Wait() { s.wg.Wait() }

// Emit delivers ev to the callback of the running session as if the device
// had produced it, reporting contrast for the frame. It returns false when no
// session is running.
func (s *Simulator) Emit(ev RawEvent, contrast byte) bool {
	s.mu.Lock()
	cb, running := s.cb, s.running
	if running {
		s.contrast = contrast
	}
	s.mu.Unlock()
	if !running || cb == nil {
		return false
	}
	ok := cb(ev)
	if ev.Code == EventAcquisitionEnd || ev.Code == EventAcquisitionError {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}
	return ok
}

func (s *Simulator) LoadLibrary() int { return s.script.LoadResult }

func (s *Simulator) Version() [4]byte { return [4]byte{5, 2, 0, 1} }

func (s *Simulator) AttachedDevices() ([]DeviceInfo, int) {
	if s.script.LoadResult != ResultOK {
		return nil, s.script.LoadResult
	}
	return append([]DeviceInfo(nil), s.script.Devices...), ResultOK
}

func (s *Simulator) SetCurrentDevice(id DeviceID, serial string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.script.Devices {
		if d.ID == id && d.SerialString() == serial {
			s.calls.CurrentDevice = id
			return ResultOK
		}
	}
	return 2
}

func (s *Simulator) DeviceFeatures() (uint32, int) { return 0x3f, ResultOK }
func (s *Simulator) SupportedScanOptions() (uint32, int) {
	return uint32(OptionAutoCapture | OptionFullResPreview), ResultOK
}
func (s *Simulator) ScannableTypes() (uint32, int) {
	return uint32(TypeFlatSingleFinger | TypeRolledFinger), ResultOK
}

func (s *Simulator) FlatAutoCaptureModeIsSupported(mode FlatAutoCaptureMode) (bool, int) {
	return true, ResultOK
}

func (s *Simulator) SetFlatAutoCaptureMode(mode FlatAutoCaptureMode) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.FlatMode = mode
	return ResultOK
}

func (s *Simulator) ObjectToScanFromString(name string) ScanObject { return LookupObject(name) }

func (s *Simulator) ObjectType(obj ScanObject) ObjectType { return TypeOf(obj) }

func (s *Simulator) StartAcquisition(obj ScanObject, opts AcquisitionOptions, cb Callback) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Start++
	s.calls.LastObject = obj
	s.calls.LastOptions = opts
	if s.script.StartResult != ResultOK {
		return s.script.StartResult
	}
	if s.running {
		return resultAcquisitionAlreadyStarted
	}
	s.running = true
	s.cb = cb
	s.contrast = 0
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.replay(s.script.Steps, cb, s.stop)
	return ResultOK
}

func (s *Simulator) replay(steps []Step, cb Callback, stop <-chan struct{}) {
	defer s.wg.Done()
	for _, step := range steps {
		if step.Delay > 0 {
			select {
			case <-stop:
				return
			case <-s.clock.After(step.Delay):
			}
		}
		s.mu.Lock()
		select {
		case <-stop:
			s.mu.Unlock()
			return
		default:
		}
		s.contrast = step.Contrast
		terminal := step.Event.Code == EventAcquisitionEnd || step.Event.Code == EventAcquisitionError
		s.mu.Unlock()

		cb(step.Event)

		if terminal {
			s.mu.Lock()
			if s.stop == stop {
				s.running = false
			}
			s.mu.Unlock()
			return
		}
	}
}

// StopAcquisition halts the replay. Stopping an idle device is a no-op.
func (s *Simulator) StopAcquisition() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Stop++
	if s.running {
		close(s.stop)
		s.running = false
	}
}

func (s *Simulator) SetSelectImageTimeout(ms int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.SelectImageTimeout++
	return ResultOK
}

func (s *Simulator) SetMembraneUsageForFakeFingerDetection(bool) int { return ResultOK }

func (s *Simulator) EnableAutoCaptureBlockForDetectedFakes(bool) int { return ResultOK }

func (s *Simulator) SetLEDBlinkDuringAcquisition(enable bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enable {
		s.calls.BlinkOn++
	} else {
		s.calls.BlinkOff++
	}
	return ResultOK
}

func (s *Simulator) SetAutoCaptureBlocking(enable bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !enable {
		s.calls.AutoCaptureBlockOff++
	}
	return ResultOK
}

func (s *Simulator) GetFingerprintContrast() byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contrast
}

func (s *Simulator) GetTemplateBufferSize() int { return len(s.script.Template) }

func (s *Simulator) GetIso19794Template(buf []byte) (int, int) {
	if s.script.TemplateResult != ResultOK {
		return s.script.TemplateResult, 0
	}
	return ResultOK, copy(buf, s.script.Template)
}

func (s *Simulator) ImageFinalization(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Finalize++
}
