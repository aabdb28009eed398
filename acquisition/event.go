package acquisition

import "github.com/jtejido/gbmscapture/gbms"

// Event is a decoded SDK callback. The set of variants is closed.
type Event interface {
	event()
}

type ScannerStarted struct{}

// FrameAcquired is a preview frame. Frame aliases SDK memory.
type FrameAcquired struct {
	Frame       []byte
	Width       int
	Height      int
	CurrentRate float64
	NominalRate float64
	Diagnostic  gbms.Diagnostic
}

type PreviewEnded struct{}

// AcquisitionEnded carries the final image and the event-info flags that
// say whether a template is available.
type AcquisitionEnded struct {
	Info       gbms.EventInfo
	Frame      []byte
	Width      int
	Height     int
	Diagnostic gbms.Diagnostic
}

// AcquisitionFailed reports a hardware error. FrameError is the raw SDK
// result.
type AcquisitionFailed struct {
	FrameError int
}

// Unhandled is any event kind the processor does not act on.
type Unhandled struct {
	Code gbms.EventCode
}

func (ScannerStarted) event()    {}
func (FrameAcquired) event()     {}
func (PreviewEnded) event()      {}
func (AcquisitionEnded) event()  {}
func (AcquisitionFailed) event() {}
func (Unhandled) event()         {}

func (e FrameAcquired) raw() gbms.RawEvent {
	return gbms.RawEvent{Frame: e.Frame, Width: e.Width, Height: e.Height}
}

func (e AcquisitionEnded) raw() gbms.RawEvent {
	return gbms.RawEvent{Frame: e.Frame, Width: e.Width, Height: e.Height}
}

// Decode maps a raw SDK callback onto its Event variant.
func Decode(raw gbms.RawEvent) Event {
	switch raw.Code {
	case gbms.EventScannerStarted:
		return ScannerStarted{}
	case gbms.EventValidFrameAcquired:
		return FrameAcquired{
			Frame:       raw.Frame,
			Width:       raw.Width,
			Height:      raw.Height,
			CurrentRate: raw.CurrentRate,
			NominalRate: raw.NominalRate,
			Diagnostic:  raw.Diagnostic,
		}
	case gbms.EventPreviewPhaseEnd:
		return PreviewEnded{}
	case gbms.EventAcquisitionEnd:
		return AcquisitionEnded{
			Info:       raw.Info,
			Frame:      raw.Frame,
			Width:      raw.Width,
			Height:     raw.Height,
			Diagnostic: raw.Diagnostic,
		}
	case gbms.EventAcquisitionError:
		return AcquisitionFailed{FrameError: raw.FrameError}
	default:
		return Unhandled{Code: raw.Code}
	}
}
