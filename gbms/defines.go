// Package gbms is the boundary to the Green Bit multi-scan SDK. It carries
// the vendor constant space as typed values, the SDK surface the capture
// core depends on, and a scripted Simulator device.
package gbms

import (
	"strconv"
	"strings"
)

// Result is a raw SDK result code; ResultOK is success.
const ResultOK = 0

// EventCode identifies an acquisition callback event.
type EventCode int

const (
	EventScannerStarted      EventCode = 1
	EventValidFrameAcquired  EventCode = 2
	EventPreviewPhaseEnd     EventCode = 3
	EventAcquisitionEnd      EventCode = 4
	EventAcquisitionError    EventCode = 5
	EventInvalidFrame        EventCode = 6
	EventFinalizationStarted EventCode = 7
)

var eventNames = map[EventCode]string{
	EventScannerStarted:      "SCANNER_STARTED",
	EventValidFrameAcquired:  "VALID_FRAME_ACQUIRED",
	EventPreviewPhaseEnd:     "PREVIEW_PHASE_END",
	EventAcquisitionEnd:      "ACQUISITION_END",
	EventAcquisitionError:    "ACQUISITION_ERROR",
	EventInvalidFrame:        "INVALID_FRAME_ACQUIRED",
	EventFinalizationStarted: "FINALIZATION_STARTED",
}

func (e EventCode) String() string {
	if n, ok := eventNames[e]; ok {
		return n
	}
	return "EVENT(" + strconv.Itoa(int(e)) + ")"
}

// EventInfo is the bit set delivered with each event.
type EventInfo uint32

const (
	InfoAcquisitionPhase     EventInfo = 0x0001
	InfoStopType             EventInfo = 0x0002
	InfoPreviewRes           EventInfo = 0x0004
	InfoAcquisitionTimeout   EventInfo = 0x0008
	InfoEncryptedFrameAES256 EventInfo = 0x0010
	InfoISO19794_2_2005      EventInfo = 0x0020
	InfoFrameNotPresent      EventInfo = 0x0040
)

var infoNames = []struct {
	flag EventInfo
	name string
}{
	{InfoAcquisitionPhase, "ACQUISITION_PHASE"},
	{InfoStopType, "STOP_TYPE"},
	{InfoPreviewRes, "PREVIEW_RES"},
	{InfoAcquisitionTimeout, "ACQUISITION_TIMEOUT"},
	{InfoEncryptedFrameAES256, "ENCRYPTED_FRAME_AES_256"},
	{InfoISO19794_2_2005, "IS_ISO_TEMPLATE"},
	{InfoFrameNotPresent, "FRAME_NOT_PRESENT"},
}

func (i EventInfo) Has(flag EventInfo) bool { return i&flag != 0 }

// Names lists the set flags in declaration order.
func (i EventInfo) Names() []string {
	var names []string
	for _, f := range infoNames {
		if i.Has(f.flag) {
			names = append(names, f.name)
		}
	}
	return names
}

func (i EventInfo) String() string {
	names := i.Names()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// Diagnostic is the diagnostic bit mask reported with frames.
type Diagnostic uint32

const (
	DiagScannerSurfaceNotNormal Diagnostic = 0x00000001
	DiagScannerFailure          Diagnostic = 0x00000002
	DiagDryFinger               Diagnostic = 0x00000004
	DiagWetFinger               Diagnostic = 0x00000008
	DiagExtLightTooStrong       Diagnostic = 0x00000010
	DiagFakeFinger              Diagnostic = 0x00000020
	DiagFingerDisplaced         Diagnostic = 0x00000040
	DiagTooFast                 Diagnostic = 0x00000080
	DiagRollDirectionLeft       Diagnostic = 0x00010000
	DiagRollDirectionRight      Diagnostic = 0x00020000
	DiagRollDirectionUp         Diagnostic = 0x00040000
	DiagRollDirectionDown       Diagnostic = 0x00080000
)

// DiagRollDirections groups the roll guidance bits.
const DiagRollDirections = DiagRollDirectionLeft | DiagRollDirectionRight |
	DiagRollDirectionUp | DiagRollDirectionDown

func (d Diagnostic) Has(flag Diagnostic) bool { return d&flag != 0 }

// AcquisitionOptions is the option mask passed to StartAcquisition.
type AcquisitionOptions uint32

const (
	OptionAutoCapture      AcquisitionOptions = 0x0001
	OptionFullResPreview   AcquisitionOptions = 0x0002
	OptionRollPreview      AcquisitionOptions = 0x0004
	OptionNoRollPreview    AcquisitionOptions = 0x0008
	OptionAdaptRollArea    AcquisitionOptions = 0x0010
	OptionHighSpeedPreview AcquisitionOptions = 0x0020
)

func (o AcquisitionOptions) Has(flag AcquisitionOptions) bool { return o&flag != 0 }

// FlatAutoCaptureMode selects how flat auto-capture previews frames.
type FlatAutoCaptureMode int

const (
	FlatAutoCaptureDefault           FlatAutoCaptureMode = 0
	FlatAutoCaptureObfuscatedPreview FlatAutoCaptureMode = 1
)
