package acquisition

// State is the phase of a capture session.
type State int

const (
	Idle State = iota
	Preview
	Acquisition
	ScannerStart
	ScannerError
	AcquisitionEnd
)

var stateLabels = [...]string{
	Idle:           "IDLE",
	Preview:        "PREVIEW",
	Acquisition:    "ACQUISITION",
	ScannerStart:   "SCANNER START",
	ScannerError:   "ERROR",
	AcquisitionEnd: "ACQUISITION END",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateLabels) {
		return "UNKNOWN"
	}
	return stateLabels[s]
}

// Terminal reports whether s is one the poller settles back to Idle.
func (s State) Terminal() bool {
	return s == AcquisitionEnd || s == ScannerError
}
