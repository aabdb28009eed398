package gbms

// RawEvent carries the arguments of one SDK acquisition callback. Frame
// aliases SDK-owned memory and is only valid for the duration of the
// callback; consumers copy what they keep.
type RawEvent struct {
	Code        EventCode  `cbor:"code"`
	FrameError  int        `cbor:"frame_error"`
	Info        EventInfo  `cbor:"info"`
	Frame       []byte     `cbor:"frame,omitempty"`
	Width       int        `cbor:"width"`
	Height      int        `cbor:"height"`
	CurrentRate float64    `cbor:"current_rate"`
	NominalRate float64    `cbor:"nominal_rate"`
	Diagnostic  Diagnostic `cbor:"diagnostic"`
	UserData    any        `cbor:"-"`
}

// HasFrame reports whether the event points at frame data with positive
// dimensions.
func (e RawEvent) HasFrame() bool {
	return e.Frame != nil && e.Width > 0 && e.Height > 0
}

// Callback receives acquisition events, possibly on an SDK-owned goroutine.
// It returns false when the event could not be processed.
type Callback func(ev RawEvent) bool

// Device is the acquisition surface of the SDK. Methods returning int
// report a raw SDK result code.
type Device interface {
	ObjectToScanFromString(name string) ScanObject
	ObjectType(obj ScanObject) ObjectType

	StartAcquisition(obj ScanObject, opts AcquisitionOptions, cb Callback) int
	StopAcquisition()

	SetSelectImageTimeout(ms int) int
	SetMembraneUsageForFakeFingerDetection(enable bool) int
	EnableAutoCaptureBlockForDetectedFakes(enable bool) int
	SetLEDBlinkDuringAcquisition(enable bool) int
	SetAutoCaptureBlocking(enable bool) int

	GetFingerprintContrast() byte
	GetTemplateBufferSize() int
	// GetIso19794Template fills buf and returns the result code and the
	// number of bytes written.
	GetIso19794Template(buf []byte) (int, int)
	ImageFinalization(frame []byte)
}

// Library is the device discovery and configuration surface of the SDK.
type Library interface {
	LoadLibrary() int
	Version() [4]byte
	AttachedDevices() ([]DeviceInfo, int)
	SetCurrentDevice(id DeviceID, serial string) int
	DeviceFeatures() (uint32, int)
	SupportedScanOptions() (uint32, int)
	ScannableTypes() (uint32, int)
	FlatAutoCaptureModeIsSupported(mode FlatAutoCaptureMode) (bool, int)
	SetFlatAutoCaptureMode(mode FlatAutoCaptureMode) int
}

// SDK is the full vendor surface.
type SDK interface {
	Library
	Device
}
