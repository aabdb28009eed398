package gbms

// resultSpecificDLLNotLoaded is the SDK result reported when the vendor
// library is missing.
const resultSpecificDLLNotLoaded = 30

// Native returns the vendor SDK binding. Builds without the vendor library
// get a binding whose every call fails as if the scanner DLL could not be
// loaded.
func Native() SDK { return unavailable{} }

type unavailable struct{}

func (unavailable) LoadLibrary() int { return resultSpecificDLLNotLoaded }
func (unavailable) Version() [4]byte { return [4]byte{} }
func (unavailable) AttachedDevices() ([]DeviceInfo, int) {
	return nil, resultSpecificDLLNotLoaded
}
func (unavailable) SetCurrentDevice(DeviceID, string) int { return resultSpecificDLLNotLoaded }
func (unavailable) DeviceFeatures() (uint32, int)         { return 0, resultSpecificDLLNotLoaded }
func (unavailable) SupportedScanOptions() (uint32, int)   { return 0, resultSpecificDLLNotLoaded }
func (unavailable) ScannableTypes() (uint32, int)         { return 0, resultSpecificDLLNotLoaded }
func (unavailable) FlatAutoCaptureModeIsSupported(FlatAutoCaptureMode) (bool, int) {
	return false, resultSpecificDLLNotLoaded
}
func (unavailable) SetFlatAutoCaptureMode(FlatAutoCaptureMode) int {
	return resultSpecificDLLNotLoaded
}

func (unavailable) ObjectToScanFromString(name string) ScanObject { return LookupObject(name) }
func (unavailable) ObjectType(obj ScanObject) ObjectType          { return TypeOf(obj) }
func (unavailable) StartAcquisition(ScanObject, AcquisitionOptions, Callback) int {
	return resultSpecificDLLNotLoaded
}
func (unavailable) StopAcquisition()              {}
func (unavailable) SetSelectImageTimeout(int) int { return resultSpecificDLLNotLoaded }
func (unavailable) SetMembraneUsageForFakeFingerDetection(bool) int {
	return resultSpecificDLLNotLoaded
}
func (unavailable) EnableAutoCaptureBlockForDetectedFakes(bool) int {
	return resultSpecificDLLNotLoaded
}
func (unavailable) SetLEDBlinkDuringAcquisition(bool) int { return resultSpecificDLLNotLoaded }
func (unavailable) SetAutoCaptureBlocking(bool) int       { return resultSpecificDLLNotLoaded }
func (unavailable) GetFingerprintContrast() byte          { return 0 }
func (unavailable) GetTemplateBufferSize() int            { return 0 }
func (unavailable) GetIso19794Template([]byte) (int, int) { return resultSpecificDLLNotLoaded, 0 }
func (unavailable) ImageFinalization([]byte)              {}
