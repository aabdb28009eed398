// Package errcode holds the closed set of acquisition error codes and the
// tables that translate vendor result codes and user-facing messages.
package errcode

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Code is a domain error code. Internal codes are negative; vendor codes keep
// the numeric value the scanner SDK reports.
type Code int

// Session and internal errors.
const (
	InternalError      Code = -1
	NoDevicesFound     Code = -10
	Unknown            Code = -11
	AcquisitionTimeout Code = -20
	NoFingerprint      Code = -30
)

// Vendor SDK result codes.
const (
	NoError                  Code = 0
	USBDriver                Code = 1
	DeviceNotFound           Code = 2
	USBThread                Code = 3
	Parameter                Code = 4
	ScannerNotConfigured     Code = 5
	DeviceNotResponding      Code = 6
	ScannerCommunication     Code = 7
	UnavailableOption        Code = 8
	Internal                 Code = 9
	USBFullSpeedNotSupported Code = 10
	DeviceLocked             Code = 11
	SpecificDLLNotLoaded     Code = 30
	MethodNotSupported       Code = 31
	ObjectTypeNotSupported   Code = 32
	ScanAreaNotSupported     Code = 33
	AcquisitionThread        Code = 34
	AcquisitionStarted       Code = 35
	FeatureNotSupported      Code = 36
	CurrentDevNotSet         Code = 37
	MemoryAllocation         Code = 38
	Generic                  Code = 39
	OutsideAcquisition       Code = 40
	FakeFingerDetected       Code = 41
	Exception                Code = 255
)

type info struct {
	name        string
	description string
	vendor      bool
}

var codes = map[Code]info{
	InternalError:      {"INTERNAL_ERROR", "Unexpected internal error", false},
	NoDevicesFound:     {"INIT_NO_DEVICES_FOUND", "No Green Bit devices detected", false},
	Unknown:            {"UNKNOWN", "Unknown error", false},
	AcquisitionTimeout: {"ACQUISITION_TIMEOUT", "Acquisition timeout", false},
	NoFingerprint:      {"NO_FINGERPRINT", "No Fingerprint", false},

	NoError:                  {"NO_ERROR", "No error", true},
	USBDriver:                {"USB_DRIVER", "USB driver error", true},
	DeviceNotFound:           {"DEVICE_NOT_FOUND", "Device not found", true},
	USBThread:                {"USB_THREAD", "USB thread error", true},
	Parameter:                {"PARAMETER", "Invalid parameter", true},
	ScannerNotConfigured:     {"SCANNER_NOT_CONFIGURED", "Scanner not configured", true},
	DeviceNotResponding:      {"DEVICE_NOT_RESPONDING", "Device not responding", true},
	ScannerCommunication:     {"SCANNER_COMMUNICATION", "Scanner communication error", true},
	UnavailableOption:        {"UNAVAILABLE_OPTION", "Unavailable option", true},
	Internal:                 {"INTERNAL", "Internal error", true},
	USBFullSpeedNotSupported: {"USB_FULLSPEED_NOT_SUPPORTED", "USB 1.1 not supported", true},
	DeviceLocked:             {"DEVICE_LOCKED", "Device locked", true},
	SpecificDLLNotLoaded:     {"SPECIFIC_DLL_NOT_LOADED", "Specific DLL not loaded", true},
	MethodNotSupported:       {"METHOD_NOT_SUPPORTED", "Method not supported", true},
	ObjectTypeNotSupported:   {"OBJECT_TYPE_NOT_SUPPORTED", "Object type not supported", true},
	ScanAreaNotSupported:     {"SCAN_AREA_NOT_SUPPORTED", "Scan area not supported", true},
	AcquisitionThread:        {"ACQUISITION_THREAD", "Acquisition thread error", true},
	AcquisitionStarted:       {"ACQUISITION_ALREADY_STARTED", "Acquisition already started", true},
	FeatureNotSupported:      {"FEATURE_NOT_SUPPORTED", "Feature not supported", true},
	CurrentDevNotSet:         {"CURRENT_DEV_NOT_SET", "Current device not set", true},
	MemoryAllocation:         {"MEMORY_ALLOCATION", "Memory allocation failed", true},
	Generic:                  {"GENERIC", "Generic error", true},
	OutsideAcquisition:       {"OUTSIDE_ACQUISITION", "Called outside acquisition context", true},
	FakeFingerDetected:       {"NOT_ALLOWED_FAKE_FINGER_DETECTED", "Fake finger detected - not allowed", true},
	Exception:                {"EXCEPTION", "Exception occurred in GBMSAPI library", true},
}

// Codes returns every known code in ascending numeric order.
func Codes() []Code {
	all := maps.Keys(codes)
	slices.Sort(all)
	return all
}

// Known reports whether c is part of the closed code set.
func (c Code) Known() bool {
	_, ok := codes[c]
	return ok
}

// Vendor reports whether c belongs to the scanner SDK result space.
func (c Code) Vendor() bool {
	return codes[c].vendor
}

// Name is the stable upper-case identifier, e.g. ACQUISITION_TIMEOUT.
func (c Code) Name() string {
	if i, ok := codes[c]; ok {
		return i.name
	}
	return "UNKNOWN"
}

// Description is the English technical description of the code.
func (c Code) Description() string {
	if i, ok := codes[c]; ok {
		return i.description
	}
	return fmt.Sprintf("Unrecognized error code %d", int(c))
}

func (c Code) String() string { return c.Name() }

// Error makes a Code usable directly as an error value.
func (c Code) Error() string { return c.Description() }

// FromResult maps a raw result onto a Code. Any value in the table maps to
// itself, so a negative session code such as -20 comes back as
// AcquisitionTimeout; everything else maps to Generic.
func FromResult(result int) Code {
	c := Code(result)
	if _, ok := codes[c]; ok {
		return c
	}
	return Generic
}

// Check returns nil for a successful SDK result and the translated Code
// otherwise.
func Check(result int) error {
	if Code(result) == NoError {
		return nil
	}
	return FromResult(result)
}
