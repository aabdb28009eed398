package gbms

import (
	"bytes"
	"strings"
)

// DeviceID is the vendor model identifier of a scanner.
type DeviceID byte

const (
	DeviceDS84 DeviceID = iota + 1
	DeviceDS84t
	DeviceDSID20
	DeviceMS1000
	DeviceVS3
	DevicePS2
	DeviceDS40
	DeviceDS40I
	DeviceDS26
	DeviceMS500
	DeviceMSC500
	DeviceDS84C
	DeviceMC517
	DeviceMSC517
	DeviceDS32
	DeviceMS527
	DeviceMS527t
	DeviceMS1027
	DeviceCS500F
	DeviceCS500Q
	DeviceCSTFT50
	DeviceCSD101
	DeviceCS1000Q
	DeviceDS40p
	DeviceDS32p
	DeviceCSNova
	DeviceCSD201
	DeviceDS84CV2
	DeviceDS84tV2
	DeviceCS500FV2
	DeviceCS1000s
)

var deviceNames = map[DeviceID]string{
	DeviceDS84:     "DactyScan84",
	DeviceDS84t:    "DactyScan84t",
	DeviceDSID20:   "DactyID20",
	DeviceMS1000:   "MultiScan1000",
	DeviceVS3:      "Visascan3",
	DevicePS2:      "Poliscan2",
	DeviceDS40:     "DactyScan40",
	DeviceDS40I:    "DactyScan40I",
	DeviceDS26:     "DactyScan26",
	DeviceMS500:    "MC500",
	DeviceMSC500:   "MSC500",
	DeviceDS84C:    "DactyScan84C",
	DeviceMC517:    "MC517",
	DeviceMSC517:   "MSC517",
	DeviceDS32:     "DactyScanS32",
	DeviceMS527:    "MS527",
	DeviceMS527t:   "MS527t",
	DeviceMS1027:   "MS1027",
	DeviceCS500F:   "CS500F",
	DeviceCS500Q:   "CS500Q",
	DeviceCSTFT50:  "CSTFT50",
	DeviceCSD101:   "CSD101",
	DeviceCS1000Q:  "CS1000Q",
	DeviceDS40p:    "DS40p",
	DeviceDS32p:    "DS32p",
	DeviceCSNova:   "Nova",
	DeviceCSD201:   "CSD201",
	DeviceDS84CV2:  "DS84C_V2",
	DeviceDS84tV2:  "DS84t_V2",
	DeviceCS500FV2: "CS500F_V2",
	DeviceCS1000s:  "CS1000s",
}

func (id DeviceID) String() string {
	if n, ok := deviceNames[id]; ok {
		return n
	}
	return "Unknown Device"
}

// MaxPluggedDevices bounds the attached device list.
const MaxPluggedDevices = 127

// DeviceInfo is one entry of the attached device list. The serial number is
// a fixed-size, NUL padded buffer as returned by the SDK.
type DeviceInfo struct {
	ID     DeviceID `cbor:"id"`
	Serial []byte   `cbor:"serial"`
}

// SerialString trims the NUL padding of the serial number buffer.
func (d DeviceInfo) SerialString() string {
	s := d.Serial
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(string(s))
}
