package gbms

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Step is one scripted callback: after Delay the device reports Contrast and
// delivers Event.
type Step struct {
	Delay    time.Duration `cbor:"delay"`
	Contrast byte          `cbor:"contrast"`
	Event    RawEvent      `cbor:"event"`
}

// Script describes a whole simulated session, from SDK load to the terminal
// event. Scripts are stored as CBOR.
type Script struct {
	LoadResult     int          `cbor:"load_result"`
	Devices        []DeviceInfo `cbor:"devices"`
	StartResult    int          `cbor:"start_result"`
	Template       []byte       `cbor:"template,omitempty"`
	TemplateResult int          `cbor:"template_result"`
	Steps          []Step       `cbor:"steps"`
}

// Encode writes s as CBOR.
func (s *Script) Encode(w io.Writer) error {
	return cbor.NewEncoder(w).Encode(s)
}

// DecodeScript reads a CBOR encoded script.
func DecodeScript(r io.Reader) (*Script, error) {
	var s Script
	if err := cbor.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}
	return &s, nil
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	return DecodeScript(f)
}

// Save writes s to path, replacing any existing file.
func (s *Script) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create script: %w", err)
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode script: %w", err)
	}
	return f.Close()
}

const (
	demoWidth  = 64
	demoHeight = 64
)

// DefaultScript is the demo session used by mock mode: the scanner starts,
// a finger is placed with rising contrast, and the acquisition ends with an
// ISO 19794-2 template.
func DefaultScript() *Script {
	return &Script{
		Devices:  []DeviceInfo{{ID: DeviceDS84C, Serial: []byte("GB-DEMO-0001\x00\x00\x00\x00")}},
		Template: demoTemplate(),
		Steps: []Step{
			{Delay: 50 * time.Millisecond, Event: RawEvent{Code: EventScannerStarted}},
			{Delay: 150 * time.Millisecond, Event: demoFrame(0)},
			{Delay: 150 * time.Millisecond, Contrast: 40, Event: demoFrame(DiagDryFinger)},
			{Delay: 150 * time.Millisecond, Contrast: 80, Event: demoFrame(0)},
			{Delay: 50 * time.Millisecond, Event: RawEvent{Code: EventPreviewPhaseEnd, Info: InfoAcquisitionPhase}},
			{Delay: 200 * time.Millisecond, Contrast: 80, Event: RawEvent{
				Code:   EventAcquisitionEnd,
				Info:   InfoAcquisitionPhase | InfoISO19794_2_2005,
				Frame:  demoPixels(),
				Width:  demoWidth,
				Height: demoHeight,
			}},
		},
	}
}

func demoFrame(diag Diagnostic) RawEvent {
	return RawEvent{
		Code:        EventValidFrameAcquired,
		Frame:       demoPixels(),
		Width:       demoWidth,
		Height:      demoHeight,
		CurrentRate: 15,
		NominalRate: 15,
		Diagnostic:  diag,
	}
}

// demoPixels draws concentric ridges so exported frames look like a print.
func demoPixels() []byte {
	px := make([]byte, demoWidth*demoHeight)
	for y := 0; y < demoHeight; y++ {
		for x := 0; x < demoWidth; x++ {
			dx, dy := x-demoWidth/2, y-demoHeight/2
			if (dx*dx+dy*dy)/24%2 == 0 {
				px[y*demoWidth+x] = 0x30
			} else {
				px[y*demoWidth+x] = 0xd0
			}
		}
	}
	return px
}

// demoTemplate builds a small minutiae record with a two byte length field.
func demoTemplate() []byte {
	minutiae := [][3]uint16{{0x4010, 0x0020, 0x40}, {0x4018, 0x0028, 0x80}, {0x8022, 0x0031, 0x10}}
	b := make([]byte, 0, 64)
	b = append(b, 'F', 'M', 'R', 0, ' ', '2', '0', 0)
	b = append(b, 0, 0)                     // record length, patched below
	b = binary.BigEndian.AppendUint16(b, 0) // product owner
	b = binary.BigEndian.AppendUint16(b, 0) // product type
	b = binary.BigEndian.AppendUint16(b, 0) // capture equipment
	b = binary.BigEndian.AppendUint16(b, demoWidth)
	b = binary.BigEndian.AppendUint16(b, demoHeight)
	b = binary.BigEndian.AppendUint16(b, 197)
	b = binary.BigEndian.AppendUint16(b, 197)
	b = append(b, 1, 0) // one finger view
	b = append(b, 2, 0, 80, byte(len(minutiae)))
	for _, m := range minutiae {
		b = binary.BigEndian.AppendUint16(b, m[0])
		b = binary.BigEndian.AppendUint16(b, m[1])
		b = append(b, byte(m[2]), 60)
	}
	b = binary.BigEndian.AppendUint16(b, 0) // extended data length
	binary.BigEndian.PutUint16(b[8:], uint16(len(b)))
	return b
}
