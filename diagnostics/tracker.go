// Package diagnostics turns scanner diagnostic masks into the user-facing
// conditions seen during a capture session.
package diagnostics

import (
	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/jtejido/gbmscapture/gbms"
)

// Diagnostic labels.
const (
	DirtySurface      = "dirty scanner surface"
	IlluminatorFailed = "illuminator failure"
	DryFinger         = "dry finger"
	WetFinger         = "wet finger"
	AmbientLight      = "excessive ambient light"
)

var labels = []struct {
	bit   gbms.Diagnostic
	label string
}{
	{gbms.DiagScannerSurfaceNotNormal, DirtySurface},
	{gbms.DiagScannerFailure, IlluminatorFailed},
	{gbms.DiagDryFinger, DryFinger},
	{gbms.DiagWetFinger, WetFinger},
	{gbms.DiagExtLightTooStrong, AmbientLight},
}

// Labels returns the labels of the recognized bits set in mask.
func Labels(mask gbms.Diagnostic) []string {
	var out []string
	for _, l := range labels {
		if mask.Has(l.bit) {
			out = append(out, l.label)
		}
	}
	return out
}

// Tracker accumulates the distinct diagnostics of one session in the order
// they were first seen. It is not safe for concurrent use.
type Tracker struct {
	seen *linkedhashset.Set
}

func NewTracker() *Tracker {
	return &Tracker{seen: linkedhashset.New()}
}

// Observe records the diagnostics in mask and returns those not seen before.
func (t *Tracker) Observe(mask gbms.Diagnostic) []string {
	var fresh []string
	for _, l := range Labels(mask) {
		if !t.seen.Contains(l) {
			t.seen.Add(l)
			fresh = append(fresh, l)
		}
	}
	return fresh
}

// Labels returns everything observed so far.
func (t *Tracker) Labels() []string {
	out := make([]string, 0, t.seen.Size())
	for _, v := range t.seen.Values() {
		out = append(out, v.(string))
	}
	return out
}

func (t *Tracker) Reset() { t.seen.Clear() }

// ShouldBlink reports whether the scanner LED should blink for mask. Roll
// guidance bits alone never cause a blink.
func ShouldBlink(mask gbms.Diagnostic) bool {
	return mask&^gbms.DiagRollDirections != 0
}

// Acceptable reports whether a final image taken with mask may be finalized:
// neither the illuminator nor the scanner surface may be reported faulty.
func Acceptable(mask gbms.Diagnostic) bool {
	return !mask.Has(gbms.DiagScannerFailure | gbms.DiagScannerSurfaceNotNormal)
}
