package gbms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventInfoNames(t *testing.T) {
	info := InfoAcquisitionPhase | InfoISO19794_2_2005
	assert.Equal(t, []string{"ACQUISITION_PHASE", "IS_ISO_TEMPLATE"}, info.Names())
	assert.Equal(t, "ACQUISITION_PHASE, IS_ISO_TEMPLATE", info.String())
	assert.Equal(t, "none", EventInfo(0).String())
}

func TestEventCodeString(t *testing.T) {
	assert.Equal(t, "ACQUISITION_END", EventAcquisitionEnd.String())
	assert.Equal(t, "EVENT(42)", EventCode(42).String())
}

func TestLookupObject(t *testing.T) {
	assert.Equal(t, FlatRightIndex, LookupObject("FLAT_RIGHT_INDEX"))
	assert.Equal(t, FlatRightIndex, LookupObject(" flat_right_index "))
	assert.Equal(t, NoObject, LookupObject("LEFT_EAR"))
	assert.Contains(t, ObjectNames(), "ROLL_LEFT_INDEX")

	assert.True(t, TypeOf(FlatRightIndex).IsFlat())
	assert.True(t, TypeOf(FlatSlapLeft).IsFlat())
	assert.False(t, TypeOf(RollRightIndex).IsFlat())
	assert.False(t, TypeOf(NoObject).IsFlat())
}

func TestDeviceInfo(t *testing.T) {
	d := DeviceInfo{ID: DeviceMC517, Serial: []byte("SN123\x00\x00\x00")}
	assert.Equal(t, "SN123", d.SerialString())
	assert.Equal(t, "MC517", d.ID.String())
	assert.Equal(t, "Unknown Device", DeviceID(250).String())
}
