package device

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtejido/gbmscapture/errcode"
	"github.com/jtejido/gbmscapture/gbms"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestInitializeSelectsFirstDevice(t *testing.T) {
	script := gbms.DefaultScript()
	script.Devices = append(script.Devices, gbms.DeviceInfo{ID: gbms.DeviceMC517, Serial: []byte("SECOND")})
	sim := gbms.NewSimulator(script)

	in := NewInitializer(sim, quiet())
	ctx, err := in.Initialize()
	require.NoError(t, err)

	assert.Equal(t, gbms.DeviceDS84C, ctx.ID)
	assert.Equal(t, gbms.DeviceDS84C.String(), ctx.Type)
	assert.Equal(t, "GB-DEMO-0001", ctx.Serial)
	assert.True(t, ctx.ScanOptions.Has(gbms.OptionAutoCapture))
	assert.True(t, ctx.Supports(gbms.TypeFlatSingleFinger))
	assert.True(t, ctx.ObfuscatedPreview)
	assert.Equal(t, ctx, in.Context())

	calls := sim.Calls()
	assert.Equal(t, gbms.DeviceDS84C, calls.CurrentDevice)
	assert.Equal(t, gbms.FlatAutoCaptureObfuscatedPreview, calls.FlatMode)
}

func TestInitializeNoDevices(t *testing.T) {
	in := NewInitializer(gbms.NewSimulator(&gbms.Script{}), quiet())
	ctx, err := in.Initialize()
	assert.ErrorIs(t, err, errcode.NoDevicesFound)
	assert.Equal(t, notAvailable, ctx.Type)
	assert.Equal(t, notAvailable, in.Context().Serial)
}

func TestInitializeLibraryMissing(t *testing.T) {
	_, err := NewInitializer(gbms.Native(), quiet()).Initialize()
	assert.ErrorIs(t, err, errcode.SpecificDLLNotLoaded)
	assert.Equal(t, errcode.SpecificDLLNotLoaded, errcode.As(err))
}

func TestInitializeLoadFailure(t *testing.T) {
	script := gbms.DefaultScript()
	script.LoadResult = int(errcode.USBDriver)
	_, err := NewInitializer(gbms.NewSimulator(script), quiet()).Initialize()
	assert.ErrorIs(t, err, errcode.USBDriver)
}

func TestInitializeUnknownSerial(t *testing.T) {
	// SetCurrentDevice fails when the serial does not match a plugged device.
	sim := gbms.NewSimulator(gbms.DefaultScript())
	_, err := NewInitializer(&serialMangler{sim}, quiet()).Initialize()
	assert.ErrorIs(t, err, errcode.DeviceNotFound)
}

type serialMangler struct {
	*gbms.Simulator
}

func (m *serialMangler) SetCurrentDevice(id gbms.DeviceID, serial string) int {
	return m.Simulator.SetCurrentDevice(id, serial+"-X")
}
