// Package device loads the scanner SDK and selects the scanner that capture
// sessions run on.
package device

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jtejido/gbmscapture/errcode"
	"github.com/jtejido/gbmscapture/gbms"
)

const notAvailable = "NOT AVAILABLE"

// Context identifies the selected scanner and what it supports. It outlives
// capture sessions.
type Context struct {
	ID                gbms.DeviceID
	Type              string
	Serial            string
	Features          uint32
	ScanOptions       gbms.AcquisitionOptions
	ScannableTypes    gbms.ObjectType
	ObfuscatedPreview bool
}

// Supports reports whether the scanner can scan objects of type t.
func (c Context) Supports(t gbms.ObjectType) bool {
	return c.ScannableTypes&t != 0
}

func emptyContext() Context {
	return Context{Type: notAvailable, Serial: notAvailable}
}

type Initializer struct {
	lib gbms.Library
	log *slog.Logger
	ctx Context
}

func NewInitializer(lib gbms.Library, log *slog.Logger) *Initializer {
	if log == nil {
		log = slog.Default()
	}
	return &Initializer{
		lib: lib,
		log: log.With("component", "device"),
		ctx: emptyContext(),
	}
}

// Context returns the last successfully initialized device, or a context
// with type and serial "NOT AVAILABLE".
func (i *Initializer) Context() Context { return i.ctx }

// Initialize loads the SDK, enumerates attached scanners and configures the
// first one. Domain failures are returned as errcode values; anything else
// is wrapped as INTERNAL_ERROR.
func (i *Initializer) Initialize() (Context, error) {
	i.log.Info("initializing scanner SDK")
	i.ctx = emptyContext()

	ctx, err := i.initialize()
	if err != nil {
		var code errcode.Code
		if !errors.As(err, &code) {
			err = errcode.Wrap(errcode.InternalError, err)
		}
		i.log.Error("scanner initialization failed", "error", err)
		return emptyContext(), err
	}
	i.ctx = ctx
	i.log.Info("scanner initialized", "type", ctx.Type, "serial", ctx.Serial)
	return ctx, nil
}

func (i *Initializer) initialize() (Context, error) {
	if err := errcode.Check(i.lib.LoadLibrary()); err != nil {
		return Context{}, err
	}
	v := i.lib.Version()
	i.log.Info("SDK loaded", "version", fmt.Sprintf("%d.%d.%d.%d", v[0], v[1], v[2], v[3]))

	devices, res := i.lib.AttachedDevices()
	if err := errcode.Check(res); err != nil {
		return Context{}, err
	}
	if len(devices) == 0 {
		return Context{}, errcode.NoDevicesFound
	}
	if len(devices) > gbms.MaxPluggedDevices {
		devices = devices[:gbms.MaxPluggedDevices]
	}
	i.log.Info("scanners detected", "count", len(devices))
	for n, d := range devices {
		i.log.Info("scanner", "index", n, "type", d.ID.String(), "serial", d.SerialString())
	}

	return i.setup(devices[0])
}

func (i *Initializer) setup(d gbms.DeviceInfo) (Context, error) {
	ctx := Context{ID: d.ID, Type: d.ID.String(), Serial: d.SerialString()}

	if err := errcode.Check(i.lib.SetCurrentDevice(d.ID, ctx.Serial)); err != nil {
		return Context{}, err
	}

	features, res := i.lib.DeviceFeatures()
	if err := errcode.Check(res); err != nil {
		return Context{}, err
	}
	ctx.Features = features

	opts, res := i.lib.SupportedScanOptions()
	if err := errcode.Check(res); err != nil {
		return Context{}, err
	}
	ctx.ScanOptions = gbms.AcquisitionOptions(opts)

	types, res := i.lib.ScannableTypes()
	if err := errcode.Check(res); err != nil {
		return Context{}, err
	}
	ctx.ScannableTypes = gbms.ObjectType(types)

	supported, res := i.lib.FlatAutoCaptureModeIsSupported(gbms.FlatAutoCaptureObfuscatedPreview)
	if err := errcode.Check(res); err != nil {
		return Context{}, err
	}
	ctx.ObfuscatedPreview = supported
	if supported {
		res := i.lib.SetFlatAutoCaptureMode(gbms.FlatAutoCaptureObfuscatedPreview)
		i.log.Info("obfuscated preview enabled", "result", res)
	}
	return ctx, nil
}
