package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/jtejido/gbmscapture/config"
	"github.com/jtejido/gbmscapture/errcode"
	"github.com/jtejido/gbmscapture/gbms"
)

// writeResult prints the result document as indented JSON.
func writeResult(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func exitCode(ok bool) int {
	if ok {
		return 0
	}
	return 1
}

func mkdirFor(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return nil
}

// openSDK returns the simulated scanner in mock mode and the vendor binding
// otherwise.
func openSDK(cfg *config.Config) (gbms.SDK, error) {
	if !cfg.Mock.Enabled {
		return gbms.Native(), nil
	}
	if cfg.Mock.Script == "" {
		return gbms.NewSimulator(nil), nil
	}
	script, err := gbms.LoadScript(cfg.Mock.Script)
	if err != nil {
		return nil, err
	}
	return gbms.NewSimulator(script), nil
}

// httpStatus maps a capture error onto a response status.
func httpStatus(code errcode.Code) int {
	switch code {
	case errcode.AcquisitionTimeout:
		return fiber.StatusGatewayTimeout
	case errcode.NoDevicesFound,
		errcode.DeviceNotFound,
		errcode.USBDriver,
		errcode.DeviceNotResponding,
		errcode.DeviceLocked,
		errcode.SpecificDLLNotLoaded:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
