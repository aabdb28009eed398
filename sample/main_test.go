package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jtejido/go-wsq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtejido/gbmscapture/acquisition"
	"github.com/jtejido/gbmscapture/config"
	"github.com/jtejido/gbmscapture/errcode"
	"github.com/jtejido/gbmscapture/frame"
	"github.com/jtejido/gbmscapture/gbms"
)

func instantScript() *gbms.Script {
	s := gbms.DefaultScript()
	for i := range s.Steps {
		s.Steps[i].Delay = 0
	}
	return s
}

func newTestScanner(t *testing.T, cfg *config.Config, script *gbms.Script) *scanner {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.Mock.Enabled = true
	return newScanner(cfg, gbms.NewSimulator(script), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRespond(t *testing.T) {
	s := newTestScanner(t, nil, nil)

	doc, ok := s.respond(acquisition.Result{Template: []byte{1, 2, 3}}, nil)
	assert.True(t, ok)
	assert.Equal(t, ResponseOk{Fingerprint: "AQID"}, doc)

	doc, ok = s.respond(acquisition.Result{}, nil)
	assert.False(t, ok)
	assert.Equal(t, ResponseError{Error: errcode.UserMessage(errcode.NoFingerprint)}, doc)

	doc, ok = s.respond(acquisition.Result{}, errcode.AcquisitionTimeout)
	assert.False(t, ok)
	require.IsType(t, ResponseError{}, doc)
	assert.Contains(t, doc.(ResponseError).Error, "(ACQUISITION_TIMEOUT), error code: -20")

	doc, _ = s.respond(acquisition.Result{}, io.ErrUnexpectedEOF)
	assert.Contains(t, doc.(ResponseError).Error, "(INTERNAL_ERROR), error code: -1")
}

func TestRespondLocalized(t *testing.T) {
	cfg := config.Default()
	cfg.Capture.Locale = "es"
	s := newTestScanner(t, cfg, nil)

	doc, _ := s.respond(acquisition.Result{}, errcode.DeviceLocked)
	assert.Equal(t, "El dispositivo esta bloqueado (DEVICE_LOCKED), error code: 11", doc.(ResponseError).Error)
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, ResponseOk{Fingerprint: "AQID"}))
	assert.Equal(t, "{\n  \"Fingerprint\": \"AQID\"\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, writeResult(&buf, ResponseError{Error: "boom"}))
	assert.Contains(t, buf.String(), `"Error": "boom"`)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(true))
	assert.Equal(t, 1, exitCode(false))
}

func TestCaptureOnce(t *testing.T) {
	s := newTestScanner(t, nil, instantScript())
	res, err := s.capture(context.Background(), 5*time.Second)
	require.NoError(t, err)
	assert.True(t, res.Present())
	assert.Equal(t, "DactyScan84C", s.dev.Context().Type)
}

func TestCaptureWithoutDevice(t *testing.T) {
	s := newTestScanner(t, nil, &gbms.Script{})
	_, err := s.capture(context.Background(), time.Second)
	assert.ErrorIs(t, err, errcode.NoDevicesFound)
}

func TestCaptureWritesArtifacts(t *testing.T) {
	cfg := config.Default()
	cfg.Output.FrameDir = filepath.Join(t.TempDir(), "frames")
	cfg.Output.TraceDir = filepath.Join(t.TempDir(), "traces")
	s := newTestScanner(t, cfg, instantScript())

	res, err := s.capture(context.Background(), 5*time.Second)
	require.NoError(t, err)

	pgm, err := os.ReadFile(filepath.Join(cfg.Output.FrameDir, res.SessionID+".pgm"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pgm, []byte("P5")))

	// the recorded trace replays to the same template
	script, err := gbms.LoadScript(filepath.Join(cfg.Output.TraceDir, res.SessionID+".cbor"))
	require.NoError(t, err)
	for i := range script.Steps {
		script.Steps[i].Delay = 0
	}
	replay := newTestScanner(t, nil, script)
	again, err := replay.capture(context.Background(), 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, res.Template, again.Template)
}

func TestCaptureWritesWSQFrame(t *testing.T) {
	const side = 256
	px := make([]byte, side*side)
	for i := range px {
		if (i/side+i%side)/6%2 == 0 {
			px[i] = 0x30
		} else {
			px[i] = 0xd0
		}
	}
	script := instantScript()
	end := &script.Steps[len(script.Steps)-1].Event
	end.Frame, end.Width, end.Height = px, side, side

	cfg := config.Default()
	cfg.Output.FrameDir = t.TempDir()
	cfg.Output.FrameFormat = "WSQ"
	s := newTestScanner(t, cfg, script)

	res, err := s.capture(context.Background(), 5*time.Second)
	require.NoError(t, err)

	in, err := os.Open(filepath.Join(cfg.Output.FrameDir, res.SessionID+".wsq"))
	require.NoError(t, err)
	defer in.Close()
	img, err := wsq.Decode(in)
	require.NoError(t, err)
	assert.Equal(t, side, img.Bounds().Dx())
	assert.Equal(t, side, img.Bounds().Dy())
}

func TestSaveFrameUnknownFormat(t *testing.T) {
	_, err := saveFrame(t.TempDir(), "x", "tiff", &frame.Frame{Width: 1, Height: 1, Pixels: []byte{0}})
	assert.Error(t, err)
}

func TestOpenSDK(t *testing.T) {
	cfg := config.Default()
	sdk, err := openSDK(cfg)
	require.NoError(t, err)
	assert.Equal(t, int(errcode.SpecificDLLNotLoaded), sdk.LoadLibrary())

	cfg.Mock.Enabled = true
	sdk, err = openSDK(cfg)
	require.NoError(t, err)
	assert.IsType(t, &gbms.Simulator{}, sdk)

	cfg.Mock.Script = filepath.Join(t.TempDir(), "missing.cbor")
	_, err = openSDK(cfg)
	assert.Error(t, err)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusGatewayTimeout, httpStatus(errcode.AcquisitionTimeout))
	assert.Equal(t, fiber.StatusServiceUnavailable, httpStatus(errcode.NoDevicesFound))
	assert.Equal(t, fiber.StatusServiceUnavailable, httpStatus(errcode.DeviceLocked))
	assert.Equal(t, fiber.StatusInternalServerError, httpStatus(errcode.InternalError))
	assert.Equal(t, fiber.StatusInternalServerError, httpStatus(errcode.NoFingerprint))
}

func TestHealth(t *testing.T) {
	app := newApp(newTestScanner(t, nil, nil))
	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.Mock)
}

func postCapture(t *testing.T, app *fiber.App, body string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/capture", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)

	var doc map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	return resp.StatusCode, doc
}

func TestCaptureEndpoint(t *testing.T) {
	app := newApp(newTestScanner(t, nil, instantScript()))

	status, doc := postCapture(t, app, `{"timeout": 5}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, doc["Fingerprint"])

	status, doc = postCapture(t, app, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, doc["Fingerprint"])
}

func TestCaptureEndpointTimeout(t *testing.T) {
	script := gbms.DefaultScript()
	script.Steps = nil
	app := newApp(newTestScanner(t, nil, script))

	status, doc := postCapture(t, app, `{"timeout": 1}`)
	assert.Equal(t, fiber.StatusGatewayTimeout, status)
	assert.Contains(t, doc["Error"], "ACQUISITION_TIMEOUT")
}

func TestCaptureEndpointBadRequest(t *testing.T) {
	app := newApp(newTestScanner(t, nil, nil))

	status, doc := postCapture(t, app, `{"timeout": -3}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, doc["Error"])

	status, _ = postCapture(t, app, `{"timeout":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCaptureEndpointBusy(t *testing.T) {
	s := newTestScanner(t, nil, instantScript())
	app := newApp(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	status, doc := postCapture(t, app, `{"timeout": 5}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, errBusy.Error(), doc["Error"])
}

func TestRunMock(t *testing.T) {
	t.Setenv("GBMS_LOG_LEVEL", "error")
	assert.Equal(t, 0, run([]string{"5", "50", "yes", "no"}))
}

func TestRunBadFlag(t *testing.T) {
	assert.Equal(t, 2, run([]string{"-nope"}))
}
