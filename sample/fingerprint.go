package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jtejido/gbmscapture/acquisition"
	"github.com/jtejido/gbmscapture/config"
	"github.com/jtejido/gbmscapture/device"
	"github.com/jtejido/gbmscapture/errcode"
	"github.com/jtejido/gbmscapture/frame"
	"github.com/jtejido/gbmscapture/gbms"
)

// scanner owns the SDK and runs one capture at a time.
type scanner struct {
	cfg      *config.Config
	log      *slog.Logger
	sdk      gbms.SDK
	recorder *gbms.Recorder
	dev      *device.Initializer
	capturer *acquisition.Capturer
	locale   errcode.Localizer

	mu sync.Mutex
}

func newScanner(cfg *config.Config, sdk gbms.SDK, log *slog.Logger) *scanner {
	s := &scanner{
		cfg:    cfg,
		log:    log,
		locale: errcode.NewLocalizer(errcode.ParseLocale(cfg.Capture.Locale)),
	}
	if cfg.Output.TraceDir != "" {
		s.recorder = gbms.NewRecorder(sdk, nil)
		sdk = s.recorder
	}
	s.sdk = sdk
	s.dev = device.NewInitializer(sdk, log)
	s.capturer = acquisition.NewCapturer(sdk, acquisition.Options{
		Object:       cfg.Capture.Object,
		PollInterval: cfg.Capture.PollInterval,
		WaitSlice:    cfg.Capture.WaitSlice,
		Locale:       errcode.ParseLocale(cfg.Capture.Locale),
		Logger:       log,
	})
	return s
}

var errBusy = errors.New("a capture is already running")

// tryCapture runs a capture unless one is already running, in which case it
// returns errBusy.
func (s *scanner) tryCapture(ctx context.Context, timeout time.Duration) (acquisition.Result, error) {
	if !s.mu.TryLock() {
		return acquisition.Result{}, errBusy
	}
	defer s.mu.Unlock()
	return s.run(ctx, timeout)
}

func (s *scanner) capture(ctx context.Context, timeout time.Duration) (acquisition.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, timeout)
}

func (s *scanner) run(ctx context.Context, timeout time.Duration) (acquisition.Result, error) {
	s.log.Info("starting fingerprint capture",
		"timeout", timeout,
		"threshold", s.cfg.Capture.Threshold,
		"mock", s.cfg.Mock.Enabled,
	)

	if _, err := s.dev.Initialize(); err != nil {
		return acquisition.Result{}, err
	}
	res, err := s.capturer.Capture(ctx, timeout)
	s.save(res)
	if err != nil {
		return res, err
	}
	if !res.Present() {
		return res, errcode.NoFingerprint
	}
	return res, nil
}

// save writes the optional session artifacts. Failures are logged only.
func (s *scanner) save(res acquisition.Result) {
	name := res.SessionID
	if name == "" {
		name = uuid.NewString()
	}
	if dir := s.cfg.Output.FrameDir; dir != "" && res.Frame != nil {
		if path, err := saveFrame(dir, name, s.cfg.Output.FrameFormat, res.Frame); err != nil {
			s.log.Error("failed to save frame", "error", err)
		} else {
			s.log.Info("frame saved", "path", path)
		}
	}
	if s.recorder != nil {
		path := filepath.Join(s.cfg.Output.TraceDir, name+".cbor")
		if err := saveTrace(s.recorder.Script(), path); err != nil {
			s.log.Error("failed to save session trace", "error", err)
		} else {
			s.log.Info("session trace saved", "path", path)
		}
	}
}

func saveFrame(dir, name, format string, f *frame.Frame) (string, error) {
	ff, err := frame.ParseFormat(format)
	if err != nil {
		return "", err
	}
	return frame.Save(dir, name, f, ff)
}

func saveTrace(script *gbms.Script, path string) error {
	if err := mkdirFor(path); err != nil {
		return err
	}
	if err := script.Save(path); err != nil {
		return fmt.Errorf("failed to write trace %s: %w", path, err)
	}
	return nil
}

// respond turns a capture outcome into the result document and reports
// whether it carries a template.
func (s *scanner) respond(res acquisition.Result, err error) (any, bool) {
	if err == nil && res.Present() {
		return ResponseOk{Fingerprint: res.Base64()}, true
	}
	code := errcode.As(err)
	if err == nil {
		code = errcode.NoFingerprint
	}
	s.log.Error("capture failed", "code", code.Name(), "error", err)
	return ResponseError{Error: s.locale.UserMessage(code)}, false
}
