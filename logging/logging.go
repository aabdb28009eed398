// Package logging builds the application logger. Application logs never
// share a stream with the JSON result document.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"

	"github.com/jtejido/gbmscapture/config"
)

// Level resolves the configured level. Verbose lowers it to info; an
// explicit debug level is kept. Unknown names fall back to warn.
func Level(cfg config.Log) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
		lvl = slog.LevelWarn
	}
	if cfg.Verbose && lvl > slog.LevelInfo {
		lvl = slog.LevelInfo
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to w, or to a daily rotated file when
// cfg.File is set. The returned Closer releases the file.
func New(cfg config.Log, w io.Writer) (*slog.Logger, io.Closer, error) {
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rl, err := rotatelogs.New(
			cfg.File+".%Y%m%d",
			rotatelogs.WithLinkName(cfg.File),
			rotatelogs.WithRotationTime(cfg.RotationTime),
			rotatelogs.WithMaxAge(cfg.MaxAge),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = rl, rl
	}

	opts := &slog.HandlerOptions{Level: Level(cfg)}
	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), closer, nil
}
