// Package frame holds captured scanner frames and writes them as PGM or
// WSQ.
package frame

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jtejido/go-wsq"
	"github.com/spakin/netpbm"
)

// Format selects the file encoding of a saved frame.
type Format string

const (
	PGM Format = "pgm"
	WSQ Format = "wsq"
)

// ParseFormat accepts a format name in any case; empty means PGM.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return PGM, nil
	case PGM, WSQ:
		return f, nil
	default:
		return "", fmt.Errorf("unknown frame format %q", s)
	}
}

// Frame is an 8-bit grayscale image copied out of SDK memory.
type Frame struct {
	Width  int
	Height int
	Pixels []byte
}

// Copy copies the first width*height bytes of src. It returns nil when the
// dimensions are not positive or src is too short.
func Copy(src []byte, width, height int) *Frame {
	if width <= 0 || height <= 0 || len(src) < width*height {
		return nil
	}
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: append([]byte(nil), src[:width*height]...),
	}
}

// Image exposes the frame as an image.Gray sharing the pixel buffer.
func (f *Frame) Image() *image.Gray {
	return &image.Gray{
		Pix:    f.Pixels,
		Stride: f.Width,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// EncodePGM writes f as a binary PGM.
func EncodePGM(w io.Writer, f *Frame, comments ...string) error {
	if f == nil {
		return errors.New("no frame to encode")
	}
	return netpbm.Encode(w, f.Image(), &netpbm.EncodeOptions{
		Format:   netpbm.PGM,
		MaxValue: 255,
		Comments: comments,
	})
}

// EncodeWSQ compresses f with the default WSQ bitrate.
func EncodeWSQ(w io.Writer, f *Frame, comments ...string) error {
	if f == nil {
		return errors.New("no frame to encode")
	}
	return wsq.Encode(w, f.Image(), &wsq.Options{
		Bitrate:  wsq.DefaultBitrate,
		Comments: comments,
	})
}

// Save writes f to dir/<name>.<format> and returns the path.
func Save(dir, name string, f *Frame, format Format) (string, error) {
	encode := EncodePGM
	switch format {
	case PGM:
	case WSQ:
		encode = EncodeWSQ
	default:
		return "", fmt.Errorf("unknown frame format %q", format)
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create frame directory: %w", err)
	}
	path := filepath.Join(dir, name+"."+string(format))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create frame file: %w", err)
	}
	if err := encode(out, f, name); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to encode frame: %w", err)
	}
	return path, out.Close()
}
