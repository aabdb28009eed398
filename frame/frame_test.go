package frame

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/jtejido/go-wsq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopy(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7}
	f := Copy(src, 3, 2)
	require.NotNil(t, f)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, f.Pixels)

	src[0] = 99
	assert.Equal(t, byte(1), f.Pixels[0], "frame must not alias the source")

	assert.Nil(t, Copy(src, 0, 2))
	assert.Nil(t, Copy(src, 3, -1))
	assert.Nil(t, Copy(src, 4, 2))
	assert.Nil(t, Copy(nil, 1, 1))
}

func TestImage(t *testing.T) {
	f := Copy([]byte{10, 20, 30, 40, 50, 60}, 3, 2)
	img := f.Image()
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, uint8(60), img.GrayAt(2, 1).Y)
}

func TestEncodePGM(t *testing.T) {
	f := Copy(bytes.Repeat([]byte{0x80}, 16*8), 16, 8)
	var buf bytes.Buffer
	require.NoError(t, EncodePGM(&buf, f))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("P5")), "got header %q", buf.Bytes()[:2])
	assert.GreaterOrEqual(t, buf.Len(), 16*8)

	assert.Error(t, EncodePGM(&buf, nil))
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path, err := Save(dir, "session-1", Copy(make([]byte, 4), 2, 2), PGM)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("P5")))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, PGM, f)

	f, err = ParseFormat(" WSQ ")
	require.NoError(t, err)
	assert.Equal(t, WSQ, f)

	_, err = ParseFormat("jpeg")
	assert.Error(t, err)
}

// ridges draws concentric rings so the wavelet bands carry energy.
func ridges(w, h int) []byte {
	px := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := x-w/2, y-h/2
			if (dx*dx+dy*dy)/40%2 == 0 {
				px[y*w+x] = 0x30
			} else {
				px[y*w+x] = 0xd0
			}
		}
	}
	return px
}

func TestEncodeWSQ(t *testing.T) {
	f := Copy(ridges(256, 256), 256, 256)
	var buf bytes.Buffer
	require.NoError(t, EncodeWSQ(&buf, f, "session-1"))
	assert.Less(t, buf.Len(), 256*256)

	img, err := wsq.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 256, 256), img.Bounds())

	assert.Error(t, EncodeWSQ(&buf, nil))
}

func TestSaveWSQ(t *testing.T) {
	dir := t.TempDir()
	path, err := Save(dir, "session-2", Copy(ridges(256, 256), 256, 256), WSQ)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "session-2.wsq"), path)

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()
	img, err := wsq.Decode(in)
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	_, err = Save(dir, "session-3", Copy(ridges(4, 4), 4, 4), Format("tiff"))
	assert.Error(t, err)
}
