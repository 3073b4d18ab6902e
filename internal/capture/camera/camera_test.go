package camera

import (
	"testing"

	"github.com/blackjack/webcam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJpegFormatPicksJPEGDescription(t *testing.T) {
	formats := map[webcam.PixelFormat]string{
		webcam.PixelFormat(1): "YUYV 4:2:2",
		webcam.PixelFormat(2): "Motion-JPEG",
	}

	format, err := jpegFormat(formats)
	require.NoError(t, err)
	assert.Equal(t, webcam.PixelFormat(2), format)
}

func TestJpegFormatCaseInsensitive(t *testing.T) {
	formats := map[webcam.PixelFormat]string{
		webcam.PixelFormat(7): "mjpeg compressed",
	}

	format, err := jpegFormat(formats)
	require.NoError(t, err)
	assert.Equal(t, webcam.PixelFormat(7), format)
}

func TestJpegFormatMissing(t *testing.T) {
	formats := map[webcam.PixelFormat]string{
		webcam.PixelFormat(1): "YUYV 4:2:2",
	}

	_, err := jpegFormat(formats)
	assert.Error(t, err)
}
