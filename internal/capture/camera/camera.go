package camera

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blackjack/webcam"
)

var (
	ErrDeviceUnavailable = errors.New("could not open webcamera")
	ErrCaptureFailed     = errors.New("failed to capture image from webcamera")
)

// Grabber acquires exactly one encoded frame per call.
type Grabber interface {
	CaptureFrame(ctx context.Context) ([]byte, error)
}

// V4L2Grabber reads JPEG frames from a video4linux device. The device is
// opened per capture; the service takes at most one picture at a time.
type V4L2Grabber struct {
	device string
	width  uint32
	height uint32
}

func NewV4L2Grabber(device string) *V4L2Grabber {
	return &V4L2Grabber{
		device: device,
		width:  1280,
		height: 720,
	}
}

func (g *V4L2Grabber) CaptureFrame(ctx context.Context) ([]byte, error) {
	cam, err := webcam.Open(g.device)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceUnavailable, g.device)
	}
	defer cam.Close()

	format, err := jpegFormat(cam.GetSupportedFormats())
	if err != nil {
		return nil, err
	}

	if _, _, _, err := cam.SetImageFormat(format, g.width, g.height); err != nil {
		return nil, fmt.Errorf("failed to set image format: %w", err)
	}

	if err := cam.StartStreaming(); err != nil {
		return nil, fmt.Errorf("failed to start streaming: %w", err)
	}
	defer cam.StopStreaming()

	// Cameras commonly deliver dark or partial frames right after the
	// stream starts; read a couple before keeping one.
	var frame []byte
	for i := 0; i < 3; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := cam.WaitForFrame(5); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
		}
		frame, err = cam.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
		}
	}

	if len(frame) == 0 {
		return nil, ErrCaptureFailed
	}

	out := make([]byte, len(frame))
	copy(out, frame)
	return out, nil
}

func jpegFormat(formats map[webcam.PixelFormat]string) (webcam.PixelFormat, error) {
	for format, desc := range formats {
		if strings.Contains(strings.ToUpper(desc), "JPEG") {
			return format, nil
		}
	}
	return 0, errors.New("camera does not offer a JPEG pixel format")
}
