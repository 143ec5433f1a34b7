package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/rook-computer/bannercast/internal/present"
)

// Renderer drives a display from a frame source.
type Renderer interface {
	Start(ctx context.Context) error
	Stop() error
	RunLoop(ctx context.Context, src FrameSource)
}

// FrameSource supplies the presentation to show. The viewer implements it.
type FrameSource interface {
	Presentation() present.Presentation
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
