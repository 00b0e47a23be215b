package share

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

// Compressor shrinks photos before they are embedded in a package.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// ImagingCompressor fits images within MaxEdge pixels on the longer side and
// re-encodes them as JPEG.
type ImagingCompressor struct {
	MaxEdge int
	Quality int
}

// NewImagingCompressor returns a compressor with JPEG quality 80.
func NewImagingCompressor(maxEdge int) *ImagingCompressor {
	return &ImagingCompressor{MaxEdge: maxEdge, Quality: 80}
}

func (c *ImagingCompressor) Compress(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode photo: %w", err)
	}
	b := img.Bounds()
	if c.MaxEdge > 0 && (b.Dx() > c.MaxEdge || b.Dy() > c.MaxEdge) {
		img = imaging.Fit(img, c.MaxEdge, c.MaxEdge, imaging.Lanczos)
	}
	quality := c.Quality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode photo: %w", err)
	}
	return buf.Bytes(), nil
}
