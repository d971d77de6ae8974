package submit

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"sync"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/factlens/factlens/internal/core"
)

const (
	previewMaxDimension = 256
	previewJPEGQuality  = 80
)

// Preview holds the in-memory resources backing a submission preview. It has
// a single owner: whoever receives it must call Close exactly once when the
// preview is replaced or the form is reset. Close is safe to call again but
// later calls are no-ops.
type Preview struct {
	ContentType core.ContentType
	FileName    string
	Size        int64

	// Thumbnail is a JPEG rendition capped at previewMaxDimension, only
	// populated for image submissions.
	Thumbnail []byte

	releaseOnce sync.Once
	released    bool
}

// NewPreview builds a preview for an accepted upload. Image payloads get a
// scaled thumbnail; other media carry metadata only.
func NewPreview(contentType core.ContentType, file *FileUpload) (*Preview, error) {
	if file == nil {
		return nil, errors.New("preview requires a file")
	}

	p := &Preview{
		ContentType: contentType,
		FileName:    file.Name,
		Size:        int64(len(file.Data)),
	}

	if contentType != core.ContentTypeImage {
		return p, nil
	}

	thumb, err := renderThumbnail(file.Data)
	if err != nil {
		return nil, err
	}
	p.Thumbnail = thumb

	return p, nil
}

// Close releases the preview's resources. Idempotent.
func (p *Preview) Close() error {
	if p == nil {
		return nil
	}
	p.releaseOnce.Do(func() {
		p.Thumbnail = nil
		p.released = true
	})
	return nil
}

// Released reports whether the preview's resources have been freed.
func (p *Preview) Released() bool {
	if p == nil {
		return true
	}
	return p.released
}

// renderThumbnail decodes an image payload and scales it down to fit
// previewMaxDimension, preserving aspect ratio. Images already within the
// cap are re-encoded without scaling up.
func renderThumbnail(data []byte) ([]byte, error) {
	srcImg, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := srcImg.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid image dimensions")
	}

	scale := float64(previewMaxDimension) / float64(max(width, height))
	if scale > 1 {
		scale = 1
	}
	newW := int(float64(width) * scale)
	newH := int(float64(height) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), srcImg, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: previewJPEGQuality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
