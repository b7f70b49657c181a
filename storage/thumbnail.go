package storage

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

// AvatarPixels is the edge length of stored avatars.
const AvatarPixels = 256

var ErrNotImage = errors.New("not a decodable image")

// Thumbnail crops body to a centred square of size pixels and re-encodes it
// as PNG. EXIF orientation is applied first.
func Thumbnail(body []byte, size int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	thumb := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
