package bmpblend

import (
	"fmt"

	"github.com/gogpu/bmpblend/internal/stream"
)

// Load decodes the bitmap at path. Paths ending in ".zst" or ".lz4" are
// decompressed transparently.
func Load(path string) (*Image, error) {
	rc, err := stream.Open(path)
	if err != nil {
		return nil, ioError("open", err)
	}
	defer func() { _ = rc.Close() }()

	img, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path, replacing any existing file. Paths ending in
// ".zst" or ".lz4" are compressed transparently.
func (img *Image) Save(path string) (err error) {
	wc, err := stream.Create(path)
	if err != nil {
		return ioError("create", err)
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = ioError("close", cerr)
		}
	}()

	if err := Encode(wc, img); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
