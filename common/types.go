// package common contains plain data types and helpers shared across the engine. They are not interface-wrapped structs, just plain structs that
// express commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA pixel data, 4 bytes per pixel, row-major.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// NewTextureStagingData copies an RGBA image into staging data.
func NewTextureStagingData(img *image.RGBA) *TextureStagingData {
	b := img.Bounds()
	pix := make([]byte, b.Dx()*b.Dy()*4)
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		copy(pix[y*b.Dx()*4:], row)
	}
	return &TextureStagingData{Pixels: pix, Width: uint32(b.Dx()), Height: uint32(b.Dy())}
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside [0, 1].
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the level of detail clamp.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy is the anisotropic filtering level (1 disables it).
	MaxAnisotropy uint16
}

// RepeatSampler is a linear sampler that tiles in U and V.
var RepeatSampler = SamplerStagingData{
	AddressModeU:  wgpu.AddressModeRepeat,
	AddressModeV:  wgpu.AddressModeRepeat,
	AddressModeW:  wgpu.AddressModeRepeat,
	MagFilter:     wgpu.FilterModeLinear,
	MinFilter:     wgpu.FilterModeLinear,
	MipmapFilter:  wgpu.MipmapFilterModeLinear,
	LodMaxClamp:   32,
	MaxAnisotropy: 1,
}

// ClampSampler is a linear sampler that clamps to the edge; used by sprites and post-processing.
var ClampSampler = SamplerStagingData{
	AddressModeU:  wgpu.AddressModeClampToEdge,
	AddressModeV:  wgpu.AddressModeClampToEdge,
	AddressModeW:  wgpu.AddressModeClampToEdge,
	MagFilter:     wgpu.FilterModeLinear,
	MinFilter:     wgpu.FilterModeLinear,
	MipmapFilter:  wgpu.MipmapFilterModeLinear,
	LodMaxClamp:   32,
	MaxAnisotropy: 1,
}

// ImageSource is image data supplied either as encoded bytes or as a path on disk.
type ImageSource struct {
	// Path is the file path of the image (used when Data is empty).
	Path string

	// Data contains encoded image bytes (PNG/JPEG).
	Data []byte
}

// Decode decodes the source into RGBA staging data.
// Supports PNG and JPEG formats.
//
// Returns:
//   - *TextureStagingData: the decoded pixels
//   - error: error if the source is empty or decoding fails
func (s ImageSource) Decode() (*TextureStagingData, error) {
	var img image.Image
	var err error

	switch {
	case len(s.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(s.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode embedded image: %w", err)
		}
	case s.Path != "":
		file, fileErr := os.Open(s.Path)
		if fileErr != nil {
			return nil, fmt.Errorf("failed to open image file %s: %w", s.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image file %s: %w", s.Path, err)
		}
	default:
		return nil, fmt.Errorf("image source has neither data nor path")
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return NewTextureStagingData(rgba), nil
}
