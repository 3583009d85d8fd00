package compositor

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
)

const (
	// DefaultCanvasSize is the edge length of the square canvas in pixels
	DefaultCanvasSize = 512
	// MaxCanvasSize bounds the canvas allocation
	MaxCanvasSize = 4096
	// DefaultJPEGQuality matches a 0.9 quality lossy export
	DefaultJPEGQuality = 90
)

// Format is the encoding of the composed image
type Format string

// Supported image formats
const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}

// Extension returns the file extension for the format, dot included.
func (f Format) Extension() string {
	if f == FormatPNG {
		return ".png"
	}
	return ".jpg"
}

// ParseFormat accepts jpeg, jpg or png in any case. Empty means jpeg.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", errors.InvalidArgumentf("unsupported image format %q", s)
	}
}

// ParseRequestedFormat is ParseFormat for caller input: empty stays empty so
// the compositor's configured format applies.
func ParseRequestedFormat(s string) (Format, error) {
	if s == "" {
		return "", nil
	}
	return ParseFormat(s)
}

// Config holds the dependencies for the compositor
type Config struct {
	Loader      AssetLoader
	CanvasSize  int
	Format      Format
	JPEGQuality int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Loader == nil {
		vb.RequiredField("Loader")
	}
	if c.CanvasSize != 0 {
		errors.ValidateRange("CanvasSize", c.CanvasSize, 1, MaxCanvasSize, vb)
	}
	if c.JPEGQuality != 0 {
		errors.ValidateRange("JPEGQuality", c.JPEGQuality, 1, 100, vb)
	}
	if c.Format != "" {
		if _, err := ParseFormat(string(c.Format)); err != nil {
			vb.Field("Format", "must be jpeg or png")
		}
	}

	return vb.Build()
}

// Compositor paints selected assets onto a square canvas in layer order.
type Compositor struct {
	loader      AssetLoader
	canvasSize  int
	format      Format
	jpegQuality int
}

// New creates a compositor with the provided dependencies
func New(cfg *Config) (*Compositor, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := &Compositor{
		loader:      cfg.Loader,
		canvasSize:  cfg.CanvasSize,
		format:      cfg.Format,
		jpegQuality: cfg.JPEGQuality,
	}
	if c.canvasSize == 0 {
		c.canvasSize = DefaultCanvasSize
	}
	if c.format == "" {
		c.format = FormatJPEG
	}
	if c.jpegQuality == 0 {
		c.jpegQuality = DefaultJPEGQuality
	}
	return c, nil
}

// ComposeInput is the selection to render. Zero CanvasSize and Format fall
// back to the compositor's configuration.
type ComposeInput struct {
	Selection  traits.Selection
	LayerOrder traits.LayerOrder
	CanvasSize int
	Format     Format
}

// ComposeOutput is the flattened artifact
type ComposeOutput struct {
	Image       []byte
	ContentType string
	Format      Format
	CanvasSize  int
	Attributes  []traits.Attribute
}

// CanvasSize returns the configured canvas edge length.
func (c *Compositor) CanvasSize() int {
	return c.canvasSize
}

// Compose loads every selected layer in order, one at a time, and draws it
// centered at native size over what is already on the canvas. Any layer that
// fails to load fails the whole compose and no image is returned.
func (c *Compositor) Compose(ctx context.Context, input *ComposeInput) (*ComposeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := input.LayerOrder.Validate(); err != nil {
		return nil, err
	}

	size := input.CanvasSize
	if size == 0 {
		size = c.canvasSize
	}
	format := input.Format
	if format == "" {
		format = c.format
	}
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	canvas, err := newCanvas(size)
	if err != nil {
		return nil, err
	}

	drawn := 0
	for _, category := range input.LayerOrder {
		asset, ok := input.Selection.Get(category)
		if !ok {
			continue
		}

		img, err := c.loader.Load(ctx, category, asset)
		if err != nil {
			if errors.IsAssetLoad(err) {
				return nil, err
			}
			return nil, errors.AssetLoad(string(category), string(asset), err)
		}
		drawCentered(canvas, img)
		drawn++
	}

	data, err := c.encode(canvas, format)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Composed artifact",
		"layers", len(input.LayerOrder),
		"drawn", drawn,
		"format", format,
		"bytes", len(data),
	)

	return &ComposeOutput{
		Image:       data,
		ContentType: format.ContentType(),
		Format:      format,
		CanvasSize:  size,
		Attributes:  input.Selection.Attributes(input.LayerOrder),
	}, nil
}

func newCanvas(size int) (*image.RGBA, error) {
	if size <= 0 || size > MaxCanvasSize {
		return nil, errors.Environment("cannot create a canvas of the requested size").
			WithMeta("canvas_size", size)
	}
	return image.NewRGBA(image.Rect(0, 0, size, size)), nil
}

// drawCentered places img at ((W-w)/2, (H-h)/2) with source-over blending.
// Assets larger than the canvas are clipped.
func drawCentered(canvas *image.RGBA, img image.Image) {
	cb := canvas.Bounds()
	ib := img.Bounds()
	x := (cb.Dx() - ib.Dx()) / 2
	y := (cb.Dy() - ib.Dy()) / 2
	dst := image.Rect(x, y, x+ib.Dx(), y+ib.Dy())
	xdraw.Draw(canvas, dst, img, ib.Min, xdraw.Over)
}

func (c *Compositor) encode(canvas image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(&buf, canvas)
	default:
		err = jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: c.jpegQuality})
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode composed image")
	}
	return buf.Bytes(), nil
}
