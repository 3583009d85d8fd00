package compositor_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/cryptea/internal/compositor"
	compositormock "github.com/KirkDiggler/cryptea/internal/compositor/mock"
	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/testutils"
)

var (
	opaqueRed  = color.RGBA{R: 255, A: 255}
	opaqueBlue = color.RGBA{B: 255, A: 255}
)

type CompositorTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockLoader *compositormock.MockAssetLoader
	compositor *compositor.Compositor
	ctx        context.Context
}

func (s *CompositorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockLoader = compositormock.NewMockAssetLoader(s.ctrl)
	s.ctx = context.Background()

	var err error
	s.compositor, err = compositor.New(&compositor.Config{
		Loader:     s.mockLoader,
		CanvasSize: 8,
		Format:     compositor.FormatPNG,
	})
	s.Require().NoError(err)
}

func (s *CompositorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// halfTransparent is opaque blue on its left half and fully transparent on
// its right half.
func halfTransparent(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size/2; x++ {
			img.Set(x, y, opaqueBlue)
		}
	}
	return img
}

func (s *CompositorTestSuite) decodePNG(data []byte) image.Image {
	img, err := png.Decode(bytes.NewReader(data))
	s.Require().NoError(err)
	return img
}

func (s *CompositorTestSuite) assertPixel(img image.Image, x, y int, want color.RGBA) {
	r, g, b, a := img.At(x, y).RGBA()
	got := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	s.Equal(want, got, "pixel (%d,%d)", x, y)
}

func (s *CompositorTestSuite) TestCompose_PaintOrder() {
	gomock.InOrder(
		s.mockLoader.EXPECT().Load(s.ctx, traits.Category("Background"), traits.Asset("Mars.png")).
			Return(testutils.SolidImage(8, opaqueRed), nil),
		s.mockLoader.EXPECT().Load(s.ctx, traits.Category("Head"), traits.Asset("Visor.png")).
			Return(halfTransparent(8), nil),
	)

	out, err := s.compositor.Compose(s.ctx, &compositor.ComposeInput{
		Selection:  traits.Selection{"Background": "Mars.png", "Head": "Visor.png"},
		LayerOrder: traits.LayerOrder{"Background", "Head"},
	})
	s.Require().NoError(err)
	s.Equal("image/png", out.ContentType)

	img := s.decodePNG(out.Image)
	s.Equal(image.Rect(0, 0, 8, 8), img.Bounds())
	s.assertPixel(img, 1, 4, opaqueBlue)
	s.assertPixel(img, 6, 4, opaqueRed)
}

func (s *CompositorTestSuite) TestCompose_ReorderingChangesResult() {
	s.mockLoader.EXPECT().Load(s.ctx, traits.Category("Background"), traits.Asset("Mars.png")).
		Return(testutils.SolidImage(8, opaqueRed), nil)
	s.mockLoader.EXPECT().Load(s.ctx, traits.Category("Head"), traits.Asset("Visor.png")).
		Return(halfTransparent(8), nil)

	out, err := s.compositor.Compose(s.ctx, &compositor.ComposeInput{
		Selection:  traits.Selection{"Background": "Mars.png", "Head": "Visor.png"},
		LayerOrder: traits.LayerOrder{"Head", "Background"},
	})
	s.Require().NoError(err)

	img := s.decodePNG(out.Image)
	s.assertPixel(img, 1, 4, opaqueRed)
	s.assertPixel(img, 6, 4, opaqueRed)
}

func (s *CompositorTestSuite) TestCompose_CentersAtNativeSize() {
	s.mockLoader.EXPECT().Load(s.ctx, traits.Category("Body"), traits.Asset("Dot.png")).
		Return(testutils.SolidImage(2, opaqueRed), nil)

	out, err := s.compositor.Compose(s.ctx, &compositor.ComposeInput{
		Selection:  traits.Selection{"Body": "Dot.png"},
		LayerOrder: traits.LayerOrder{"Body"},
	})
	s.Require().NoError(err)

	img := s.decodePNG(out.Image)
	s.assertPixel(img, 3, 3, opaqueRed)
	s.assertPixel(img, 4, 4, opaqueRed)
	s.assertPixel(img, 2, 2, color.RGBA{})
	s.assertPixel(img, 5, 5, color.RGBA{})
}

func (s *CompositorTestSuite) TestCompose_AttributesFollowLayerOrder() {
	s.mockLoader.EXPECT().Load(s.ctx, traits.Category("Background"), traits.Asset("Planet Mars.PNG")).
		Return(testutils.SolidImage(8, opaqueRed), nil)

	out, err := s.compositor.Compose(s.ctx, &compositor.ComposeInput{
		Selection:  traits.Selection{"Background": "Planet Mars.PNG"},
		LayerOrder: traits.LayerOrder{"Background", "Body"},
	})
	s.Require().NoError(err)
	s.Equal([]traits.Attribute{
		{TraitType: "Background", Value: "Planet Mars.PNG"},
		{TraitType: "Body", Value: "None"},
	}, out.Attributes)
}

func (s *CompositorTestSuite) TestCompose_EmptySelection() {
	out, err := s.compositor.Compose(s.ctx, &compositor.ComposeInput{
		Selection:  traits.Selection{},
		LayerOrder: traits.LayerOrder{"Background", "Body"},
	})
	s.Require().NoError(err)
	s.Len(out.Attributes, 2)
	s.NotEmpty(out.Image)
}

func (s *CompositorTestSuite) TestCompose_FailsFastOnBadAsset() {
	gomock.InOrder(
		s.mockLoader.EXPECT().Load(s.ctx, traits.Category("Background"), traits.Asset("Mars.png")).
			Return(testutils.SolidImage(8, opaqueRed), nil),
		s.mockLoader.EXPECT().Load(s.ctx, traits.Category("Body"), traits.Asset("Ghost.png")).
			Return(nil, errors.AssetLoad("Body", "Ghost.png", os.ErrNotExist)),
	)

	out, err := s.compositor.Compose(s.ctx, &compositor.ComposeInput{
		Selection:  traits.Selection{"Background": "Mars.png", "Body": "Ghost.png", "Head": "Visor.png"},
		LayerOrder: traits.LayerOrder{"Background", "Body", "Head"},
	})
	s.Require().Error(err)
	s.Nil(out)
	s.True(errors.IsAssetLoad(err))
	s.True(errors.IsNotFound(err))
	s.Equal("Body", errors.GetMeta(err)[errors.MetaCategory])
	s.Equal("Ghost.png", errors.GetMeta(err)[errors.MetaAsset])
}

func (s *CompositorTestSuite) TestCompose_WrapsForeignLoaderErrors() {
	s.mockLoader.EXPECT().Load(s.ctx, traits.Category("Body"), traits.Asset("Robot.png")).
		Return(nil, image.ErrFormat)

	_, err := s.compositor.Compose(s.ctx, &compositor.ComposeInput{
		Selection:  traits.Selection{"Body": "Robot.png"},
		LayerOrder: traits.LayerOrder{"Body"},
	})
	s.Require().Error(err)
	s.True(errors.IsAssetLoad(err))
	s.True(errors.IsDataLoss(err))
}

func (s *CompositorTestSuite) TestCompose_CanvasUnavailable() {
	for _, size := range []int{-1, compositor.MaxCanvasSize + 1} {
		_, err := s.compositor.Compose(s.ctx, &compositor.ComposeInput{
			Selection:  traits.Selection{"Body": "Robot.png"},
			LayerOrder: traits.LayerOrder{"Body"},
			CanvasSize: size,
		})
		s.Require().Error(err)
		s.True(errors.IsEnvironment(err))
		s.True(errors.IsUnavailable(err))
	}
}

func (s *CompositorTestSuite) TestCompose_JPEGOutput() {
	s.mockLoader.EXPECT().Load(s.ctx, traits.Category("Body"), traits.Asset("Robot.png")).
		Return(testutils.SolidImage(8, opaqueRed), nil)

	out, err := s.compositor.Compose(s.ctx, &compositor.ComposeInput{
		Selection:  traits.Selection{"Body": "Robot.png"},
		LayerOrder: traits.LayerOrder{"Body"},
		CanvasSize: 16,
		Format:     compositor.FormatJPEG,
	})
	s.Require().NoError(err)
	s.Equal("image/jpeg", out.ContentType)
	s.Equal(16, out.CanvasSize)

	img, err := jpeg.Decode(bytes.NewReader(out.Image))
	s.Require().NoError(err)
	s.Equal(image.Rect(0, 0, 16, 16), img.Bounds())
}

func (s *CompositorTestSuite) TestCompose_RejectsBadInput() {
	_, err := s.compositor.Compose(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.compositor.Compose(s.ctx, &compositor.ComposeInput{LayerOrder: traits.LayerOrder{"Body", "Body"}})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.compositor.Compose(s.ctx, &compositor.ComposeInput{Format: "webp"})
	s.True(errors.IsInvalidArgument(err))
}

func TestCompositorTestSuite(t *testing.T) {
	suite.Run(t, new(CompositorTestSuite))
}

func TestNewValidation(t *testing.T) {
	testCases := []struct {
		name string
		cfg  *compositor.Config
	}{
		{"nil config", nil},
		{"missing loader", &compositor.Config{}},
		{"canvas too large", &compositor.Config{Loader: &compositor.FSLoader{Root: "x"}, CanvasSize: compositor.MaxCanvasSize + 1}},
		{"bad format", &compositor.Config{Loader: &compositor.FSLoader{Root: "x"}, Format: "bmp"}},
		{"bad quality", &compositor.Config{Loader: &compositor.FSLoader{Root: "x"}, JPEGQuality: 101}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compositor.New(tc.cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsInvalidArgument(err) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		in        string
		want      compositor.Format
		requested compositor.Format
		wantErr   bool
	}{
		{in: "", want: compositor.FormatJPEG, requested: ""},
		{in: "jpg", want: compositor.FormatJPEG, requested: compositor.FormatJPEG},
		{in: "JPEG", want: compositor.FormatJPEG, requested: compositor.FormatJPEG},
		{in: "png", want: compositor.FormatPNG, requested: compositor.FormatPNG},
		{in: "webp", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := compositor.ParseFormat(tc.in)
			requested, reqErr := compositor.ParseRequestedFormat(tc.in)
			if tc.wantErr {
				if !errors.IsInvalidArgument(err) || !errors.IsInvalidArgument(reqErr) {
					t.Fatalf("expected invalid argument, got %v and %v", err, reqErr)
				}
				return
			}
			if err != nil || reqErr != nil {
				t.Fatalf("unexpected errors %v, %v", err, reqErr)
			}
			if got != tc.want || requested != tc.requested {
				t.Fatalf("got %q/%q, want %q/%q", got, requested, tc.want, tc.requested)
			}
		})
	}
}
