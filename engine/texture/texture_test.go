package texture

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
)

var (
	base   = common.MustParseHexColor("#194794")
	accent = common.MustParseHexColor("#5227ff")
)

func TestProceduralDeterministic(t *testing.T) {
	a := Procedural(64, 7, base, accent)
	b := Procedural(64, 7, base, accent)
	if string(a.Pix) != string(b.Pix) {
		t.Error("same seed produced different textures")
	}
	c := Procedural(64, 8, base, accent)
	if string(a.Pix) == string(c.Pix) {
		t.Error("different seeds produced identical textures")
	}
}

func TestProceduralWritesTintedPixels(t *testing.T) {
	img := Procedural(32, 3, base, accent)
	for y := range 32 {
		for x := range 32 {
			c := img.RGBAAt(x, y)
			if c.A != 255 || c.B == 0 {
				t.Fatalf("pixel (%d, %d) = %+v, want an opaque blue tint", x, y, c)
			}
		}
	}
}

func TestProceduralOpaqueAndClamped(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		wantSize int
	}{
		{"regular", 128, 128},
		{"too small", 1, 16},
		{"too large", 1 << 20, MaxSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.size > 4096 && testing.Short() {
				t.Skip("large texture")
			}
			img := Procedural(tt.size, 1, base, accent)
			if got := img.Bounds().Dx(); got != tt.wantSize {
				t.Fatalf("size = %d, want %d", got, tt.wantSize)
			}
			for i := 3; i < len(img.Pix); i += 4 * 97 {
				if img.Pix[i] != 255 {
					t.Fatalf("pixel alpha %d at %d, want opaque", img.Pix[i], i)
				}
			}
		})
	}
}

func TestTubeFallsBackToProcedural(t *testing.T) {
	staged, err := Tube("", 32, 1, base, accent)
	if err != nil {
		t.Fatal(err)
	}
	if staged.Width != 32 || staged.Height != 32 || len(staged.Pixels) != 32*32*4 {
		t.Errorf("staged = %dx%d with %d bytes", staged.Width, staged.Height, len(staged.Pixels))
	}
}

func TestTubeLoadsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "wall.png")
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	f, err := os.Create(file)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}

	staged, err := Tube(file, 32, 1, base, accent)
	if err != nil {
		t.Fatal(err)
	}
	if staged.Width != 8 || staged.Height != 4 {
		t.Errorf("loaded size = %dx%d, want 8x4", staged.Width, staged.Height)
	}

	if _, err := Tube(filepath.Join(dir, "missing.png"), 32, 1, base, accent); err == nil {
		t.Error("missing file should fail")
	}
}

func TestDownscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, MaxSize*2, 10))
	out := downscale(common.NewTextureStagingData(src))
	if out.Width != MaxSize || out.Height != 5 {
		t.Errorf("downscaled to %dx%d, want %dx5", out.Width, out.Height, MaxSize)
	}
}

func TestSpriteFalloff(t *testing.T) {
	white := common.Color{R: 1, G: 1, B: 1, A: 1}
	img := Sprite(64, 4, white)
	center := img.RGBAAt(32, 32)
	if center.A < 200 {
		t.Errorf("center alpha = %d, want bright core", center.A)
	}
	for _, p := range []image.Point{{0, 0}, {63, 0}, {0, 63}, {63, 63}} {
		if a := img.RGBAAt(p.X, p.Y).A; a != 0 {
			t.Errorf("corner %v alpha = %d, want 0", p, a)
		}
	}
	// Between spikes the sprite is darker than along a spike at the same radius.
	along := img.RGBAAt(32+12, 32).A
	between := img.RGBAAt(32+9, 32+9).A
	if along <= between {
		t.Errorf("spike alpha %d not above gap alpha %d", along, between)
	}
}
