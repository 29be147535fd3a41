package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Motion.Damping != 15 || cfg.Motion.ScrubCeiling != 0.96 || cfg.Motion.Lookahead != 0.03 {
		t.Errorf("motion defaults = %+v", cfg.Motion)
	}
	if len(cfg.Path.Points) != 9 {
		t.Errorf("default path has %d points, want 9", len(cfg.Path.Points))
	}
}

func TestDefaultDoesNotShareTunnelPoints(t *testing.T) {
	cfg := Default()
	cfg.Path.Points[0][0] = 999
	if TunnelPoints[0][0] == 999 {
		t.Error("Default() aliases TunnelPoints")
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
motion:
  damping: 30
path:
  curveType: centripetal
  points:
    - [0, 0, 0]
    - [10, 0, 0]
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Motion.Damping != 30 {
		t.Errorf("damping = %v, want 30", cfg.Motion.Damping)
	}
	if cfg.Motion.ScrubCeiling != 0.96 {
		t.Errorf("scrubCeiling = %v, want default 0.96", cfg.Motion.ScrubCeiling)
	}
	if cfg.Path.CurveType != "centripetal" {
		t.Errorf("curveType = %q", cfg.Path.CurveType)
	}
	if len(cfg.Path.Points) != 2 {
		t.Errorf("points = %v, want 2 entries", cfg.Path.Points)
	}
	if cfg.Fog.Color != "#194794" {
		t.Errorf("fog color = %q, want default", cfg.Fog.Color)
	}
}

func TestParseRestoresEmptiedValues(t *testing.T) {
	cfg, err := Parse([]byte(`
window:
  title: ""
path:
  points: []
fog:
  color: ""
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Window.Title != "oxy-tunnel" {
		t.Errorf("title = %q", cfg.Window.Title)
	}
	if len(cfg.Path.Points) != len(TunnelPoints) {
		t.Errorf("points = %d, want %d", len(cfg.Path.Points), len(TunnelPoints))
	}
	if cfg.Fog.Color != "#194794" {
		t.Errorf("fog color = %q", cfg.Fog.Color)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero width", "window:\n  width: 0\n"},
		{"near beyond far", "camera:\n  near: 300\n"},
		{"bad axis order", "path:\n  axisOrder: zyx\n"},
		{"bad curve type", "path:\n  curveType: bezier\n"},
		{"damping below one", "motion:\n  damping: 0.5\n"},
		{"ceiling above one", "motion:\n  scrubCeiling: 1.5\n"},
		{"bad color", "fog:\n  color: \"#12345\"\n"},
		{"inverted fog", "fog:\n  near: 100\n  far: 10\n"},
		{"negative scrub", "scroll:\n  scrub: -1\n"},
		{"bad easing", "cards:\n  easing: bounce\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("motion: [")); err == nil {
		t.Fatal("Parse() of malformed YAML returned nil error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tunnel.yaml")
	if err := os.WriteFile(path, []byte("bloom:\n  strength: 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bloom.Strength != 1.5 {
		t.Errorf("bloom strength = %v, want 1.5", cfg.Bloom.Strength)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() of a missing file returned nil error")
	}
}

func TestMarshalRoundTripsThroughParse(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error = %v", err)
	}
	if cfg.Tube.TubularSegments != 300 || cfg.Particles.Count != 6800 {
		t.Errorf("round trip lost values: tube=%+v particles=%+v", cfg.Tube, cfg.Particles)
	}
}
