package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/config"
	"github.com/Carmen-Shannon/oxy-tunnel/engine"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/border"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/cards"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var (
	configPath string
	verbose    bool
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "oxy-tunnel",
		Short: "Scroll-driven 3D tunnel flythrough",
		Long: `oxy-tunnel - scroll-driven 3D tunnel flythrough

Flies a camera along a curved wireframe tunnel as you scroll, with glowing
particles, fog and bloom. Also renders the electric border and simulates the
card carousel offline.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			installLogger(cmd.ErrOrStderr(), verbose)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log at debug level")

	root.AddCommand(newRunCommand(), newBorderCommand(), newConfigCommand(), newCardsCommand())
	return root
}

func installLogger(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	common.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadConfig returns the defaults when no path was given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func newRunCommand() *cobra.Command {
	var profile bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the tunnel window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return engine.NewEngine(cfg, engine.WithProfiling(profile)).Run()
		},
	}
	cmd.Flags().BoolVar(&profile, "profile", false, "Log FPS and heap statistics every second")
	return cmd
}

func newBorderCommand() *cobra.Command {
	var (
		out           string
		at            float64
		width, height int
		color         string
		chaos, speed  float64
		noGlow        bool
	)
	cmd := &cobra.Command{
		Use:   "border",
		Short: "Render one electric border frame to an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			bc := cfg.Border
			if cmd.Flags().Changed("color") {
				bc.Color = color
			}
			if cmd.Flags().Changed("chaos") {
				bc.Chaos = chaos
			}
			if cmd.Flags().Changed("speed") {
				bc.Speed = speed
			}

			b, err := border.NewBorder(width, height,
				border.WithColor(bc.Color),
				border.WithSpeed(bc.Speed),
				border.WithChaos(bc.Chaos),
				border.WithThickness(bc.Thickness),
				border.WithCornerRadius(bc.CornerRadius),
				border.WithGlow(!noGlow),
			)
			if err != nil {
				return err
			}
			if err := writeImage(out, b.Render(at)); err != nil {
				return err
			}
			w, h := b.Size()
			common.Logger().Info("border rendered", "path", out, "width", w, "height", h, "t", at)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "border.png", "Output image (.png, .bmp or .tiff)")
	cmd.Flags().Float64VarP(&at, "time", "t", 0, "Animation time in seconds")
	cmd.Flags().IntVar(&width, "width", 320, "Box width in pixels")
	cmd.Flags().IntVar(&height, "height", 200, "Box height in pixels")
	cmd.Flags().StringVar(&color, "color", "", "Stroke color (#rgb or #rrggbb)")
	cmd.Flags().Float64Var(&chaos, "chaos", 1, "Displacement strength")
	cmd.Flags().Float64Var(&speed, "speed", 1, "Animation speed")
	cmd.Flags().BoolVar(&noGlow, "no-glow", false, "Skip the glow layers")
	return cmd
}

// writeImage encodes img to path, choosing the format from the extension.
func writeImage(path string, img image.Image) (err error) {
	encode, err := encoderFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	if err := encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func encoderFor(path string) (func(io.Writer, image.Image) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q", filepath.Ext(path))
	}
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newCardsCommand() *cobra.Command {
	var (
		duration time.Duration
		step     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Simulate the card carousel and print the front card over time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return simulateCards(cmd.OutOrStdout(), cfg.Cards, duration, step)
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 20*time.Second, "Simulated time")
	cmd.Flags().DurationVar(&step, "step", time.Second/60, "Simulation step")
	return cmd
}

// simulateCards steps a carousel and prints a line each time the order changes.
func simulateCards(w io.Writer, cc config.CardsConfig, duration, step time.Duration) error {
	if step <= 0 {
		return fmt.Errorf("cards: step must be positive, got %v", step)
	}
	s := cards.NewSwap(cc.Count,
		cards.WithDelay(time.Duration(cc.DelaySeconds*float64(time.Second))),
		cards.WithVerticalDistance(cc.VerticalDistance),
		cards.WithPreset(cards.PresetByName(cc.Easing)),
	)
	defer s.Kill()

	last := fmt.Sprint(s.Order())
	if _, err := fmt.Fprintf(w, "%8s  order %s\n", time.Duration(0), last); err != nil {
		return err
	}
	for elapsed := step; elapsed <= duration; elapsed += step {
		s.Advance(step)
		order := fmt.Sprint(s.Order())
		if order == last {
			continue
		}
		last = order
		if _, err := fmt.Fprintf(w, "%8s  order %s\n", elapsed.Round(time.Millisecond), order); err != nil {
			return err
		}
	}
	return nil
}
