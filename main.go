package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// Options holds the command line configuration
type Options struct {
	Scene       string
	Width       int
	Height      int
	Samples     int // 0 keeps the scene's samples per pixel
	MaxDepth    int // 0 keeps the scene's path length
	Workers     int
	Seed        int64
	TexturePath string
	Output      string // Empty writes output/<scene>/render_<timestamp>.png
	Timeout     time.Duration
}

func main() {
	opts, help, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if help {
		printHelp()
		return
	}

	if err := run(opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Options, bool, error) {
	config := renderer.DefaultConfig()
	opts := Options{}

	fs.StringVar(&opts.Scene, "scene", "default", "Scene to render (see -help for the list)")
	fs.IntVar(&opts.Width, "width", config.Width, "Image width in pixels")
	fs.IntVar(&opts.Height, "height", config.Height, "Image height in pixels")
	fs.IntVar(&opts.Samples, "spp", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.MaxDepth, "depth", 0, "Maximum path length (0 = scene default)")
	fs.IntVar(&opts.Workers, "workers", 0, "Number of parallel workers (0 = logical CPU count)")
	fs.Int64Var(&opts.Seed, "seed", config.Seed, "Random seed")
	fs.StringVar(&opts.TexturePath, "texture", "", "Image file for textured scenes")
	fs.StringVar(&opts.Output, "output", "", "Output PNG path")
	fs.DurationVar(&opts.Timeout, "timeout", 0, "Abort the render after this long (0 = no limit)")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, false, err
	}
	return opts, *help, nil
}

func printHelp() {
	fmt.Println("Tiled Path Tracer")
	fmt.Println("Usage: pathtracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Printf("  %-14s %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Output is saved to output/<scene>/render_<timestamp>.png unless -output is set")
}

// buildScene creates the requested scene and applies command line overrides
func buildScene(opts Options) (*scene.Scene, error) {
	s, err := scene.Build(opts.Scene, scene.Options{TexturePath: opts.TexturePath, Seed: opts.Seed})
	if err != nil {
		return nil, err
	}

	settings := scene.Settings{}
	if opts.Samples != 0 {
		settings.SamplesPerPixel = &opts.Samples
	}
	if opts.MaxDepth != 0 {
		settings.MaxDepth = &opts.MaxDepth
	}
	s.Camera = settings.Apply(s.Camera)
	if err := s.Camera.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// outputDir returns the directory renders of sceneID are written to
func outputDir(sceneID string) string {
	return filepath.Join("output", sceneID)
}

func outputPath(opts Options, now time.Time) string {
	if opts.Output != "" {
		return opts.Output
	}
	return filepath.Join(outputDir(opts.Scene), fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func run(opts Options, logger core.Logger) error {
	if info, err := renderer.GetSystemInfo(); err == nil {
		logger.Printf("System: %s\n", info)
	}

	s, err := buildScene(opts)
	if err != nil {
		return err
	}

	config := renderer.DefaultConfig()
	config.Width = opts.Width
	config.Height = opts.Height
	config.Workers = opts.Workers
	config.Seed = opts.Seed

	r, err := renderer.NewRenderer(config, logger)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.SetScene(s); err != nil {
		return err
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	frame, err := r.RenderSync(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("render did not finish within %v", opts.Timeout)
		}
		return err
	}

	logger.Printf("Rendered %dx%d at %d spp in %v (%.0f samples/s, average luminance %.3f)\n",
		frame.Stats.Width, frame.Stats.Height, frame.Stats.SamplesPerPixel,
		frame.Stats.Elapsed, frame.Stats.SamplesPerSecond(), frame.Stats.AverageLuminance)

	filename := outputPath(opts, time.Now())
	if err := savePNG(filename, frame.Image); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)
	return nil
}

func savePNG(filename string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}
	return nil
}
