package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/region-ruler-mcp/internal/config"
	"github.com/ironsheep/region-ruler-mcp/internal/imaging"
	"github.com/ironsheep/region-ruler-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// CLI is the command line grammar.
type CLI struct {
	Config string `help:"YAML config file. Falls back to the REGION_RULER_CONFIG environment variable." type:"path"`
	Format string `help:"Output format for measure and rect." enum:"json,yaml" default:"json" short:"f"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the MCP server on stdin/stdout."`
	Measure MeasureCmd `cmd:"" help:"Measure the region through a seed point."`
	Rect    RectCmd    `cmd:"" help:"Refine the rectangle between two corners."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// runContext is bound into every command's Run method.
type runContext struct {
	ctx    context.Context
	cfg    config.Config
	log    *slog.Logger
	format string
	stdin  io.Reader
	stdout io.Writer
}

// ServeCmd runs the MCP server.
type ServeCmd struct{}

func (c *ServeCmd) Run(rc *runContext) error {
	rc.log.Debug("starting", "version", Version, "build_time", BuildTime, "commit", GitCommit)
	srv := server.New(rc.cfg, rc.log)
	return srv.Run(rc.ctx, rc.stdin, rc.stdout)
}

// MeasureOptions are shared by measure and rect.
type MeasureOptions struct {
	Image     string   `arg:"" help:"Image file to measure." type:"existingfile"`
	Tolerance *float64 `help:"Maximum RGBA distance for a pixel to match (0-510). Defaults to the configured tolerance." short:"t"`
	Overlay   string   `help:"Also write a PNG with the result outlined to this file." type:"path"`
}

func (o MeasureOptions) tolerance(cfg config.Config) float64 {
	if o.Tolerance == nil {
		return cfg.ClampTolerance(cfg.DefaultTolerance)
	}
	return cfg.ClampTolerance(*o.Tolerance)
}

// MeasureCmd prints the ray extent through a seed point.
type MeasureCmd struct {
	MeasureOptions
	X int `help:"Seed X coordinate." required:""`
	Y int `help:"Seed Y coordinate." required:""`
}

func (c *MeasureCmd) Run(rc *runContext) error {
	cache := imaging.NewImageCache(rc.cfg.AutoOrient)
	buf, err := cache.Buffer(c.Image)
	if err != nil {
		return err
	}

	result, err := imaging.MeasureRegion(buf, c.X, c.Y, c.tolerance(rc.cfg))
	if err != nil {
		return err
	}
	rc.log.Debug("measured", "image", c.Image, "x", c.X, "y", c.Y, "width", result.Width, "height", result.Height)

	if c.Overlay != "" {
		img, err := cache.Load(c.Image)
		if err != nil {
			return err
		}
		if err := writeOverlay(c.Overlay, img, result.Box(), &result.Seed, rc.cfg.OverlayColor); err != nil {
			return err
		}
	}
	return writeResult(rc.stdout, rc.format, result)
}

// RectCmd prints the refined rectangle between two corners.
type RectCmd struct {
	MeasureOptions
	X1 int `name:"x1" help:"First corner X." required:""`
	Y1 int `name:"y1" help:"First corner Y." required:""`
	X2 int `name:"x2" help:"Second corner X." required:""`
	Y2 int `name:"y2" help:"Second corner Y." required:""`
}

func (c *RectCmd) Run(rc *runContext) error {
	cache := imaging.NewImageCache(rc.cfg.AutoOrient)
	buf, err := cache.Buffer(c.Image)
	if err != nil {
		return err
	}

	result, err := imaging.DetectRectangle(rc.ctx, buf, c.tolerance(rc.cfg), c.X1, c.Y1, c.X2, c.Y2, rc.cfg.ConcurrentScans)
	if err != nil {
		return err
	}
	if result.Empty {
		rc.log.Warn("no boundary inside the selection", "image", c.Image)
	}

	if c.Overlay != "" && !result.Empty {
		img, err := cache.Load(c.Image)
		if err != nil {
			return err
		}
		if err := writeOverlay(c.Overlay, img, result.Box(), nil, rc.cfg.OverlayColor); err != nil {
			return err
		}
	}
	return writeResult(rc.stdout, rc.format, result)
}

// VersionCmd prints build metadata.
type VersionCmd struct{}

func (c *VersionCmd) Run(rc *runContext) error {
	fmt.Fprintf(rc.stdout, "region-ruler %s\n", Version)
	fmt.Fprintf(rc.stdout, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(rc.stdout, "  Git commit: %s\n", GitCommit)
	return nil
}

func writeResult(w io.Writer, format string, v interface{}) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func writeOverlay(path string, img image.Image, box imaging.Box, seed *imaging.Point, colorHex string) error {
	var p *image.Point
	if seed != nil {
		p = &image.Point{X: seed.X, Y: seed.Y}
	}
	o, err := imaging.Overlay(img, box, p, colorHex)
	if err != nil {
		return err
	}
	data, err := base64.StdEncoding.DecodeString(o.ImageBase64)
	if err != nil {
		return fmt.Errorf("failed to decode overlay: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write overlay %q: %w", path, err)
	}
	return nil
}

// run parses args and executes the selected command.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("region-ruler"),
		kong.Description("Measure solid-color regions in images, standalone or as an MCP server."),
		kong.UsageOnError(),
		kong.Writers(stdout, os.Stderr),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	server.Version = Version

	return kctx.Run(&runContext{
		ctx:    ctx,
		cfg:    cfg,
		log:    logger,
		format: cli.Format,
		stdin:  stdin,
		stdout: stdout,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		slog.Error("region-ruler failed", "err", err)
		os.Exit(1)
	}
}
