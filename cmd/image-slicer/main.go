package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/image-slicer/internal/config"
	"github.com/ironsheep/image-slicer/internal/imaging"
	"github.com/ironsheep/image-slicer/internal/server"
	"github.com/ironsheep/image-slicer/internal/slicing"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const description = `Cut large images into overlapping tiles and reproject their bounding-box annotations onto each tile.`

// Globals are the flags shared by every command.
type Globals struct {
	Config  string `help:"Configuration file." type:"path" placeholder:"FILE"`
	Verbose bool   `short:"v" help:"Log every tile, not just errors."`

	cfg *config.Config
	out io.Writer
}

// load reads the configuration file. An explicit --config must exist; the
// default location is optional.
func (g *Globals) load() error {
	path := g.Config
	if path == "" {
		path = config.GetConfigPath()
		if _, err := os.Stat(path); err != nil {
			g.cfg = config.Default()
			return nil
		}
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return err
	}
	g.cfg = cfg
	return nil
}

// TilingFlags override the configured tile size and overlap. Negative
// values keep the configuration.
type TilingFlags struct {
	SliceHeight   int     `help:"Tile height in pixels." default:"-1"`
	SliceWidth    int     `help:"Tile width in pixels." default:"-1"`
	OverlapHeight float64 `help:"Vertical overlap ratio in [0, 1)." default:"-1"`
	OverlapWidth  float64 `help:"Horizontal overlap ratio in [0, 1)." default:"-1"`
	NoAuto        bool    `help:"Disable automatic tile sizing; requires --slice-height and --slice-width."`
}

func (f TilingFlags) apply(opts slicing.Options) slicing.Options {
	if f.SliceHeight >= 0 {
		opts.SliceHeight = f.SliceHeight
	}
	if f.SliceWidth >= 0 {
		opts.SliceWidth = f.SliceWidth
	}
	if f.OverlapHeight >= 0 {
		opts.OverlapHeightRatio = f.OverlapHeight
	}
	if f.OverlapWidth >= 0 {
		opts.OverlapWidthRatio = f.OverlapWidth
	}
	if f.NoAuto {
		opts.AutoSliceResolution = false
	}
	return opts
}

// SliceCmd cuts one image into tiles.
type SliceCmd struct {
	TilingFlags

	Image          string  `arg:"" help:"Image to slice." type:"existingfile"`
	Labels         string  `help:"Annotation file for the whole image." type:"path" placeholder:"FILE"`
	Out            string  `help:"Output directory. A '*' becomes 'images' for tiles and 'labels' for annotation files." placeholder:"DIR"`
	Name           string  `help:"Naming root for output files. Defaults to the image file name."`
	MinAreaRatio   float64 `help:"Minimum fraction of an annotation that must fall inside a tile." default:"-1"`
	MinAnnotations int     `help:"Only write tiles with at least this many annotations." default:"-1"`
	Ext            string  `help:"Tile image extension."`
	Lossless       bool    `help:"Encode .webp tiles losslessly."`
}

func (c *SliceCmd) Run(g *Globals) error {
	opts := c.apply(g.cfg.SliceOptions())
	if c.MinAreaRatio >= 0 {
		opts.MinAreaRatio = c.MinAreaRatio
	}
	if c.MinAnnotations >= 0 {
		opts.MinOutSliceAnnotations = c.MinAnnotations
	}
	if c.Ext != "" {
		opts.OutExt = c.Ext
	}

	out := c.Out
	if out == "" {
		out = g.cfg.Output.OutputDir
	}
	name := c.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(c.Image), filepath.Ext(c.Image))
	}

	saver := imaging.NewSaver(opts.JPEGQuality)
	saver.Lossless = c.Lossless || g.cfg.Output.LosslessWebP

	s := slicing.New(opts)
	s.SetSaver(saver)
	s.SetReporter(slicing.NewLogReporter(log.Default(), g.Verbose))

	res, err := s.Slice(slicing.Request{
		ImagePath:      c.Image,
		AnnotationPath: c.Labels,
		OutputName:     name,
		OutputDir:      out,
	})
	if res == nil {
		if err != nil {
			return err
		}
		fmt.Fprintf(g.out, "%s: skipped, too few annotations\n", c.Image)
		return nil
	}

	written := 0
	for _, sl := range res.Slices() {
		if sl.Exported {
			written++
		}
	}
	fmt.Fprintf(g.out, "%s: %d tiles of %dx%d, %d written to %s\n",
		c.Image, res.Len(), res.Params.TileWidth, res.Params.TileHeight, written, res.ImageDir)
	return err
}

// PlanCmd prints the tile rectangles without extracting pixels.
type PlanCmd struct {
	TilingFlags

	Image string `arg:"" help:"Image to plan." type:"existingfile"`
	JSON  bool   `help:"Print the plan as JSON."`
}

func (c *PlanCmd) Run(g *Globals) error {
	dims, err := imaging.GetDimensions(imaging.NewImageCache(), c.Image)
	if err != nil {
		return err
	}
	params, tiles, err := slicing.Plan(dims.Height, dims.Width, c.apply(g.cfg.SliceOptions()))
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(g.out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"width":  dims.Width,
			"height": dims.Height,
			"params": params,
			"tiles":  tiles,
		})
	}

	mode := "explicit"
	if params.Resolution != "" {
		mode = fmt.Sprintf("auto %s %s", params.Orientation, params.Resolution)
	}
	fmt.Fprintf(g.out, "%dx%d (%s): %d tiles of %dx%d, overlap %.2f x %.2f\n",
		dims.Width, dims.Height, mode, len(tiles),
		params.TileWidth, params.TileHeight, params.OverlapWidthRatio, params.OverlapHeightRatio)
	for i, t := range tiles {
		fmt.Fprintf(g.out, "%4d  %s\n", i, t.Suffix())
	}
	return nil
}

// OverlayCmd renders the tile plan over the image.
type OverlayCmd struct {
	TilingFlags

	Image     string `arg:"" help:"Image to draw on." type:"existingfile"`
	Labels    string `help:"Annotation file whose boxes are drawn." type:"path" placeholder:"FILE"`
	Output    string `short:"o" help:"Output image file." required:"" type:"path"`
	TileColor string `help:"Tile outline color (#RRGGBB or #RRGGBBAA)."`
	NoIndices bool   `help:"Do not draw tile indices."`
}

func (c *OverlayCmd) Run(g *Globals) error {
	img, err := imaging.Open(c.Image)
	if err != nil {
		return err
	}
	b := img.Bounds()
	_, tiles, err := slicing.Plan(b.Dy(), b.Dx(), c.apply(g.cfg.SliceOptions()))
	if err != nil {
		return err
	}

	var anns []slicing.Annotation
	if c.Labels != "" {
		if anns, err = slicing.ReadImageAnnotations(c.Labels, b.Dx(), b.Dy()); err != nil {
			return err
		}
	}

	color := c.TileColor
	if color == "" {
		color = g.cfg.Overlay.TileColor
	}
	showIndices := g.cfg.Overlay.ShowIndices && !c.NoIndices

	out := slicing.RenderPlan(img, tiles, anns, color, showIndices)
	if err := imaging.NewSaver(g.cfg.Output.JPEGQuality).Save(out, c.Output); err != nil {
		return err
	}
	fmt.Fprintf(g.out, "%s: %d tiles, %d boxes\n", c.Output, len(tiles), len(anns))
	return nil
}

// ServeCmd runs the MCP server on stdin/stdout.
type ServeCmd struct{}

func (c *ServeCmd) Run(g *Globals) error {
	logLevel := os.Getenv("IMAGE_SLICER_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Image Slicer MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(g.cfg)
	srv.SetVerbose(g.Verbose || logLevel == "debug")
	return srv.Run()
}

// VersionCmd prints build information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintf(g.out, "image-slicer %s\n", Version)
	fmt.Fprintf(g.out, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(g.out, "  Git commit: %s\n", GitCommit)
	return nil
}

// CLI is the command-line grammar.
type CLI struct {
	Globals

	Slice   SliceCmd   `cmd:"" help:"Cut an image into tiles and reproject its annotations."`
	Plan    PlanCmd    `cmd:"" help:"Print the tiles an image would be cut into."`
	Overlay OverlayCmd `cmd:"" help:"Draw the tile plan and annotations over an image."`
	Serve   ServeCmd   `cmd:"" help:"Run the MCP server on stdin/stdout."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

func main() {
	// Logging goes to stderr; stdout carries command output and the MCP protocol
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("image-slicer"),
		kong.Description(description),
		kong.UsageOnError(),
	)

	cli.Globals.out = os.Stdout
	ctx.FatalIfErrorf(run(ctx, &cli.Globals))
}

func run(ctx *kong.Context, g *Globals) error {
	if err := g.load(); err != nil {
		return err
	}
	if err := g.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return ctx.Run(g)
}
