// Package main is the netpbm-tools command: an MCP server over stdio plus
// one-shot conversion commands.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ironsheep/netpbm-tools/internal/imaging"
	"github.com/ironsheep/netpbm-tools/internal/logging"
	"github.com/ironsheep/netpbm-tools/internal/netpbm"
	"github.com/ironsheep/netpbm-tools/internal/ocr"
	"github.com/ironsheep/netpbm-tools/internal/pnmfile"
	"github.com/ironsheep/netpbm-tools/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	// Flags.
	flagLogLevel       = "log-level"
	flagTessdata       = "tessdata"
	flagPreviewMaxSize = "preview-max-size"
	flagFormat         = "format"
	flagMode           = "mode"
	flagDepth          = "depth"
	flagThreshold      = "threshold"
	flagQuality        = "quality"
	flagUncompressed   = "uncompressed"
	flagLanguage       = "lang"
	flagWhitelist      = "whitelist"

	defaultPreviewMaxSize = 1024
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var logger *zap.SugaredLogger

	targetFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  flagFormat,
			Usage: "output format: pbm, pgm or ppm",
		},
		&cli.StringFlag{
			Name:  flagMode,
			Value: "binary",
			Usage: "pixel encoding: ascii or binary",
		},
		&cli.StringFlag{
			Name:  flagDepth,
			Usage: "bits per sample: 8 or 16",
		},
		&cli.IntFlag{
			Name:  flagThreshold,
			Value: imaging.DefaultBitmapThreshold,
			Usage: "brightness below which pixels become black in a pbm",
		},
	}

	return &cli.App{
		Name:            "netpbm-tools",
		Usage:           "read, write and convert PBM, PGM and PPM images",
		Version:         fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagLogLevel,
				Value:   "info",
				EnvVars: []string{"NETPBM_TOOLS_LOG_LEVEL"},
				Usage:   "log level: debug, info, warn or error",
			},
		},
		Before: func(c *cli.Context) error {
			var err error
			logger, err = logging.NewLogger("netpbm-tools", c.String(flagLogLevel))
			return err
		},
		After: func(c *cli.Context) error {
			if logger != nil {
				// stderr can not always be synced; nothing useful to do about it
				_ = logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the MCP server on stdin and stdout",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    flagTessdata,
						EnvVars: []string{"TESSDATA_PREFIX"},
						Usage:   "directory holding Tesseract `*.traineddata` files",
					},
					&cli.IntFlag{
						Name:  flagPreviewMaxSize,
						Value: defaultPreviewMaxSize,
						Usage: "longest side of returned previews, 0 for unlimited",
					},
				},
				Action: func(c *cli.Context) error {
					srv := server.New(logger, server.Config{
						Version:        Version,
						TessdataPrefix: c.String(flagTessdata),
						PreviewMaxSize: c.Int(flagPreviewMaxSize),
					})
					return srv.Run()
				},
			},
			{
				Name:      "info",
				Usage:     "print the header of a netpbm file",
				ArgsUsage: "FILE",
				Action:    infoAction,
			},
			{
				Name:      "recode",
				Usage:     "change the encoding, depth or format of a netpbm file",
				ArgsUsage: "IN OUT",
				Flags:     targetFlags,
				Action: func(c *cli.Context) error {
					return recodeAction(c, logger)
				},
			},
			{
				Name:      "import",
				Usage:     "convert a PNG, JPEG, GIF, BMP or TIFF image to netpbm",
				ArgsUsage: "IN OUT",
				Flags:     targetFlags,
				Action: func(c *cli.Context) error {
					return importAction(c, logger)
				},
			},
			{
				Name:      "export",
				Usage:     "convert a netpbm file to the format named by OUT's extension",
				ArgsUsage: "IN OUT",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagQuality,
						Value: imaging.DefaultJPEGQuality,
						Usage: "JPEG quality 1-100",
					},
					&cli.BoolFlag{
						Name:  flagUncompressed,
						Usage: "write TIFF without compression",
					},
				},
				Action: func(c *cli.Context) error {
					return exportAction(c, logger)
				},
			},
			{
				Name:      "ocr",
				Usage:     "print the text found in a netpbm file",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagLanguage,
						Value: ocr.DefaultLanguage,
						Usage: "Tesseract language code",
					},
					&cli.StringFlag{
						Name:  flagWhitelist,
						Usage: "characters to restrict recognition to",
					},
					&cli.StringFlag{
						Name:    flagTessdata,
						EnvVars: []string{"TESSDATA_PREFIX"},
						Usage:   "directory holding Tesseract `*.traineddata` files",
					},
				},
				Action: ocrAction,
			},
		},
	}
}

// args returns the command's positional arguments, which must number n.
func args(c *cli.Context, n int) ([]string, error) {
	if c.NArg() != n {
		return nil, errors.Errorf("%s: expected %d arguments, got %d (usage: %s)",
			c.Command.Name, n, c.NArg(), c.Command.ArgsUsage)
	}
	return c.Args().Slice(), nil
}

// target resolves the format flags against the given defaults.
func target(c *cli.Context, variant netpbm.Variant, depth netpbm.Depth) (netpbm.Variant, netpbm.Depth, netpbm.Mode, error) {
	var err error
	if s := c.String(flagFormat); s != "" {
		if variant, err = netpbm.ParseVariant(s); err != nil {
			return 0, 0, 0, err
		}
	}
	if s := c.String(flagDepth); s != "" {
		if depth, err = netpbm.ParseDepth(s); err != nil {
			return 0, 0, 0, err
		}
	}
	mode, err := netpbm.ParseMode(c.String(flagMode))
	if err != nil {
		return 0, 0, 0, err
	}
	return variant, depth, mode, nil
}

func infoAction(c *cli.Context) error {
	a, err := args(c, 1)
	if err != nil {
		return err
	}
	h, comp, err := pnmfile.LoadHeader(a[0])
	if err != nil {
		return err
	}

	magic := h.Variant.Magic(h.Mode)
	w := c.App.Writer
	fmt.Fprintf(w, "magic:       %s\n", magic[:])
	fmt.Fprintf(w, "format:      %s (%s)\n", h.Variant.Extension(), h.Variant)
	fmt.Fprintf(w, "encoding:    %s\n", h.Mode)
	fmt.Fprintf(w, "size:        %dx%d\n", h.Width, h.Height)
	fmt.Fprintf(w, "max value:   %d (%s)\n", h.MaxValue, h.Depth)
	fmt.Fprintf(w, "data offset: %d\n", h.DataOffset)
	fmt.Fprintf(w, "compression: %s\n", comp)
	return nil
}

func recodeAction(c *cli.Context, logger *zap.SugaredLogger) error {
	a, err := args(c, 2)
	if err != nil {
		return err
	}
	img, err := pnmfile.Load(a[0])
	if err != nil {
		return err
	}
	variant, depth, mode, err := target(c, img.Variant, img.Depth)
	if err != nil {
		return err
	}

	out, err := imaging.Recode(img, variant, depth, c.Int(flagThreshold))
	if err != nil {
		return err
	}
	if err := pnmfile.Save(a[1], out, mode); err != nil {
		return err
	}
	logger.Infow("recoded", "in", a[0], "out", a[1],
		"format", out.Variant.Extension(), "mode", mode, "depth", out.Depth)
	return nil
}

func importAction(c *cli.Context, logger *zap.SugaredLogger) error {
	a, err := args(c, 2)
	if err != nil {
		return err
	}
	variant, depth, mode, err := target(c, netpbm.Pixmap, netpbm.Eight)
	if err != nil {
		return err
	}

	img, err := imaging.Import(a[0], variant, depth, c.Int(flagThreshold))
	if err != nil {
		return err
	}
	if err := pnmfile.Save(a[1], img, mode); err != nil {
		return err
	}
	logger.Infow("imported", "in", a[0], "out", a[1],
		"format", img.Variant.Extension(), "width", img.Width, "height", img.Height)
	return nil
}

func exportAction(c *cli.Context, logger *zap.SugaredLogger) error {
	a, err := args(c, 2)
	if err != nil {
		return err
	}
	img, err := pnmfile.Load(a[0])
	if err != nil {
		return err
	}

	opts := imaging.ExportOptions{
		Quality:      c.Int(flagQuality),
		Uncompressed: c.Bool(flagUncompressed),
	}
	if err := imaging.ExportFile(img, a[1], opts); err != nil {
		return err
	}
	logger.Infow("exported", "in", a[0], "out", a[1])
	return nil
}

func ocrAction(c *cli.Context) error {
	a, err := args(c, 1)
	if err != nil {
		return err
	}
	img, err := pnmfile.Load(a[0])
	if err != nil {
		return err
	}

	result, err := ocr.ExtractText(img, ocr.Options{
		Language:       c.String(flagLanguage),
		Whitelist:      c.String(flagWhitelist),
		TessdataPrefix: c.String(flagTessdata),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, strings.TrimSpace(result.FullText))
	return nil
}
