// Package main provides the CLI entry point for framepipe.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/framepipe/pkg/adapters/hostmem"
	"github.com/user/framepipe/pkg/adapters/logger"
	"github.com/user/framepipe/pkg/adapters/mp4source"
	"github.com/user/framepipe/pkg/adapters/nullsink"
	"github.com/user/framepipe/pkg/adapters/nv12rgb"
	"github.com/user/framepipe/pkg/adapters/osfilesystem"
	"github.com/user/framepipe/pkg/adapters/pngsink"
	"github.com/user/framepipe/pkg/adapters/swengine"
	"github.com/user/framepipe/pkg/codec"
	"github.com/user/framepipe/pkg/config"
	"github.com/user/framepipe/pkg/ports"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Decode  DecodeCmd  `cmd:"" help:"Decode an MP4 file into PNG frames."`
	Probe   ProbeCmd   `cmd:"" help:"Show the video track geometry of an MP4 file."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// DecodeCmd defines the decode subcommand.
type DecodeCmd struct {
	Input  string `arg:"" help:"Input MP4 file path."`
	Output string `short:"o" default:"./frames" help:"Output directory for PNG frames."`

	// Config file; CLI flags override its values.
	Config string `short:"C" help:"YAML configuration file path."`

	// Decode target (default: stream geometry)
	Width  *int `short:"W" help:"Target frame width."`
	Height *int `short:"H" help:"Target frame height (must be even)."`

	MaxFrames *int `short:"n" help:"Stop after this many frames (0 = all)."`

	// Output options
	ThumbnailWidth *int `help:"Also write thumbnails scaled to this width."`
	Annotate       bool `help:"Overlay frame number and timestamp onto output."`

	// DryRun decodes without writing any output, for timing runs.
	DryRun bool `help:"Decode without writing frames."`

	// Logging options
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// ProbeCmd defines the probe subcommand.
type ProbeCmd struct {
	Input string `arg:"" help:"Input MP4 file path."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("framepipe"),
		kong.Description("Decode H.264 video into image frames."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the decode command.
func (cmd *DecodeCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}

	var log ports.Logger
	if cmd.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cmd.LogLevel))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	info, err := mp4source.ProbeFile(cfg.InputPath)
	if err != nil {
		return err
	}
	width, height := cfg.Width, cfg.Height
	if width == 0 {
		width, height = info.Width, info.Height
	}

	packets, err := mp4source.ReadFile(cfg.InputPath)
	if err != nil {
		return err
	}

	dec, err := codec.NewDecoder(codec.Options{
		Engine:       swengine.New(log),
		Allocator:    hostmem.New(),
		NewConverter: nv12rgb.Factory,
		Logger:       log,
	})
	if err != nil {
		return err
	}
	defer dec.Close()

	var sink ports.FrameSink
	if cmd.DryRun {
		sink = nullsink.New()
	} else {
		sink = pngsink.New(cfg.OutputDir, osfilesystem.New(), pngsink.Options{
			ThumbnailWidth: cfg.ThumbnailWidth,
			Annotate:       cfg.Annotate,
		})
	}

	log.Info(l10n.F("Decoding %s at %dx%d", cfg.InputPath, width, height))

	dst := make([]byte, width*height*3)
	count := 0
	for i, pkt := range packets {
		if cfg.MaxFrames > 0 && count >= cfg.MaxFrames {
			break
		}
		if err := dec.Decode(ctx, pkt.Data, dst, width, height); err != nil {
			if errors.Is(err, codec.ErrMetadataOnly) {
				log.Debug(l10n.F("Skipping frame %d: %s", i, err.Error()))
				continue
			}
			return err
		}
		if err := sink.SaveFrame(count, pkt.TimestampMs, dst, width, height); err != nil {
			return err
		}
		count++
	}

	log.Info(l10n.F("Decoded %d frames", count))
	return nil
}

// buildConfig loads the config file if given and applies CLI overrides.
func (cmd *DecodeCmd) buildConfig() (config.Config, error) {
	cfg := config.Defaults()
	if cmd.Config != "" {
		var err error
		if cfg, err = config.LoadFromFile(cmd.Config); err != nil {
			return cfg, err
		}
	}

	cfg.InputPath = cmd.Input
	if cmd.Output != "" {
		cfg.OutputDir = cmd.Output
	}
	if cmd.Width != nil {
		cfg.Width = *cmd.Width
	}
	if cmd.Height != nil {
		cfg.Height = *cmd.Height
	}
	if cmd.MaxFrames != nil {
		cfg.MaxFrames = *cmd.MaxFrames
	}
	if cmd.ThumbnailWidth != nil {
		cfg.ThumbnailWidth = *cmd.ThumbnailWidth
	}
	if cmd.Annotate {
		cfg.Annotate = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	info, err := mp4source.ProbeFile(cmd.Input)
	if err != nil {
		return err
	}

	layout := "progressive"
	if info.Fragmented {
		layout = "fragmented"
	}
	scan := "progressive scan"
	if !info.Progressive {
		scan = "interlaced"
	}
	fmt.Printf("%s: %dx%d, %d-bit, %s, %s", cmd.Input, info.Width, info.Height, info.BitDepth, scan, layout)
	if info.PacketCount > 0 {
		fmt.Printf(", %d samples", info.PacketCount)
	}
	fmt.Println()
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("framepipe version %s", version))
	return nil
}
