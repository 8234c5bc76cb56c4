// Command bmpblend overlays one 32-bit bitmap onto another using the
// foreground's alpha channel and writes the result.
//
// Single job:
//
//	bmpblend -x 328 -y 245 hood.bmp cat.bmp blended.bmp
//
// Batch from a YAML job file (see internal/config):
//
//	bmpblend --config jobs.yaml
//
// Paths ending in .zst or .lz4 are compressed transparently.
package main

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/image/bmp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/bmpblend"
	"github.com/gogpu/bmpblend/internal/config"
	"github.com/gogpu/bmpblend/internal/stream"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	x, y       int
	repeat     int
	strategy   string
	configPath string
	preview    string
	verify     bool
	verbose    bool

	// strategySet reports an explicit --strategy; jobFlags lists the
	// per-job flags given on the command line.
	strategySet bool
	jobFlags    []string
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("bmpblend", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.IntVarP(&opts.x, "x", "x", 0, "overlay origin x (may be negative)")
	flagSet.IntVarP(&opts.y, "y", "y", 0, "overlay origin y (may be negative)")
	flagSet.IntVarP(&opts.repeat, "repeat", "n", 1, "apply the blend this many times")
	flagSet.StringVarP(&opts.strategy, "strategy", "s", "auto", "compositing kernel: scalar, lanes8, lanes32 or auto")
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "YAML job file (replaces positional arguments)")
	flagSet.StringVar(&opts.preview, "preview", "", "also write a PNG preview of the result")
	flagSet.BoolVar(&opts.verify, "verify", false, "re-decode the output with golang.org/x/image/bmp")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	flagSet.Usage = func() { printHelp(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	opts.strategySet = flagSet.Changed("strategy")
	for _, name := range []string{"x", "y", "repeat", "preview"} {
		if flagSet.Changed(name) {
			opts.jobFlags = append(opts.jobFlags, "--"+name)
		}
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	bmpblend.SetLogger(logger)
	defer bmpblend.SetLogger(nil)

	cfg, err := buildConfig(opts, flagSet.Args())
	if err != nil {
		return err
	}

	strategy, err := bmpblend.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}

	r := &runner{
		strategy: strategy,
		verify:   cfg.Verify,
		logger:   logger,
		printer:  message.NewPrinter(language.English),
		stdout:   stdout,
	}
	for i, job := range cfg.Jobs {
		if err := r.runJob(job); err != nil {
			return fmt.Errorf("job %d: %w", i, err)
		}
	}
	return nil
}

// buildConfig turns either the job file or the positional arguments into
// a validated configuration.
func buildConfig(opts options, args []string) (*config.Config, error) {
	if opts.configPath != "" {
		if len(args) > 0 {
			return nil, errors.New("positional arguments cannot be combined with --config")
		}
		if len(opts.jobFlags) > 0 {
			return nil, fmt.Errorf("%s cannot be combined with --config; set them per job in the file",
				strings.Join(opts.jobFlags, ", "))
		}
		cfg, err := config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		if opts.strategySet {
			cfg.Strategy = opts.strategy
		}
		if opts.verify {
			cfg.Verify = true
		}
		return cfg, nil
	}

	if len(args) != 3 {
		return nil, fmt.Errorf("expected BACKGROUND FOREGROUND OUTPUT, got %d arguments", len(args))
	}
	if opts.repeat < 1 {
		return nil, fmt.Errorf("--repeat must be at least 1, got %d", opts.repeat)
	}
	cfg := config.Default()
	cfg.Strategy = opts.strategy
	cfg.Verify = opts.verify
	cfg.Jobs = []config.Job{{
		Background: args[0],
		Foreground: args[1],
		Output:     args[2],
		Preview:    opts.preview,
		X:          opts.x,
		Y:          opts.y,
		Repeat:     opts.repeat,
	}}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type runner struct {
	strategy bmpblend.Strategy
	verify   bool
	logger   *slog.Logger
	printer  *message.Printer
	stdout   io.Writer
}

func (r *runner) runJob(job config.Job) error {
	bg, err := bmpblend.Load(job.Background)
	if err != nil {
		return err
	}
	defer bg.Release()

	fg, err := bmpblend.Load(job.Foreground)
	if err != nil {
		return err
	}
	defer fg.Release()

	for i := 0; i < job.Repeat; i++ {
		bg.Blend(fg, job.X, job.Y, bmpblend.WithStrategy(r.strategy))
	}

	if err := bg.Save(job.Output); err != nil {
		return err
	}
	if job.Preview != "" {
		if err := writePreview(job.Preview, bg); err != nil {
			return err
		}
	}
	if r.verify {
		if err := r.verifyOutput(job.Output, bg); err != nil {
			return err
		}
	}

	sum := bg.Checksum()
	r.logger.Info("blended",
		"background", job.Background,
		"foreground", job.Foreground,
		"output", job.Output,
		"repeat", job.Repeat,
		"strategy", string(r.strategy))
	_, err = r.printer.Fprintf(r.stdout, "%s: %d×%d, %d pixel bytes, blake3 %x\n",
		job.Output, bg.Width(), bg.Height(), len(bg.Pix()), sum[:8])
	return err
}

func writePreview(path string, img *bmpblend.Image) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img.NRGBA())
}

// verifyOutput re-reads path with golang.org/x/image/bmp and checks its
// geometry. That decoder rejects ALPHABITFIELDS and non-standard masks;
// such outputs are skipped with a warning.
func (r *runner) verifyOutput(path string, want *bmpblend.Image) error {
	rc, err := stream.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	cfg, err := bmp.DecodeConfig(rc)
	if errors.Is(err, bmp.ErrUnsupported) {
		r.logger.Warn("verify skipped: layout not supported by x/image/bmp",
			"output", path,
			"compression", want.Compression().String())
		return nil
	}
	if err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	if cfg.Width != want.Width() || cfg.Height != want.Height() {
		return fmt.Errorf("verify %s: decoded %dx%d, want %dx%d",
			path, cfg.Width, cfg.Height, want.Width(), want.Height())
	}
	r.logger.Debug("verified output", "output", path)
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `bmpblend - alpha-blend one 32-bit bitmap onto another

USAGE
  bmpblend [flags] BACKGROUND FOREGROUND OUTPUT
  bmpblend [--strategy S] [--verify] --config JOBS.yaml

With --config, origins, repeat counts and previews come from the job file.

FLAGS
%s`, flagSet.FlagUsages())
}
