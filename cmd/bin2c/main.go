// Package main is the entry point for bin2c, which turns binary files into
// C headers holding a byte array and its size for each input.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/vitalis-app/bin2c/internal/config"
	"github.com/vitalis-app/bin2c/internal/emitter"
	"github.com/vitalis-app/bin2c/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	output      string
	progmem     bool
	strict      bool
	toStdout    bool
	outputDir   string
	configPath  string
	logLevel    string
	writeConfig string
	showVersion bool
	inputs      []string
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("bin2c", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.output, "o", "", "output file basename (default: one header per input, named after it)")
	fs.BoolVar(&opts.progmem, "progmem", false, "place arrays in PROGMEM (Arduino and alike)")
	fs.BoolVar(&opts.strict, "strict", false, "fail when two inputs map to the same symbol")
	fs.StringVar(&opts.outputDir, "output-dir", "", "directory for generated headers, created if missing")
	fs.BoolVar(&opts.toStdout, "stdout", false, "write headers to standard output instead of files")
	fs.StringVar(&opts.configPath, "config", "", "path to configuration file (default: auto-discover)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&opts.writeConfig, "write-config", "", "write the effective configuration to this path and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "show version and exit")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: bin2c [flags] input [input ...]")
		fmt.Fprintln(fs.Output(), "\nCreate a C header out of one or more binaries.\n\nflags:")
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses flags and positional inputs, allowing them to be mixed.
func parseArgs(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := newFlagSet(opts, stderr)
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fs, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			break
		}
		// Everything after "--" is positional.
		if endsWithTerminator(fs, args[:len(args)-len(rest)]) {
			opts.inputs = append(opts.inputs, rest...)
			break
		}
		opts.inputs = append(opts.inputs, rest[0])
		args = rest[1:]
	}
	return opts, fs, nil
}

// endsWithTerminator reports whether the last token consumed by fs.Parse was
// a "--" terminator rather than the value of a flag.
func endsWithTerminator(fs *flag.FlagSet, consumed []string) bool {
	for i := 0; i < len(consumed); i++ {
		arg := consumed[i]
		if arg == "--" {
			return i == len(consumed)-1
		}
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			continue
		}
		// The next token is this flag's value.
		i++
	}
	return false
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "bin2c %s\n", version)
		return exitOK
	}

	if len(opts.inputs) == 0 && opts.writeConfig == "" {
		fmt.Fprintln(stderr, "bin2c: at least one input file is required")
		fs.Usage()
		return exitUsage
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(stderr, "Failed to load .env: %v\n", err)
		return exitError
	}

	cli := config.CLIOverrides{
		Progmem:       opts.progmem,
		StrictSymbols: opts.strict,
		OutputDir:     opts.outputDir,
		LogLevel:      opts.logLevel,
	}
	var cfg *config.Config
	if opts.configPath != "" {
		cfg, err = config.LoadLayered(cli, opts.configPath)
	} else {
		cfg, err = config.LoadLayered(cli)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return exitError
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return exitError
	}

	logger, closer := logging.New(cfg.Logging, stderr)
	defer func() {
		_ = logger.Sync()
		_ = closer.Close()
	}()

	if opts.writeConfig != "" {
		if err := config.WriteConfig(cfg, opts.writeConfig); err != nil {
			logger.Error("Failed to write config", zap.Error(err))
			return exitError
		}
		logger.Info("Configuration written", zap.String("path", opts.writeConfig))
		if len(opts.inputs) == 0 {
			return exitOK
		}
	}

	return convert(opts, cfg, stdout, logger)
}

// convert plans the output sets and emits every one of them. The first
// failure aborts the run.
func convert(opts *options, cfg *config.Config, stdout io.Writer, logger *zap.Logger) int {
	sets, err := emitter.Plan(opts.output, opts.inputs)
	if err != nil {
		logger.Error("Nothing to convert", zap.Error(err))
		return exitUsage
	}

	em := emitter.New(emitter.Options{
		Progmem:       cfg.Output.Progmem,
		StrictSymbols: cfg.Output.StrictSymbols,
		OutputDir:     cfg.Output.Dir,
	}, logger)

	logger.Debug("Converting",
		zap.Int("inputs", len(opts.inputs)),
		zap.Int("headers", len(sets)),
		zap.Bool("progmem", cfg.Output.Progmem))

	for _, set := range sets {
		if opts.toStdout {
			if err := em.Render(stdout, set); err != nil {
				logger.Error("Conversion failed", zap.String("output", set.Base), zap.Error(err))
				return exitError
			}
			continue
		}

		path, err := em.WriteSet(set)
		if err != nil {
			logger.Error("Conversion failed", zap.String("output", set.Base), zap.Error(err))
			return exitError
		}
		logger.Info("Header written",
			zap.String("path", path),
			zap.Strings("inputs", set.Inputs))
	}
	return exitOK
}
