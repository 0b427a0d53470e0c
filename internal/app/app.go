// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package app is the fontgrab command line application.
package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cristalhq/acmd"

	"codeberg.org/readeck/fontgrab/configs"
	"codeberg.org/readeck/fontgrab/internal/httpclient"
)

// Version is the application version, set at build time.
var Version = "dev"

var commands = []acmd.Command{}

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	// newClient returns the HTTP client used by every command.
	newClient = httpclient.New

	logger *slog.Logger
)

var errUsage = errors.New("usage error")

// appFlags are the flags shared by every command.
type appFlags struct {
	URL        string
	ConfigFile string
	OutputDir  string
	LogLevel   string
	NoColor    bool

	fs *flag.FlagSet
}

// Flags returns a new [flag.FlagSet] bound to the [appFlags] instance.
func (f *appFlags) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.URL, "url", "", "stylesheet URL")
	fs.StringVar(&f.ConfigFile, "config", "", "configuration file")
	fs.StringVar(&f.OutputDir, "out", "", "output directory (default \"downloads\")")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&f.NoColor, "no-color", false, "disable colored output")
	f.fs = fs

	return fs
}

// parse parses the command line arguments. A positional argument is
// accepted as the stylesheet URL when -url is not set.
func (f *appFlags) parse(args []string) error {
	if err := f.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	if f.URL == "" {
		f.URL = f.fs.Arg(0)
	}
	f.URL = strings.TrimSpace(f.URL)

	return nil
}

// config loads the configuration and applies the flags that were
// explicitly set on the command line.
func (f *appFlags) config() (*configs.Config, error) {
	cfg, err := configs.Load(f.ConfigFile)
	if err != nil {
		return nil, err
	}

	var ferr error
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "out":
			cfg.OutputDir = f.OutputDir
		case "log-level":
			if err := cfg.LogLevel.UnmarshalText([]byte(f.LogLevel)); err != nil {
				ferr = fmt.Errorf("%w: %w", configs.ErrConfig, err)
			}
		case "no-color":
			cfg.NoColor = f.NoColor
		}
	})
	if ferr != nil {
		return nil, ferr
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// appPreRun loads the configuration and sets up the logger.
func appPreRun(flags *appFlags) (*configs.Config, error) {
	cfg, err := flags.config()
	if err != nil {
		return nil, err
	}

	logger = newLogger(stderr, cfg.LogLevel, cfg.NoColor)
	return cfg, nil
}

// appClient returns a new HTTP client configured with cfg.
func appClient(cfg *configs.Config) *http.Client {
	client := newClient()
	client.Timeout = time.Duration(cfg.Timeout)

	if t, ok := client.Transport.(*httpclient.Transport); ok {
		t.SetLogger(logger)
		if cfg.UserAgent != "" {
			t.SetHeader(func(h http.Header) {
				h.Set("User-Agent", cfg.UserAgent)
			})
		}
	}

	return client
}

func log() *slog.Logger {
	if logger == nil {
		logger = newLogger(stderr, slog.LevelInfo, true)
	}
	return logger
}

// Run runs the application with the given arguments
// and returns the process exit code.
func Run(args []string) int {
	logger = nil

	if len(args) == 0 {
		_ = runner([]string{"help"}).Run()
		return exitUsage
	}

	if err := runner(args).Run(); err != nil {
		log().Error(err.Error())
		return exitCodeFor(err)
	}

	return exitOK
}

func runner(args []string) *acmd.Runner {
	return acmd.RunnerOf(commands, acmd.Config{
		AppName:        "fontgrab",
		AppDescription: "Download the web fonts of a stylesheet and rewrite it to use local copies.",
		Version:        Version,
		Args:           args,
		Output:         stderr,
	})
}
