// Command imgstrip removes images from article HTML.
//
// It reads aggregator configuration (rawdog's "name value" lines or
// YAML), applies the imgstrip option, and rewrites HTML from stdin or
// from the files named on the command line.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/njchilds90/imgstrip"
	"github.com/njchilds90/imgstrip/internal/config"
	"github.com/njchilds90/imgstrip/internal/hooks"
)

type flags struct {
	configPath string
	mode       string
	baseURL    string
	inPlace    bool
	jobs       int
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	var logger *zap.Logger

	cmd := &cobra.Command{
		Use:   "imgstrip [file...]",
		Short: "Replace images in article HTML with links, or remove them",
		Long: `imgstrip rewrites HTML so that it no longer loads images.

In "link" mode (the default) every <img> becomes <a class="imgbutton"
href="SRC">IMG</a>; an anchor wrapping the image is closed early. In
"none" mode images are removed. With no file arguments HTML is read from
stdin and written to stdout.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = buildLogger(f.verbose)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// PersistentPostRun is skipped when RunE fails.
			defer func() { _ = logger.Sync() }()
			return run(cmd.Context(), logger, f, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "config file (line format, or YAML for .yaml/.yml)")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", `strip mode: "link" or "none" (overrides the config file)`)
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "base URL passed to clean_html hooks")
	cmd.Flags().BoolVarP(&f.inPlace, "in-place", "w", false, "rewrite files in place instead of printing them")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 4, "files processed concurrently")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

var buildLogger = newLogger

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// setup loads configuration into a fresh plugin and returns the hook
// registry that drives it.
func setup(logger *zap.Logger, f flags) (*hooks.Registry, *imgstrip.Plugin, error) {
	plugin := imgstrip.NewPlugin(imgstrip.WithLogger(logger))
	reg := &hooks.Registry{}
	reg.AttachConfigOption(plugin.ConfigOption)
	reg.AttachCleanHTML(plugin.CleanHTML)

	var opts []config.Option
	if f.configPath != "" {
		var err error
		if opts, err = config.Load(f.configPath); err != nil {
			return nil, nil, err
		}
	}
	if f.mode != "" {
		opts = append(opts, config.Option{Name: imgstrip.OptionName, Value: f.mode, Source: "--mode"})
	}
	unhandled, err := config.Apply(opts, reg.ConfigOption)
	if err != nil {
		return nil, nil, err
	}
	for _, o := range unhandled {
		logger.Debug("ignoring config option", zap.String("name", o.Name), zap.Int("line", o.Line))
	}
	logger.Debug("configured", zap.Stringer("mode", plugin.Mode()))
	return reg, plugin, nil
}

func run(ctx context.Context, logger *zap.Logger, f flags, args []string, stdin io.Reader, stdout io.Writer) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg, _, err := setup(logger, f)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if f.inPlace {
			return fmt.Errorf("--in-place needs file arguments")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		body := string(data)
		reg.CleanHTML(&body, f.baseURL, false)
		_, err = io.WriteString(stdout, body)
		return err
	}

	results := make([]string, len(args))
	g, ctx := errgroup.WithContext(ctx)
	if f.jobs > 0 {
		g.SetLimit(f.jobs)
	}
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := rewriteFile(reg, path, f)
			if err != nil {
				return err
			}
			logger.Debug("rewrote file", zap.String("path", path), zap.Int("bytes", len(out)))
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if f.inPlace {
		return nil
	}

	var buf bytes.Buffer
	for _, r := range results {
		buf.WriteString(r)
	}
	_, err = buf.WriteTo(stdout)
	return err
}

func rewriteFile(reg *hooks.Registry, path string, f flags) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	body := string(data)
	reg.CleanHTML(&body, f.baseURL, false)
	if f.inPlace {
		if err := os.WriteFile(path, []byte(body), info.Mode().Perm()); err != nil {
			return "", err
		}
	}
	return body, nil
}
