package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"

	"reports/internal/core/version"
	"reports/internal/modkit"
	"reports/internal/platform/config"
	perr "reports/internal/platform/errors"
	"reports/internal/platform/logger"
	convertmod "reports/internal/services/convert/module"

	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run parses flags over env defaults, converts once and returns the process exit code
func run(ctx context.Context, args []string, stdout io.Writer) int {
	lo := logger.FromEnv()
	if lo.Service == "" {
		lo.Service = "reports-convert"
	}
	logger.Init(lo)
	l := logger.Get()

	root := config.New()
	opts := convertmod.FromConfig(root)

	fs := flag.NewFlagSet("reports-convert", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var (
		fIn      = fs.String("in", opts.Input, "input JSON-lines file (plain, gzip or zstd)")
		fOut     = fs.String("out", opts.Output, "output CSV file (.gz or .zst to compress)")
		fOrder   = fs.String("order", opts.Order, "column order: first-seen | sorted")
		fDelim   = fs.String("delimiter", string(opts.Delimiter), `field delimiter, a single character (\t for tab)`)
		fMaxLine = fs.Int("max-line", opts.MaxLineBytes, "maximum bytes in one input line")
		fVersion = fs.Bool("version", false, "print build info and exit")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return perr.ExitOK
		}
		return perr.ExitUsage
	}
	if fs.NArg() > 0 {
		l.Error().Strs("args", fs.Args()).Msg("unexpected positional arguments")
		return perr.ExitUsage
	}

	if *fVersion {
		_, _ = fmt.Fprintln(stdout, version.Info().String())
		return perr.ExitOK
	}

	delim, err := parseDelimiter(*fDelim)
	if err != nil {
		l.Error().Err(err).Str("field", "delimiter").Msg("bad -delimiter")
		return perr.ExitCode(err)
	}
	opts.Input = *fIn
	opts.Output = *fOut
	opts.Order = *fOrder
	opts.Delimiter = delim
	opts.MaxLineBytes = *fMaxLine

	deps := modkit.Deps{Cfg: root, Log: *l}
	cm, err := convertmod.New(deps, opts)
	if err != nil {
		ev := l.Error().Err(err)
		if e, ok := perr.As(err); ok && e.Field() != "" {
			ev = ev.Str("field", e.Field())
		}
		ev.Msg("invalid options")
		return perr.ExitCode(err)
	}

	runID := uuid.NewString()
	ctx = logger.WithRun(ctx, runID)
	bi := version.Info()
	logger.C(ctx).Info().
		Str("version", bi.Version).
		Str("commit", bi.Commit).
		Str("input", opts.Input).
		Str("output", opts.Output).
		Msg("reports-convert: starting")

	if _, err := cm.Run(ctx); err != nil {
		ev := logger.C(ctx).Error().Err(err).Str("code", perr.CodeOf(err).String())
		if e, ok := perr.As(err); ok {
			if e.Field() != "" {
				ev = ev.Str("field", e.Field())
			}
			if e.Op() != "" {
				ev = ev.Str("op", e.Op())
			}
		}
		ev.Msg("conversion failed")
		return perr.ExitCode(err)
	}
	return perr.ExitOK
}

// parseDelimiter accepts one character, or `\t` for a tab
func parseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || r == utf8.RuneError || size != len(s) {
		return 0, perr.WithField(perr.InvalidArgf("delimiter must be a single character, got %q", s), "delimiter")
	}
	return r, nil
}
