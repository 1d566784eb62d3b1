// Command inbuf-scan splits its input into lexemes using the input system
// and prints one token per line with its stream position.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/inbuf/internal/cli"
	"github.com/orizon-lang/inbuf/internal/inbuf"
	"github.com/orizon-lang/inbuf/internal/watch"
)

const toolName = "inbuf-scan"

// options collects everything a scan needs besides the input names.
type options struct {
	cfg      inbuf.Config
	showPrev bool
	dump     bool
	logger   *cli.Logger
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		jsonVersion = flag.Bool("json", false, "print version information as JSON")
		configPath  = flag.String("config", "", "JSON configuration file")
		verbose     = flag.Bool("v", false, "verbose logging")
		debug       = flag.Bool("debug", false, "debug logging and buffer state dumps")
		maxLexeme   = flag.Int("max-lexeme", 0, "maximum lexeme length (0 = config or default)")
		maxLook     = flag.Int("max-look", 0, "maximum lookahead (0 = config or default)")
		showPrev    = flag.Bool("prev", false, "also print the previous lexeme for each token")
		follow      = flag.Bool("follow", false, "rescan the single input file whenever it changes")
	)
	flag.Parse()

	if *showVersion {
		cli.PrintVersion(os.Stdout, toolName, *jsonVersion)
		return
	}

	config, err := cli.LoadConfig(*configPath)
	if err != nil {
		cli.ExitWithError("%v", err)
	}

	logger := cli.NewLogger(config.Verbose || *verbose, config.Debug || *debug)
	logger.Out = os.Stderr

	opts := options{
		cfg:      resolveConfig(config, *maxLexeme, *maxLook),
		showPrev: *showPrev,
		dump:     logger.DebugMode,
		logger:   logger,
	}
	if err := opts.cfg.Validate(); err != nil {
		cli.ExitWithError("%v", err)
	}

	files := flag.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *follow {
		if len(files) != 1 || files[0] == "-" {
			cli.ExitWithError("-follow needs exactly one input file")
		}
		err := watch.Follow(ctx, files[0], 100*time.Millisecond, func() error {
			_, err := scanFile(files[0], opts, os.Stdout)
			return err
		})
		if err != nil && ctx.Err() == nil {
			cli.ExitWithError("%v", err)
		}
		return
	}

	clean, err := scanFiles(ctx, files, opts, os.Stdout)
	cli.HandleError(err, logger)
	if !clean {
		os.Exit(1)
	}
}

// resolveConfig layers flags over the config file over the defaults.
func resolveConfig(c *cli.Config, maxLexeme, maxLook int) inbuf.Config {
	cfg := inbuf.DefaultConfig()
	if c.MaxLexeme > 0 {
		cfg.MaxLexeme = c.MaxLexeme
	}
	if c.MaxLook > 0 {
		cfg.MaxLook = c.MaxLook
	}
	if maxLexeme > 0 {
		cfg.MaxLexeme = maxLexeme
	}
	if maxLook > 0 {
		cfg.MaxLook = maxLook
	}
	return cfg
}

// scanFiles scans every file concurrently, one Buffer each, and writes the
// results to w in argument order. It reports false if any file produced
// diagnostics.
func scanFiles(ctx context.Context, files []string, opts options, w io.Writer) (bool, error) {
	outs := make([]bytes.Buffer, len(files))
	clean := make([]bool, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := scanFile(path, opts, &outs[i])
			clean[i] = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	allClean := true
	for i := range files {
		if _, err := outs[i].WriteTo(w); err != nil {
			return false, err
		}
		allClean = allClean && clean[i]
	}
	return allClean, nil
}

// scanFile tokenizes one input ("-" is standard input) into w.
func scanFile(path string, opts options, w io.Writer) (bool, error) {
	b, err := inbuf.New(opts.cfg, inbuf.WithLogger(opts.logger))
	if err != nil {
		return false, err
	}
	if path != "-" {
		if err := b.NewFile(path); err != nil {
			return false, err
		}
	}
	defer b.Close()

	s := NewScanner(b)
	for {
		tok, err := s.Next()
		if err != nil {
			return false, err
		}
		if tok.Kind == KindEOF {
			break
		}
		if opts.showPrev {
			fmt.Fprintf(w, "%s\t%-8s %q\tprev=%q\n", tok.Span.Start, tok.Kind, tok.Text, tok.Prev)
		} else {
			fmt.Fprintf(w, "%s\t%-8s %q\n", tok.Span.Start, tok.Kind, tok.Text)
		}
	}

	for _, d := range s.Diagnostics() {
		fmt.Fprintln(w, d.String())
	}
	if opts.dump {
		spew.Fdump(w, b.State())
	}

	opts.logger.Info("%s: %d lines", b.Name(), b.Line())
	return len(s.Diagnostics()) == 0, nil
}
