package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"github.com/cybroslabs/liblzstring-go/base"
	"github.com/cybroslabs/liblzstring-go/lzstring"
	"github.com/cybroslabs/liblzstring-go/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const usage = `usage: lzstring compress|decompress [flags] files...

compress writes <file>.lzs next to each input (or into -o), decompress writes <file>.txt.
`

type options struct {
	csv     bool
	strict  bool
	workers int
	outdir  string
	db      string
	verbose bool
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

func newLogger(w io.Writer, verbose bool) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level)).Sugar()
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	mode := args[0]

	var opts options
	fs := flag.NewFlagSet(mode, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.csv, "csv", false, "compressed data as comma separated decimal bytes")
	fs.BoolVar(&opts.strict, "strict", false, "fail on malformed compressed data instead of writing empty text")
	fs.IntVar(&opts.workers, "workers", 4, "files processed in parallel")
	fs.StringVar(&opts.outdir, "o", "", "output directory, defaults to the input file directory")
	fs.StringVar(&opts.db, "db", "", "compress into this SQLite store keyed by file name instead of writing files")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if opts.workers < 1 || fs.NArg() == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	logger := newLogger(stderr, opts.verbose)
	defer func() { _ = logger.Sync() }()

	var err error
	switch mode {
	case "compress":
		err = compressFiles(ctx, logger, &opts, fs.Args())
	case "decompress":
		err = decompressFiles(ctx, logger, &opts, fs.Args())
	default:
		fmt.Fprint(stderr, usage)
		return 2
	}
	if err != nil {
		logger.Errorf("%s failed: %v", mode, err)
		return 1
	}
	return 0
}

func outputPath(opts *options, in string, ext string) string {
	dir := filepath.Dir(in)
	if opts.outdir != "" {
		dir = opts.outdir
	}
	name := filepath.Base(in)
	if ext == ".txt" {
		name = strings.TrimSuffix(name, ".lzs")
	}
	return filepath.Join(dir, name+ext)
}

func compressFiles(ctx context.Context, logger *zap.SugaredLogger, opts *options, files []string) error {
	var db *store.Store
	if opts.db != "" {
		var err error
		db, err = store.New(func(c *store.Config) {
			c.File(opts.db)
			c.Workers(opts.workers)
			c.Logger(logger)
		})
		if err != nil {
			return err
		}
		defer db.Close()
	}

	codec := lzstring.NewCodec(&lzstring.CodecSettings{Logger: logger})
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)
	for _, in := range files {
		g.Go(func() error {
			src, err := os.ReadFile(in)
			if err != nil {
				return err
			}
			text := utf16.Encode([]rune(string(src)))
			if db != nil {
				return db.Put(gctx, filepath.Base(in), text)
			}

			data := codec.Encode(text)
			if opts.csv {
				data = []byte(lzstring.FormatBytes(data))
			}
			out := outputPath(opts, in, ".lzs")
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			logger.Infof("%s: %d symbols -> %d bytes", in, len(text), len(data))
			return nil
		})
	}
	return g.Wait()
}

func decompressFiles(ctx context.Context, logger *zap.SugaredLogger, opts *options, files []string) error {
	codec := lzstring.NewCodec(&lzstring.CodecSettings{Logger: logger, Strict: opts.strict})
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)
	for _, in := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(in)
			if err != nil {
				return err
			}
			if opts.csv {
				data, err = lzstring.ParseBytes(string(data))
				if err != nil {
					return fmt.Errorf("%s: %w", in, err)
				}
			}
			text, err := codec.Decode(data)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			if len(data) > 0 && len(text) == 0 && !opts.strict {
				logger.Warnf("%s: data did not decode, writing empty text", in)
			}
			out := outputPath(opts, in, ".txt")
			if err := os.WriteFile(out, []byte(string(utf16.Decode(text))), 0o644); err != nil {
				return err
			}
			logger.Infof("%s: %d bytes -> %d symbols", in, len(data), len(text))
			return nil
		})
	}
	err := g.Wait()
	if errors.Is(err, base.ErrTruncated) || errors.Is(err, base.ErrInvalidCode) {
		return fmt.Errorf("malformed input: %w", err)
	}
	return err
}
