// Command pack compresses and decompresses files and folders with the LZ77
// or RLE formats.
//
// Usage:
//
//	pack compress [-lz|-rle] [-fast] [-dump] input output
//	pack decompress [-lz|-rle] input output
//	pack compress-folder [-lz|-rle] folder output
//	pack decompress-folder input folder
//
// Use - for standard input or output. Without -lz or -rle, decompression
// detects the format from the first byte.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bytepress/pack"
	"github.com/bytepress/pack/archive"
	"github.com/bytepress/pack/codec"
	"github.com/bytepress/pack/lz77"
)

type options struct {
	cfg    Config
	lz     bool
	rle    bool
	dump   bool
	input  string
	output string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("pack: ")

	if len(os.Args) < 2 {
		usage()
	}

	var run func(options) error
	switch os.Args[1] {
	case "compress":
		run = compress
	case "decompress":
		run = decompress
	case "compress-folder":
		run = compressFolder
	case "decompress-folder":
		run = decompressFolder
	default:
		usage()
	}

	opts, err := parseFlags(os.Args[1], os.Args[2:])
	if err != nil {
		log.Fatal(err)
	}
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pack compress|decompress|compress-folder|decompress-folder [flags] input output")
	os.Exit(2)
}

func parseFlags(command string, args []string) (opts options, err error) {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "", "YAML file with default settings")
	fs.BoolVar(&opts.lz, "lz", false, "use LZ77 compression")
	fs.BoolVar(&opts.rle, "rle", false, "use RLE compression")
	verbose := fs.Bool("v", false, "log sizes and compression ratio")
	var fast bool
	if command == "compress" {
		fs.BoolVar(&fast, "fast", false, "use the faster, single-candidate LZ77 match finder")
		fs.BoolVar(&opts.dump, "dump", false, "print the LZ77 parse as text instead of compressing")
	}
	fs.Parse(args)

	if fs.NArg() != 2 {
		return opts, fmt.Errorf("%s needs an input and an output", command)
	}
	opts.input, opts.output = fs.Arg(0), fs.Arg(1)
	if opts.lz && opts.rle {
		return opts, errors.New("-lz and -rle are mutually exclusive")
	}

	opts.cfg, err = readConfig(*configPath)
	if err != nil {
		return opts, fmt.Errorf("reading config: %w", err)
	}
	if *verbose {
		opts.cfg.Verbose = true
	}
	if fast {
		opts.cfg.Fast = true
	}
	return opts, nil
}

// algorithm returns the algorithm chosen by flags or config, or "" if none was.
func (o options) algorithm() (codec.Algorithm, error) {
	switch {
	case o.lz:
		return codec.LZ77, nil
	case o.rle:
		return codec.RLE, nil
	case o.cfg.Algorithm != "":
		return codec.ParseAlgorithm(o.cfg.Algorithm)
	}
	return "", nil
}

func (o options) requireAlgorithm() (codec.Algorithm, error) {
	a, err := o.algorithm()
	if err == nil && a == "" {
		err = errors.New("please specify either -lz or -rle")
	}
	return a, err
}

func openInput(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// writeOutput calls write with a writer for name, and only replaces name
// once write has succeeded.
func writeOutput(name string, write func(w io.Writer) error) error {
	if name == "-" {
		bw := bufio.NewWriter(os.Stdout)
		if err := write(bw); err != nil {
			return err
		}
		return bw.Flush()
	}

	tmp, err := os.CreateTemp(filepath.Dir(name), ".pack-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// codecOptions returns the Writer settings from the config and flags.
func (o options) codecOptions() codec.Options {
	return codec.Options{
		BlockSize: o.cfg.BlockSize,
		Fast:      o.cfg.Fast,
	}
}

// matchFinder returns the LZ77 match finder selected by the options.
func (o options) matchFinder() pack.MatchFinder {
	if o.cfg.Fast {
		return &lz77.FastMatchFinder{}
	}
	return &lz77.MatchFinder{}
}

func compress(o options) error {
	in, err := openInput(o.input)
	if err != nil {
		return err
	}
	defer in.Close()

	if o.dump {
		return writeOutput(o.output, func(w io.Writer) error {
			pw := &pack.Writer{
				Dest:        w,
				MatchFinder: o.matchFinder(),
				Encoder:     pack.TextEncoder{},
				BlockSize:   o.cfg.BlockSize,
			}
			if _, err := io.Copy(pw, in); err != nil {
				return err
			}
			return pw.Close()
		})
	}

	a, err := o.requireAlgorithm()
	if err != nil {
		return err
	}
	return writeOutput(o.output, func(w io.Writer) error {
		cw := &countingWriter{w: w}
		pw, err := codec.NewWriter(cw, a, o.codecOptions())
		if err != nil {
			return err
		}
		n, err := io.Copy(pw, in)
		if err != nil {
			return err
		}
		if err := pw.Close(); err != nil {
			return err
		}
		if o.cfg.Verbose {
			logRatio(a, n, cw.n)
		}
		return nil
	})
}

func decompress(o options) error {
	in, err := openInput(o.input)
	if err != nil {
		return err
	}
	defer in.Close()

	a, err := o.algorithm()
	if err != nil {
		return err
	}
	var r io.Reader
	if a == "" {
		r, a, err = codec.NewDetectingReader(in)
		if err != nil {
			return fmt.Errorf("could not detect compression algorithm, specify -lz or -rle: %w", err)
		}
	} else {
		r, err = codec.NewReader(in, a)
		if err != nil {
			return err
		}
	}

	return writeOutput(o.output, func(w io.Writer) error {
		n, err := io.Copy(w, r)
		if err != nil {
			return err
		}
		if o.cfg.Verbose {
			log.Printf("%s: decompressed %d bytes", a, n)
		}
		return nil
	})
}

func compressFolder(o options) error {
	a, err := o.requireAlgorithm()
	if err != nil {
		return err
	}
	return writeOutput(o.output, func(w io.Writer) error {
		cw := &countingWriter{w: w}
		if err := archive.Pack(cw, o.input, a, o.codecOptions()); err != nil {
			return err
		}
		if o.cfg.Verbose {
			log.Printf("%s: archive is %d bytes", a, cw.n)
		}
		return nil
	})
}

func decompressFolder(o options) error {
	in, err := openInput(o.input)
	if err != nil {
		return err
	}
	defer in.Close()

	want, err := o.algorithm()
	if err != nil {
		return err
	}
	br := bufio.NewReader(in)
	if want != "" {
		magic, err := br.Peek(1)
		if err == io.EOF {
			return errors.New("empty archive")
		}
		if err != nil {
			return err
		}
		if got, _ := codec.Detect(magic[0]); got != want {
			return fmt.Errorf("archive is not in %s format", want)
		}
	}
	if err := archive.Unpack(br, o.output); err != nil {
		return err
	}
	if o.cfg.Verbose {
		log.Printf("extracted %s into %s", o.input, o.output)
	}
	return nil
}

func logRatio(a codec.Algorithm, in, out int64) {
	ratio := 0.0
	if out > 0 {
		ratio = float64(in) / float64(out)
	}
	log.Printf("%s: %d bytes in, %d bytes out, ratio %.2f", a, in, out, ratio)
}
