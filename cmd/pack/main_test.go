package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytepress/pack/codec"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pack.yml")
	os.WriteFile(path, []byte("algorithm: rle\nblockSize: 4096\nverbose: true\n"), 0o644)

	cfg, err := readConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Algorithm != "rle" || cfg.BlockSize != 4096 || !cfg.Verbose {
		t.Fatalf("got %+v", cfg)
	}

	os.WriteFile(path, []byte("level: 9\n"), 0o644)
	if _, err := readConfig(path); err == nil {
		t.Fatal("unknown field accepted")
	}
}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags("compress", []string{"-rle", "in", "out"})
	if err != nil {
		t.Fatal(err)
	}
	if a, _ := o.algorithm(); a != codec.RLE || o.input != "in" || o.output != "out" {
		t.Fatalf("got %+v", o)
	}

	if _, err := parseFlags("compress", []string{"-rle", "-lz", "in", "out"}); err == nil {
		t.Fatal("-lz with -rle accepted")
	}
	if _, err := parseFlags("compress", []string{"in"}); err == nil {
		t.Fatal("missing output accepted")
	}

	o, _ = parseFlags("compress", []string{"in", "out"})
	if _, err := o.requireAlgorithm(); err == nil {
		t.Fatal("compress without an algorithm accepted")
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := []byte(strings.Repeat("round and round the file goes. ", 500))
	in := filepath.Join(dir, "in.txt")
	packed := filepath.Join(dir, "in.txt.lz")
	out := filepath.Join(dir, "out.txt")
	os.WriteFile(in, data, 0o644)

	if err := compress(options{lz: true, input: in, output: packed}); err != nil {
		t.Fatal(err)
	}
	// No algorithm flag: detect it.
	if err := decompress(options{input: packed, output: out}); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("decompressed file doesn't match")
	}

	if err := decompress(options{rle: true, input: packed, output: out}); err == nil {
		t.Fatal("decompressing LZ77 data as RLE succeeded")
	}
}

func TestDecompressEmptyArchive(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "empty.pack")
	os.WriteFile(in, nil, 0o644)

	err := decompressFolder(options{lz: true, input: in, output: filepath.Join(dir, "out")})
	if err == nil || err.Error() != "empty archive" {
		t.Fatalf("got %v, want empty archive", err)
	}
}

func TestCodecOptions(t *testing.T) {
	o, err := parseFlags("compress", []string{"-fast", "in", "out"})
	if err != nil {
		t.Fatal(err)
	}
	o.cfg.BlockSize = 512
	if got := o.codecOptions(); got != (codec.Options{BlockSize: 512, Fast: true}) {
		t.Fatalf("got %+v", got)
	}
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "parse.txt")
	os.WriteFile(in, []byte("ABABABABABAB"), 0o644)

	if err := compress(options{dump: true, input: in, output: out}); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(out)
	if string(got) != "AB<10,2>" {
		t.Fatalf("got %q", got)
	}
}

func TestFolderRoundTrip(t *testing.T) {
	src := t.TempDir()
	os.MkdirAll(filepath.Join(src, "nested"), 0o755)
	os.WriteFile(filepath.Join(src, "one.txt"), []byte("one one one one"), 0o644)
	os.WriteFile(filepath.Join(src, "nested", "two.txt"), []byte("two two two two"), 0o644)

	dir := t.TempDir()
	packed := filepath.Join(dir, "folder.pack")
	out := filepath.Join(dir, "out")
	if err := compressFolder(options{rle: true, input: src, output: packed}); err != nil {
		t.Fatal(err)
	}
	if err := decompressFolder(options{lz: true, input: packed, output: out}); err == nil {
		t.Fatal("RLE archive accepted as LZ77")
	}
	if err := decompressFolder(options{input: packed, output: out}); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(out, "nested", "two.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two two two two" {
		t.Fatalf("got %q", got)
	}
}
