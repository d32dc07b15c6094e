package rle

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/bytepress/pack"
)

func test(t *testing.T, data []byte) {
	t.Helper()
	var b bytes.Buffer
	if err := Compress(&b, bytes.NewReader(data)); err != nil {
		t.Fatal(err)
	}
	if b.Bytes()[0] != Magic {
		t.Fatalf("first byte is 0x%02x, want 0x%02x", b.Bytes()[0], Magic)
	}
	if !bytes.Equal(b.Bytes(), Encode(data)) {
		t.Fatal("Writer and Encode disagree")
	}
	decompressed, err := Decode(b.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatalf("decompressed output doesn't match (got %d bytes, want %d)", len(decompressed), len(data))
	}
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	noise := make([]byte, 5000)
	r.Read(noise)

	tests := map[string][]byte{
		"empty":       {},
		"single":      {7},
		"runs":        []byte("AAABBBCCCCCDDDDEFFFGAAAAAAAAA"),
		"run 255":     bytes.Repeat([]byte{1}, MaxRun),
		"run 256":     bytes.Repeat([]byte{1}, MaxRun+1),
		"long run":    bytes.Repeat([]byte{0}, 3*pack.DefaultBlockSize+5),
		"noise":       noise,
		"cross block": append(bytes.Repeat([]byte{'x'}, pack.DefaultBlockSize-3), bytes.Repeat([]byte{'x'}, 10)...),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			test(t, data)
		})
	}
}

func TestEncodeExact(t *testing.T) {
	got := Encode([]byte("AAAB"))
	want := []byte{Magic, 'A', 3, 'B', 1}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := Encode(nil); !bytes.Equal(got, []byte{Magic}) {
		t.Fatalf("empty input: got %v", got)
	}
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		name   string
		stream []byte
		kind   error
		offset int64
	}{
		{"empty", nil, pack.ErrMagicMismatch, 0},
		{"wrong magic", []byte{0x00, 'A', 3}, pack.ErrMagicMismatch, 0},
		{"incomplete pair", []byte{Magic, 'A', 3, 'B'}, pack.ErrTruncatedToken, 3},
		{"zero count", []byte{Magic, 'A', 0}, ErrZeroRun, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.stream)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("got error %v, want %v", err, tt.kind)
			}
			var fe *pack.FormatError
			if !errors.As(err, &fe) || fe.Offset != tt.offset {
				t.Fatalf("got %v, want a FormatError at byte %d", err, tt.offset)
			}
		})
	}
}
