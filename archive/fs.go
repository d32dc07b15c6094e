package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bytepress/pack/codec"
)

// Pack writes an archive of root to dst. If root is a directory, every
// regular file below it is added, in lexical order, with its path relative
// to root. If root is a file, it is added under its base name.
func Pack(dst io.Writer, root string, a codec.Algorithm, opts codec.Options) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}

	var files []string
	if info.Mode().IsRegular() {
		files = []string{filepath.Base(root)}
		root = filepath.Dir(root)
	} else {
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			files = append(files, rel)
			return nil
		})
		if err != nil {
			return err
		}
	}

	w, err := NewWriter(dst, a, len(files), opts)
	if err != nil {
		return err
	}
	for _, rel := range files {
		if err := addFile(w, root, rel); err != nil {
			return err
		}
	}
	return w.Close()
}

func addFile(w *Writer, root, rel string) error {
	f, err := os.Open(filepath.Join(root, rel))
	if err != nil {
		return err
	}
	defer f.Close()
	return w.Add(filepath.ToSlash(rel), f)
}

// Unpack extracts the archive read from src into dir, creating directories
// as needed. Each file is written to a temporary name and renamed into
// place once its checksum has been verified.
func Unpack(src io.Reader, dir string) error {
	r, err := NewReader(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for {
		e, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		body, err := r.Open()
		if err != nil {
			return err
		}
		if err := extract(filepath.Join(dir, filepath.FromSlash(e.Path)), body); err != nil {
			return fmt.Errorf("archive: extracting %s: %w", e.Path, err)
		}
	}
}

func extract(target string, body io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".unpack-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
