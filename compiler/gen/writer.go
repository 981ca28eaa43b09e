package gen

import (
	"bytes"
	"os"
	"path/filepath"
)

// writeFiles writes the files of one declaration into dir. Every file is
// rendered before the first one is written, so a render failure leaves the
// directory untouched. Files whose content did not change are not
// rewritten.
func writeFiles(dir string, files []*Artifact) ([]string, error) {
	contents := make([][]byte, len(files))
	for i, f := range files {
		b, err := f.Render()
		if err != nil {
			return nil, err
		}
		contents[i] = b
	}
	var written []string
	for i, f := range files {
		path := filepath.Join(dir, f.Name)
		if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, contents[i]) {
			continue
		}
		if err := writeFile(path, contents[i]); err != nil {
			return written, NewGenerationError("write", path, "", err)
		}
		written = append(written, path)
	}
	return written, nil
}

// writeFile replaces path atomically with b.
func writeFile(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
