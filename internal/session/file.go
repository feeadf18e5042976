package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileJar stores entries in a single JSON file, written atomically.
type FileJar struct {
	path string
}

// fileContents is the on-disk layout.
type fileContents struct {
	Entries map[string]Entry `json:"entries"`
}

// NewFileJar returns a jar backed by the file at path. The file and its
// directory are created on first write.
func NewFileJar(path string) *FileJar {
	return &FileJar{path: path}
}

// Path returns the backing file path.
func (j *FileJar) Path() string { return j.path }

func (j *FileJar) Put(_ context.Context, entries ...Entry) error {
	fc, err := j.read()
	if err != nil {
		return err
	}
	for _, e := range entries {
		fc.Entries[e.Name] = e
	}
	return j.write(fc)
}

func (j *FileJar) Get(_ context.Context, name string) (Entry, bool, error) {
	fc, err := j.read()
	if err != nil {
		return Entry{}, false, err
	}
	e, ok := fc.Entries[name]
	return e, ok, nil
}

func (j *FileJar) Delete(_ context.Context, names ...string) error {
	fc, err := j.read()
	if err != nil {
		return err
	}
	changed := false
	for _, n := range names {
		if _, ok := fc.Entries[n]; ok {
			delete(fc.Entries, n)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return j.write(fc)
}

func (j *FileJar) Close() error { return nil }

// read loads the file. A missing file is empty. A file that is not valid
// JSON is removed and read as empty.
func (j *FileJar) read() (*fileContents, error) {
	fc := &fileContents{Entries: make(map[string]Entry)}
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(data, fc); err != nil || fc.Entries == nil {
		if err := os.Remove(j.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("remove corrupt session file: %w", err)
		}
		return &fileContents{Entries: make(map[string]Entry)}, nil
	}
	return fc, nil
}

func (j *FileJar) write(fc *fileContents) error {
	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session file: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
