package wordlist

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	dirMode  = 0700
	fileMode = 0644
)

// ErrInputNotFound is returned when an input file or an output's parent directory does not exist.
var ErrInputNotFound = errors.New("input not found")

// Open opens a file for reading, mapping a missing file to ErrInputNotFound.
func Open(path string) (*os.File, error) {
	if path == "" {
		return nil, errors.Wrap(ErrInputNotFound, "path not specified")
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrInputNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "error opening file: %s", path)
	}
	return f, nil
}

// Parse reads one token per line, trimming whitespace and skipping blank lines.
func Parse(r io.Reader) ([]string, error) {
	out := make([]string, 0)
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan word list")
	}
	return out, nil
}

// Read loads a newline-delimited word list.
func Read(path string) ([]string, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading word list: %s", path)
	}
	return words, nil
}

// CheckOutput verifies the parent directory of an output path exists.
func CheckOutput(path string) error {
	if path == "" {
		return errors.Wrap(ErrInputNotFound, "output path not specified")
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.Wrapf(ErrInputNotFound, "output directory %s", dir)
		}
		return errors.Wrapf(err, "error checking output directory: %s", dir)
	}
	if !info.IsDir() {
		return errors.Errorf("output parent is not a directory: %s", dir)
	}
	return nil
}

// Write stores words one per line. The file is written to a temp path and renamed,
// so a failed write leaves no partial list behind.
func Write(path string, words []string) error {
	if err := CheckOutput(path); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode)
	if err != nil {
		return errors.Wrapf(err, "failed to create file: %s", tmp)
	}

	w := bufio.NewWriter(f)
	for _, word := range words {
		if _, err := w.WriteString(word + "\n"); err != nil {
			f.Close()
			os.Remove(tmp)
			return errors.Wrapf(err, "failed to write: %s", tmp)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to flush: %s", tmp)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to close: %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to rename %s to %s", tmp, path)
	}
	return nil
}

// EnsureDir creates a directory tree for report style outputs.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return errors.Wrapf(err, "failed to create dir: %s", dir)
	}
	return nil
}
