// Package storage provides the file-system primitives every pipeline stage
// writes through: atomic file writes, copies and directory swaps.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it into
// place, so readers never observe a half-written document.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// CopyFile copies src to dst, keeping the source modification time.
// A missing src yields an error wrapping ErrNotFound.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", src, ErrNotFound)
		}
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// SwapDir moves staged into target's place. An existing target is renamed
// aside first and removed only after staged is in place; if the second
// rename fails the old tree is restored.
func SwapDir(staged, target, suffix string) error {
	backup := target + ".old-" + suffix

	hadTarget := Exists(target)
	if hadTarget {
		if err := os.Rename(target, backup); err != nil {
			return fmt.Errorf("move %s aside: %w", target, err)
		}
	}

	if err := os.Rename(staged, target); err != nil {
		if hadTarget {
			if rerr := os.Rename(backup, target); rerr != nil {
				return errors.Join(fmt.Errorf("install %s: %w", target, err), fmt.Errorf("restore %s: %w", target, rerr))
			}
		}
		return fmt.Errorf("install %s: %w", target, err)
	}

	if hadTarget {
		if err := os.RemoveAll(backup); err != nil {
			return fmt.Errorf("remove previous %s: %w", target, err)
		}
	}
	return nil
}
