package ioext

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Copier copies files and directory trees. Directories are merged into an
// existing destination and files already there are overwritten.
type Copier struct{}

func (Copier) Copy(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return CopyDir(ctx, src, dst)
	}
	return CopyFile(src, dst)
}

// CopyDir copies the contents of src into dst recursively.
func CopyDir(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case entry.IsDir():
			return os.MkdirAll(target, dirMode)
		case entry.Type().IsRegular():
			return CopyFile(path, target)
		}
		return nil
	})
}

func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := writeFile(dst, in, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "copy %s to %s", src, dst)
	}
	return nil
}
