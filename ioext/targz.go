package ioext

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
)

type TarGzWriter struct {
	gzWriter  *gzip.Writer
	tarWriter *tar.Writer
}

func NewTarGzWriter(w io.Writer) *TarGzWriter {
	gzWriter := gzip.NewWriter(w)
	tarWriter := tar.NewWriter(gzWriter)
	return &TarGzWriter{
		gzWriter:  gzWriter,
		tarWriter: tarWriter,
	}
}

func (w *TarGzWriter) Write(filename string, content []byte) error {
	header := &tar.Header{
		Name:     normalizePath(filename),
		Size:     int64(len(content)),
		Mode:     0644,
		Typeflag: tar.TypeReg,
	}
	if err := w.tarWriter.WriteHeader(header); err != nil {
		return err
	} else if _, err := w.tarWriter.Write(content); err != nil {
		return err
	}

	return nil
}

func (w *TarGzWriter) Close() error {
	tarErr := w.tarWriter.Close()
	gzErr := w.gzWriter.Close()
	if tarErr != nil {
		return tarErr
	}
	return gzErr
}

func normalizePath(p string) string {
	p = path.Clean(p)
	if path.IsAbs(p) {
		p = p[1:]
	}
	return "./" + p
}

// TarGzExtractTo unpacks the tar.gz archive at archivePath under destDir.
// Only directories and regular files are restored; links are skipped.
func TarGzExtractTo(ctx context.Context, archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gzReader, err := gzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "open tar.gz %s", archivePath)
	}
	defer gzReader.Close()

	if err := os.MkdirAll(destDir, dirMode); err != nil {
		return err
	}

	tarReader := tar.NewReader(gzReader)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrapf(err, "read tar.gz %s", archivePath)
		}

		target, err := safeJoin(destDir, header.Name)
		if err != nil {
			return err
		}
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, dirMode); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tarReader, os.FileMode(header.Mode).Perm()); err != nil {
				return errors.Wrapf(err, "extract %s", header.Name)
			}
		}
	}
}
