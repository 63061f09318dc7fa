package ioext

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ZipExtractTo unpacks the zip archive at archivePath under destDir, creating
// it when needed. Entries escaping destDir are rejected.
func ZipExtractTo(ctx context.Context, archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrapf(err, "open zip %s", archivePath)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, dirMode); err != nil {
		return err
	}

	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := safeJoin(destDir, file.Name)
		if err != nil {
			return err
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, dirMode); err != nil {
				return err
			}
			continue
		}
		if err := extractZipFile(file, target); err != nil {
			return errors.Wrapf(err, "extract %s", file.Name)
		}
	}
	return nil
}

func extractZipFile(f *zip.File, target string) error {
	fileReader, err := f.Open()
	if err != nil {
		return err
	}
	defer fileReader.Close()

	return writeFile(target, fileReader, f.Mode().Perm())
}

// ZipCompressTo writes files, keyed by slash-separated path, as a zip archive.
func ZipCompressTo(w io.Writer, files map[string][]byte) error {
	writer := zip.NewWriter(w)
	for path, content := range files {
		fileWriter, err := writer.Create(path)
		if err != nil {
			return err
		}
		if _, err := fileWriter.Write(content); err != nil {
			return err
		}
	}
	return writer.Close()
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return err
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm|0600)
	if err != nil {
		return err
	}

	buf := BufferPool.GetLargeSlice()
	defer BufferPool.PutSlice(buf)

	if _, err := io.CopyBuffer(out, r, buf); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
