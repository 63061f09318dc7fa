package ioext

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func readTree(root string) map[string]string {
	tree := map[string]string{}
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		tree[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	return tree
}

func writeArchive(t *testing.T, name string, write func(*os.File) error) string {
	archive := filepath.Join(t.TempDir(), name)
	f, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	if err := write(f); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return archive
}

func TestExtractor(t *testing.T) {
	ctx := context.Background()
	files := map[string][]byte{
		"NetcodePatcher.dll":        []byte("patcher"),
		"deps/.keep":                []byte(""),
		"NetcodePatcher.Cli/cli.sh": []byte("#!/bin/sh"),
	}

	Convey("Extractor", t, func() {
		Convey("It should unpack zip archives", func() {
			archive := writeArchive(t, "weaver.zip", func(f *os.File) error {
				return ZipCompressTo(f, files)
			})
			dest := filepath.Join(t.TempDir(), "NetcodeWeaver")

			dir, err := Extractor{}.Extract(ctx, archive, dest)
			So(err, ShouldBeNil)
			So(dir, ShouldEqual, dest)
			So(readTree(dest), ShouldResemble, map[string]string{
				"NetcodePatcher.dll":        "patcher",
				"deps/.keep":                "",
				"NetcodePatcher.Cli/cli.sh": "#!/bin/sh",
			})
		})

		Convey("It should unpack tar.gz archives", func() {
			archive := writeArchive(t, "weaver.tar.gz", func(f *os.File) error {
				w := NewTarGzWriter(f)
				for name, content := range files {
					if err := w.Write(name, content); err != nil {
						return err
					}
				}
				return w.Close()
			})
			dest := t.TempDir()

			_, err := Extractor{}.Extract(ctx, archive, dest)
			So(err, ShouldBeNil)
			So(readTree(dest)["NetcodePatcher.dll"], ShouldEqual, "patcher")
		})

		Convey("It should reject entries escaping the destination", func() {
			var buf bytes.Buffer
			w := zip.NewWriter(&buf)
			fw, _ := w.Create("../evil.txt")
			fw.Write([]byte("boom"))
			w.Close()
			archive := writeArchive(t, "evil.zip", func(f *os.File) error {
				_, err := f.Write(buf.Bytes())
				return err
			})

			_, err := Extractor{}.Extract(ctx, archive, t.TempDir())
			So(errors.Is(err, ErrUnsafePath), ShouldBeTrue)
		})

		Convey("It should reject unknown formats", func() {
			_, err := Extractor{}.Extract(ctx, "weaver.rar", t.TempDir())
			So(errors.Is(err, ErrUnsupportedArchive), ShouldBeTrue)
		})
	})
}

func TestCopier(t *testing.T) {
	ctx := context.Background()

	Convey("Copier", t, func() {
		src := t.TempDir()
		So(os.MkdirAll(filepath.Join(src, "sub"), 0755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(src, "A.dll"), []byte("a"), 0644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(src, "sub", "B.xml"), []byte("b"), 0644), ShouldBeNil)

		Convey("It should merge directory contents into the destination", func() {
			dst := t.TempDir()
			So(os.WriteFile(filepath.Join(dst, "existing.dll"), []byte("x"), 0644), ShouldBeNil)

			So(Copier{}.Copy(ctx, src, dst), ShouldBeNil)
			So(readTree(dst), ShouldResemble, map[string]string{
				"existing.dll": "x",
				"A.dll":        "a",
				"sub/B.xml":    "b",
			})
		})

		Convey("It should copy single files", func() {
			dst := filepath.Join(t.TempDir(), "nested", "A.dll")
			So(Copier{}.Copy(ctx, filepath.Join(src, "A.dll"), dst), ShouldBeNil)

			content, err := os.ReadFile(dst)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "a")
		})

		Convey("It should stop when the context is done", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			So(Copier{}.Copy(cancelled, src, t.TempDir()), ShouldEqual, context.Canceled)
		})

		Convey("It should fail for missing sources", func() {
			So(Copier{}.Copy(ctx, filepath.Join(src, "missing"), t.TempDir()), ShouldNotBeNil)
		})
	})
}
