package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorder(t *testing.T) {
	Convey("Recorder", t, func() {
		r := New()
		r.ObserveStep("download", time.Now().Add(-time.Second))
		r.PackageResolved(ResultCopied)
		r.PackageResolved(ResultCopied)
		r.PackageResolved(ResultSkipped)
		r.AddDownloadedBytes(1024)
		r.AddDownloadedBytes(-1)

		Convey("It should gather every family", func() {
			families, err := r.Gatherer().Gather()
			So(err, ShouldBeNil)

			values := map[string]float64{}
			for _, family := range families {
				for _, m := range family.GetMetric() {
					switch {
					case m.GetCounter() != nil:
						key := family.GetName()
						for _, label := range m.GetLabel() {
							key += "/" + label.GetValue()
						}
						values[key] = m.GetCounter().GetValue()
					case m.GetHistogram() != nil:
						values[family.GetName()] = float64(m.GetHistogram().GetSampleCount())
					}
				}
			}

			So(values["netweaver_packages_total/copied"], ShouldEqual, 2)
			So(values["netweaver_packages_total/skipped"], ShouldEqual, 1)
			So(values["netweaver_download_bytes_total"], ShouldEqual, 1024)
			So(values["netweaver_step_duration_seconds"], ShouldEqual, 1)
		})

		Convey("It should write a textfile", func() {
			path := filepath.Join(t.TempDir(), "netweaver.prom")
			So(r.WriteTextfile(path), ShouldBeNil)

			content, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(content), ShouldContainSubstring, `netweaver_packages_total{result="copied"} 2`)
		})
	})

	Convey("Nop should accept everything", t, func() {
		So(func() {
			Nop.ObserveStep("x", time.Now())
			Nop.PackageResolved(ResultFailed)
			Nop.AddDownloadedBytes(1)
		}, ShouldNotPanic)
	})
}
