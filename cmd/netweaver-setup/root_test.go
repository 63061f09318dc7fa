package main

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vtex/netweaver-setup/config"
	"github.com/vtex/netweaver-setup/tfm"
)

func TestRootCmd(t *testing.T) {
	Convey("Root command", t, func() {
		t.Setenv("GITHUB_ACTIONS", "")
		t.Setenv("INPUT_TARGET-FRAMEWORK", "")
		t.Setenv("NETWEAVER_TARGET_FRAMEWORK", "")

		Convey("It should declare every setting as a flag", func() {
			cmd := newRootCmd()
			for _, name := range []string{config.KeyWeaverVersion, config.KeyTargetFramework, config.KeyDepsPackages, config.KeyMetricsFile} {
				So(cmd.Flags().Lookup(name), ShouldNotBeNil)
			}
		})

		Convey("It should fail on invalid inputs before doing any I/O", func() {
			cmd := newRootCmd()
			cmd.SetArgs([]string{
				"--netcode-weaver-version=2.5.1",
				"--target-framework=netcoreapp3.1",
				"--temp-dir=" + t.TempDir(),
				"--home-dir=" + t.TempDir(),
			})
			err := cmd.Execute()
			So(errors.Is(err, tfm.ErrUnrecognizedMoniker), ShouldBeTrue)
		})
	})
}
