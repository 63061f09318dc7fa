package config

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/pflag"
	"github.com/vtex/netweaver-setup/nuget"
	"github.com/vtex/netweaver-setup/semver"
	"github.com/vtex/netweaver-setup/tfm"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{"RUNNER_TEMP", "GITHUB_OUTPUT", "NUGET_PACKAGES", "HOME", "USERPROFILE"} {
		t.Setenv(name, "")
	}
	for _, key := range keys {
		t.Setenv("INPUT_"+strings.ToUpper(key), "")
		t.Setenv(EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, "-", "_")), "")
	}
}

func load(t *testing.T, args ...string) (*Config, error) {
	flags := pflag.NewFlagSet("netweaver-setup", pflag.ContinueOnError)
	RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	v, err := NewViper(flags)
	if err != nil {
		t.Fatal(err)
	}
	return Load(v)
}

func TestLoad(t *testing.T) {
	Convey("Load", t, func() {
		clearEnv(t)

		Convey("It should read flags", func() {
			c, err := load(t,
				"--netcode-weaver-version=2.5.1",
				"--target-framework=net48",
				"--temp-dir=/tmp/runner",
				"--home-dir=/home/runner",
				"--concurrency=2")
			So(err, ShouldBeNil)
			So(c.Concurrency, ShouldEqual, 2)
			So(c.DepsPackages, ShouldEqual, "[]")
			So(c.LogLevel, ShouldEqual, "info")

			inputs, err := c.Inputs()
			So(err, ShouldBeNil)
			So(inputs.WeaverVersion.String(), ShouldEqual, "2.5.1")
			So(inputs.TargetFramework.Framework(), ShouldEqual, tfm.FrameworkNetFramework)
			So(inputs.Packages, ShouldBeEmpty)

			opts := c.InstallerOptions()
			So(opts.TempDir, ShouldEqual, "/tmp/runner")
			So(opts.HomeDir, ShouldEqual, "/home/runner")
		})

		Convey("It should read action inputs and runner variables", func() {
			t.Setenv("INPUT_NETCODE-WEAVER-VERSION", "2.5.1")
			t.Setenv("INPUT_TARGET-FRAMEWORK", "netstandard2.1")
			t.Setenv("INPUT_DEPS-PACKAGES", `[{"id": "Unity.Netcode.Runtime", "version": "1.5.2"}]`)
			t.Setenv("RUNNER_TEMP", "/runner/_temp")
			t.Setenv("HOME", "/home/runner")
			t.Setenv("GITHUB_OUTPUT", "/runner/_temp/output")

			c, err := load(t)
			So(err, ShouldBeNil)
			So(c.TempDir, ShouldEqual, "/runner/_temp")
			So(c.HomeDir, ShouldEqual, "/home/runner")
			So(c.OutputFile, ShouldEqual, "/runner/_temp/output")

			inputs, err := c.Inputs()
			So(err, ShouldBeNil)
			So(inputs.TargetFramework.Raw(), ShouldEqual, "netstandard2.1")
			So(inputs.Packages, ShouldHaveLength, 1)
		})

		Convey("It should prefer prefixed variables over action inputs", func() {
			t.Setenv("NETWEAVER_TARGET_FRAMEWORK", "net8.0")
			t.Setenv("INPUT_TARGET-FRAMEWORK", "net6.0")

			c, err := load(t, "--temp-dir=/tmp", "--home-dir=/home/runner")
			So(err, ShouldBeNil)
			So(c.TargetFramework, ShouldEqual, "net8.0")
		})

		Convey("It should require a temp directory", func() {
			_, err := load(t, "--home-dir=/home/runner")
			So(errors.Is(err, ErrMissingInput), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "RUNNER_TEMP")
		})
	})
}

func TestInputs(t *testing.T) {
	Convey("Inputs", t, func() {
		c := &Config{
			WeaverVersion:   "2.5.1",
			DepsPackages:    "[]",
			TargetFramework: "net8.0",
		}

		Convey("It should reject build metadata and prereleases in the weaver version", func() {
			c.WeaverVersion = "2.5.1+abc"
			_, err := c.Inputs()
			So(errors.Is(err, semver.ErrBuildMetadataNotAllowed), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `"netcode-weaver-version" input value is invalid`)

			c.WeaverVersion = "2.5.1-rc.1"
			_, err = c.Inputs()
			So(errors.Is(err, semver.ErrPrereleaseNotAllowed), ShouldBeTrue)
		})

		Convey("It should reject missing values", func() {
			c.WeaverVersion = ""
			_, err := c.Inputs()
			So(errors.Is(err, ErrMissingInput), ShouldBeTrue)

			c.WeaverVersion = "2.5.1"
			c.TargetFramework = ""
			_, err = c.Inputs()
			So(errors.Is(err, ErrMissingInput), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "target-framework")
		})

		Convey("It should reject unknown target frameworks", func() {
			c.TargetFramework = "foo"
			_, err := c.Inputs()
			So(errors.Is(err, tfm.ErrUnrecognizedMoniker), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `"target-framework" input value is invalid`)
		})

		Convey("It should reject malformed package lists", func() {
			c.DepsPackages = "Newtonsoft.Json@13.0.3"
			_, err := c.Inputs()
			So(errors.Is(err, nuget.ErrInvalidSpecifier), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "deps-packages")
		})
	})
}
