// Package config reads the installer settings from flags, environment
// variables and GitHub Actions inputs.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vtex/netweaver-setup/installer"
	"github.com/vtex/netweaver-setup/nuget"
	"github.com/vtex/netweaver-setup/semver"
	"github.com/vtex/netweaver-setup/tfm"
)

const (
	KeyWeaverVersion   = "netcode-weaver-version"
	KeyDepsPackages    = "deps-packages"
	KeyTargetFramework = "target-framework"
	KeyTempDir         = "temp-dir"
	KeyHomeDir         = "home-dir"
	KeyNuGetPackages   = "nuget-packages"
	KeyDownloadBaseURL = "download-base-url"
	KeyConcurrency     = "concurrency"
	KeyMetricsFile     = "metrics-file"
	KeyLogLevel        = "log-level"
	KeyOutputFile      = "output-file"

	EnvPrefix = "NETWEAVER"
)

var ErrMissingInput = errors.New("missing required input")

// Environment variables consulted after the flag, the NETWEAVER_ variable and
// the action input.
var fallbackEnv = map[string][]string{
	KeyTempDir:       {"RUNNER_TEMP"},
	KeyHomeDir:       {"HOME", "USERPROFILE"},
	KeyNuGetPackages: {"NUGET_PACKAGES"},
	KeyOutputFile:    {"GITHUB_OUTPUT"},
}

var keys = []string{
	KeyWeaverVersion, KeyDepsPackages, KeyTargetFramework, KeyTempDir, KeyHomeDir, KeyNuGetPackages,
	KeyDownloadBaseURL, KeyConcurrency, KeyMetricsFile, KeyLogLevel, KeyOutputFile,
}

type Config struct {
	WeaverVersion    string
	DepsPackages     string
	TargetFramework  string
	TempDir          string
	HomeDir          string
	NuGetPackagesDir string
	DownloadBaseURL  string
	Concurrency      int
	MetricsFile      string
	LogLevel         string
	OutputFile       string
}

// RegisterFlags declares one flag per setting.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(KeyWeaverVersion, "", "NetcodePatcher release to install, e.g. 2.5.1")
	flags.String(KeyDepsPackages, "[]", `JSON list of {"id", "version"} NuGet packages to copy into deps`)
	flags.String(KeyTargetFramework, "", "target framework moniker of the patched project, e.g. netstandard2.1")
	flags.String(KeyTempDir, "", "download directory (default $RUNNER_TEMP)")
	flags.String(KeyHomeDir, "", "home directory to install into (default $HOME)")
	flags.String(KeyNuGetPackages, "", "NuGet global packages folder (default $NUGET_PACKAGES or ~/.nuget/packages)")
	flags.String(KeyDownloadBaseURL, installer.DefaultDownloadBaseURL, "base URL of the release downloads")
	flags.Int(KeyConcurrency, installer.DefaultConcurrency, "maximum number of concurrent copies")
	flags.String(KeyMetricsFile, "", "write Prometheus metrics to this file when set")
	flags.String(KeyLogLevel, "info", "log level")
	flags.String(KeyOutputFile, "", "file receiving step outputs (default $GITHUB_OUTPUT)")
}

// NewViper returns a viper instance bound to flags and to the environment.
// Every key can be given as NETWEAVER_<KEY> or as the action input
// INPUT_<KEY>, both upper-cased with dashes kept for inputs.
func NewViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyDepsPackages, "[]")
	v.SetDefault(KeyDownloadBaseURL, installer.DefaultDownloadBaseURL)
	v.SetDefault(KeyConcurrency, installer.DefaultConcurrency)
	v.SetDefault(KeyLogLevel, "info")

	for _, key := range keys {
		envNames := []string{
			EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_")),
			"INPUT_" + strings.ToUpper(key),
		}
		envNames = append(envNames, fallbackEnv[key]...)
		if err := v.BindEnv(append([]string{key}, envNames...)...); err != nil {
			return nil, errors.Wrapf(err, "bind environment for %s", key)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "bind flags")
		}
	}
	return v, nil
}

func Load(v *viper.Viper) (*Config, error) {
	c := &Config{
		WeaverVersion:    strings.TrimSpace(v.GetString(KeyWeaverVersion)),
		DepsPackages:     v.GetString(KeyDepsPackages),
		TargetFramework:  strings.TrimSpace(v.GetString(KeyTargetFramework)),
		TempDir:          v.GetString(KeyTempDir),
		HomeDir:          v.GetString(KeyHomeDir),
		NuGetPackagesDir: v.GetString(KeyNuGetPackages),
		DownloadBaseURL:  v.GetString(KeyDownloadBaseURL),
		Concurrency:      v.GetInt(KeyConcurrency),
		MetricsFile:      v.GetString(KeyMetricsFile),
		LogLevel:         v.GetString(KeyLogLevel),
		OutputFile:       v.GetString(KeyOutputFile),
	}

	if c.HomeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.HomeDir = home
		}
	}
	if c.TempDir == "" {
		return nil, errors.Wrap(ErrMissingInput, "expected RUNNER_TEMP or --temp-dir to be defined")
	}
	if c.HomeDir == "" {
		return nil, errors.Wrap(ErrMissingInput, "$HOME environment variable not set - can't resolve destination directory")
	}
	return c, nil
}

// Inputs validates the user-supplied values. Errors name the offending input.
func (c *Config) Inputs() (*installer.Inputs, error) {
	if c.WeaverVersion == "" {
		return nil, inputError(KeyWeaverVersion, ErrMissingInput)
	}
	version, err := semver.ParseValid(c.WeaverVersion, semver.Options{})
	if err != nil {
		return nil, inputError(KeyWeaverVersion, err)
	}

	packages, err := nuget.ParseSpecifiers(c.DepsPackages)
	if err != nil {
		return nil, inputError(KeyDepsPackages, err)
	}

	if c.TargetFramework == "" {
		return nil, inputError(KeyTargetFramework, ErrMissingInput)
	}
	target, err := tfm.Parse(c.TargetFramework)
	if err != nil {
		return nil, inputError(KeyTargetFramework, err)
	}

	return &installer.Inputs{
		WeaverVersion:   version,
		Packages:        packages,
		TargetFramework: target,
	}, nil
}

func (c *Config) InstallerOptions() installer.Options {
	return installer.Options{
		TempDir:          c.TempDir,
		HomeDir:          c.HomeDir,
		NuGetPackagesDir: c.NuGetPackagesDir,
		DownloadBaseURL:  c.DownloadBaseURL,
		Concurrency:      c.Concurrency,
	}
}

func inputError(key string, err error) error {
	return errors.Wrapf(err, "%q input value is invalid", key)
}
