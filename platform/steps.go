// Package platform holds the install steps that differ between operating
// systems.
package platform

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform")

const RuntimeConfigFile = "NetcodePatcher.runtimeconfig.json"

type Steps interface {
	// DotnetHome is the root of the dotnet installation whose shared runtime
	// provides mscorlib and netstandard facades.
	DotnetHome() string
	PostInstall(weaverDir string) error
}

// ForOS picks the steps for a runtime.GOOS value.
func ForOS(goos string) (Steps, error) {
	switch goos {
	case "linux", "darwin":
		return Unix{}, nil
	case "windows":
		return Windows{}, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedPlatform, "%s", goos)
}

type Unix struct{}

func (Unix) DotnetHome() string {
	return filepath.Join("/", "usr", "share", "dotnet")
}

type runtimeConfig struct {
	RuntimeOptions runtimeOptions `json:"runtimeOptions"`
}

type runtimeOptions struct {
	TFM       string           `json:"tfm"`
	Framework runtimeFramework `json:"framework"`
}

type runtimeFramework struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// PostInstall pins the patcher to the .NET 8 runtime, since the release
// archive does not ship a runtime config usable outside Windows.
func (Unix) PostInstall(weaverDir string) error {
	content, err := json.Marshal(runtimeConfig{
		RuntimeOptions: runtimeOptions{
			TFM: "net8.0",
			Framework: runtimeFramework{
				Name:    "Microsoft.NETCore.App",
				Version: "8.0.0",
			},
		},
	})
	if err != nil {
		return err
	}

	path := filepath.Join(weaverDir, RuntimeConfigFile)
	return errors.Wrapf(os.WriteFile(path, content, 0644), "write %s", path)
}

type Windows struct{}

func (Windows) DotnetHome() string {
	return `C:\Program Files\dotnet`
}

func (Windows) PostInstall(string) error {
	return nil
}
