// Package nuget identifies the NuGet packages whose reference assemblies are
// copied next to the weaver.
package nuget

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vtex/netweaver-setup/semver"
)

var ErrInvalidSpecifier = errors.New("invalid package specifier")

// Package versions may carry a prerelease tag but never build metadata, since
// build metadata is not part of the global packages folder layout.
var versionOptions = semver.Options{AllowBuild: false, AllowPrerelease: true}

type PackageSpecifier struct {
	ID      string
	Version semver.Version
}

type rawSpecifier struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

func NewPackageSpecifier(id, version string) (PackageSpecifier, error) {
	if strings.TrimSpace(id) == "" {
		return PackageSpecifier{}, errors.Wrap(ErrInvalidSpecifier, "missing id")
	}
	v, err := semver.ParseValid(version, versionOptions)
	if err != nil {
		return PackageSpecifier{}, errors.Wrapf(err, "package %s", id)
	}
	return PackageSpecifier{ID: id, Version: v}, nil
}

// ParseSpecifiers decodes a JSON array of {"id", "version"} objects. Blank
// input yields no packages.
func ParseSpecifiers(text string) ([]PackageSpecifier, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var raws []rawSpecifier
	if err := json.Unmarshal([]byte(text), &raws); err != nil {
		return nil, errors.Wrap(ErrInvalidSpecifier, err.Error())
	}

	specs := make([]PackageSpecifier, len(raws))
	for i, raw := range raws {
		spec, err := NewPackageSpecifier(raw.ID, raw.Version)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
		specs[i] = spec
	}
	return specs, nil
}

// CacheDir locates the package inside a global packages folder, which keys
// packages by lower-cased id and then by version.
func (s PackageSpecifier) CacheDir(root string) string {
	return filepath.Join(root, strings.ToLower(s.ID), s.Version.Original())
}

func (s PackageSpecifier) String() string {
	return s.ID + "@" + s.Version.String()
}
