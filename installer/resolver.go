package installer

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vtex/netweaver-setup/cache"
	"github.com/vtex/netweaver-setup/tfm"
	"golang.org/x/sync/singleflight"
)

// Assembly folders of a package, most preferred first.
var assemblyFolders = []string{"ref", "lib"}

// Resolution is the folder of a package chosen for a target framework.
type Resolution struct {
	PackageDir  string
	AssemblyDir string
	Moniker     tfm.Moniker
}

// SourceDir is the directory whose contents get copied.
func (r Resolution) SourceDir() string {
	return filepath.Join(r.AssemblyDir, r.Moniker.Raw())
}

// Resolver picks package folders for a target framework. Folder listings are
// read once and kept for the lifetime of the Resolver, which is a single
// install run; concurrent listings of the same folder are collapsed.
type Resolver struct {
	scans cache.Cache
	group singleflight.Group
}

func NewResolver(scans cache.Cache) *Resolver {
	if scans == nil {
		scans = cache.NewMemoryWith(cache.NoExpiration, 0)
	}
	return &Resolver{scans: scans}
}

// Resolve chooses the ref folder of packageDir over its lib folder and returns
// its most preferable subfolder for target. Subfolders that are not target
// framework monikers are ignored. Candidates that tie are resolved in favour
// of the one listed last, i.e. the greatest name. An exact framework match can
// therefore lose to a netstandard folder whose surface the target implements
// at the same level, e.g. netstandard2.1 wins over net8.0 for net8.0.
func (r *Resolver) Resolve(target tfm.Moniker, packageDir string) (Resolution, error) {
	assemblyDir, err := chooseAssemblyDir(packageDir)
	if err != nil {
		return Resolution{}, err
	}

	names, err := r.subdirs(assemblyDir)
	if err != nil {
		return Resolution{}, err
	}

	monikers, err := tfm.ParseAll(names)
	if err != nil {
		return Resolution{}, errors.Wrapf(err, "parse target folders of %s", assemblyDir)
	}

	chosen, err := target.MostPreferableForConsumption(monikers)
	if err != nil {
		return Resolution{}, errors.Wrapf(err, "rank target folders of %s", assemblyDir)
	}
	if chosen == nil {
		return Resolution{}, errors.Wrapf(ErrNoConsumableSource, "in %s for %s (candidates: [%s])",
			packageDir, target, tfm.Join(monikers, ", "))
	}

	return Resolution{PackageDir: packageDir, AssemblyDir: assemblyDir, Moniker: chosen}, nil
}

func chooseAssemblyDir(packageDir string) (string, error) {
	if info, err := os.Stat(packageDir); err != nil || !info.IsDir() {
		return "", errors.Wrapf(ErrPackageNotFound, "%s", packageDir)
	}

	for _, name := range assemblyFolders {
		dir := filepath.Join(packageDir, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", errors.Wrapf(ErrNoAssemblyFolder, "in %s", packageDir)
}

func (r *Resolver) subdirs(dir string) ([]string, error) {
	v, err, _ := r.group.Do(dir, func() (interface{}, error) {
		var names []string
		err := r.scans.GetOrSet(dir, &names, cache.NoExpiration, func() (interface{}, error) {
			return listSubdirs(dir)
		})
		return names, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func listSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
