// Package installer downloads the Netcode Weaver and gathers the reference
// assemblies it needs to patch a project into its deps folder.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vtex/netweaver-setup/actionlog"
	"github.com/vtex/netweaver-setup/fetch"
	"github.com/vtex/netweaver-setup/ioext"
	"github.com/vtex/netweaver-setup/metrics"
	"github.com/vtex/netweaver-setup/nuget"
	"github.com/vtex/netweaver-setup/platform"
	"github.com/vtex/netweaver-setup/semver"
	"github.com/vtex/netweaver-setup/tfm"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultDownloadBaseURL = "https://github.com/EvaisaDev/UnityNetcodeWeaver/releases/download"
	DefaultConcurrency     = 4

	OutputDirectory = "netcode-weaver-directory"

	installDirName  = "NetcodeWeaver"
	depsDirName     = "deps"
	markerFileName  = ".netweaver-version"
	runtimeSubdir   = "shared/Microsoft.NETCore.App"
	archiveNameTmpl = "NetcodePatcher-%s.zip"
)

// Facades copied from the shared runtime next to the package assemblies.
var runtimeFacades = []string{"mscorlib.dll", "netstandard.dll"}

type ArchiveFetcher interface {
	Fetch(ctx context.Context, url, destPath string) (string, error)
}

type ArchiveExtractor interface {
	Extract(ctx context.Context, archivePath, destDir string) (string, error)
}

// FileCopier copies a file, or a directory recursively.
type FileCopier interface {
	Copy(ctx context.Context, src, dst string) error
}

type OutputWriter interface {
	SetOutput(name, value string) error
}

type Inputs struct {
	WeaverVersion   semver.Version
	Packages        []nuget.PackageSpecifier
	TargetFramework tfm.Moniker
}

type Options struct {
	TempDir          string
	HomeDir          string
	NuGetPackagesDir string
	DownloadBaseURL  string
	Concurrency      int
}

// Dependencies left nil get a default implementation.
type Dependencies struct {
	Fetcher   ArchiveFetcher
	Extractor ArchiveExtractor
	Copier    FileCopier
	Outputs   OutputWriter
	Groups    *actionlog.Grouper
	Metrics   metrics.Recorder
	Resolver  *Resolver
}

type OutputInfo struct {
	InstallDirectory string
}

type Installer struct {
	opts  Options
	steps platform.Steps

	fetcher   ArchiveFetcher
	extractor ArchiveExtractor
	copier    FileCopier
	outputs   OutputWriter
	groups    *actionlog.Grouper
	metrics   metrics.Recorder
	resolver  *Resolver
}

func New(opts Options, steps platform.Steps, deps Dependencies) *Installer {
	if opts.DownloadBaseURL == "" {
		opts.DownloadBaseURL = DefaultDownloadBaseURL
	}
	if opts.NuGetPackagesDir == "" {
		opts.NuGetPackagesDir = filepath.Join(opts.HomeDir, ".nuget", "packages")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	i := &Installer{
		opts:      opts,
		steps:     steps,
		fetcher:   deps.Fetcher,
		extractor: deps.Extractor,
		copier:    deps.Copier,
		outputs:   deps.Outputs,
		groups:    deps.Groups,
		metrics:   deps.Metrics,
		resolver:  deps.Resolver,
	}
	if i.metrics == nil {
		i.metrics = metrics.Nop
	}
	if i.fetcher == nil {
		i.fetcher = fetch.NewHTTPFetcher(i.metrics)
	}
	if i.extractor == nil {
		i.extractor = ioext.Extractor{}
	}
	if i.copier == nil {
		i.copier = ioext.Copier{}
	}
	if i.outputs == nil {
		i.outputs = actionlog.NewOutputFile("")
	}
	if i.groups == nil {
		i.groups = actionlog.Default
	}
	if i.resolver == nil {
		i.resolver = NewResolver(nil)
	}
	return i
}

// InstallIfNecessary reuses a previous install of the same inputs and
// otherwise installs from scratch. Either way the install directory is
// published as a step output.
func (i *Installer) InstallIfNecessary(ctx context.Context, inputs *Inputs) (OutputInfo, error) {
	installDir := i.ExtractToPath()
	if i.isInstalled(installDir, inputs) {
		logrus.WithField("path", installDir).Info("Found in cache")
		info := OutputInfo{InstallDirectory: installDir}
		return info, i.SetOutputs(info)
	}

	info, err := i.Install(ctx, inputs)
	if err != nil {
		return OutputInfo{}, err
	}
	return info, i.SetOutputs(info)
}

func (i *Installer) SetOutputs(info OutputInfo) error {
	return i.outputs.SetOutput(OutputDirectory, info.InstallDirectory)
}

func (i *Installer) Install(ctx context.Context, inputs *Inputs) (OutputInfo, error) {
	var archive, unpackedDir string

	err := i.step("Download NetcodePatcher", "download", func() (err error) {
		archive, err = i.fetcher.Fetch(ctx, i.DownloadURL(inputs.WeaverVersion),
			filepath.Join(i.opts.TempDir, ArchiveName(inputs.WeaverVersion)))
		return err
	})
	if err != nil {
		return OutputInfo{}, err
	}

	// Start from a clean install directory.
	err = i.step("Extract NetcodePatcher", "extract", func() (err error) {
		if err := os.RemoveAll(i.ExtractToPath()); err != nil {
			return errors.Wrapf(err, "clear %s", i.ExtractToPath())
		}
		unpackedDir, err = i.extractor.Extract(ctx, archive, i.ExtractToPath())
		return err
	})
	if err != nil {
		return OutputInfo{}, err
	}

	err = i.step("Post-install", "post_install", func() error {
		return i.steps.PostInstall(unpackedDir)
	})
	if err != nil {
		return OutputInfo{}, err
	}

	err = i.step("Copy reference assemblies", "copy_references", func() error {
		return i.CopyReferenceAssemblies(ctx, inputs.TargetFramework, unpackedDir, inputs.Packages)
	})
	if err != nil {
		return OutputInfo{}, err
	}

	if err := i.writeMarker(unpackedDir, inputs); err != nil {
		return OutputInfo{}, err
	}

	logrus.WithField("path", unpackedDir).Info("Installed NetcodeWeaver")
	if children, err := os.ReadDir(filepath.Join(unpackedDir, depsDirName)); err == nil {
		names := make([]string, len(children))
		for idx, child := range children {
			names[idx] = child.Name()
		}
		logrus.Info(strings.Join(names, ", "))
	}

	return OutputInfo{InstallDirectory: unpackedDir}, nil
}

func (i *Installer) step(title, name string, fn func() error) error {
	start := time.Now()
	defer i.metrics.ObserveStep(name, start)
	return i.groups.GroupErr(title, fn)
}

func ArchiveName(version semver.Version) string {
	return fmt.Sprintf(archiveNameTmpl, version)
}

func (i *Installer) DownloadURL(version semver.Version) string {
	return strings.TrimSuffix(i.opts.DownloadBaseURL, "/") + "/" + version.String() + "/" + ArchiveName(version)
}

func (i *Installer) ExtractToPath() string {
	return filepath.Join(i.opts.HomeDir, installDirName)
}

// fingerprint identifies the inputs an install was made for.
func fingerprint(inputs *Inputs) string {
	packages := make([]string, len(inputs.Packages))
	for idx, p := range inputs.Packages {
		packages[idx] = p.String()
	}
	return fmt.Sprintf("%s\n%s\n%s\n", inputs.WeaverVersion, inputs.TargetFramework, strings.Join(packages, ","))
}

func (i *Installer) isInstalled(installDir string, inputs *Inputs) bool {
	content, err := os.ReadFile(filepath.Join(installDir, markerFileName))
	if err != nil {
		return false
	}
	return string(content) == fingerprint(inputs)
}

func (i *Installer) writeMarker(installDir string, inputs *Inputs) error {
	path := filepath.Join(installDir, markerFileName)
	return errors.Wrapf(os.WriteFile(path, []byte(fingerprint(inputs)), 0644), "write %s", path)
}

// RuntimeAssembliesDir returns the newest shared Microsoft.NETCore.App runtime
// under dotnetHome.
func RuntimeAssembliesDir(dotnetHome string) (string, error) {
	root := filepath.Join(dotnetHome, filepath.FromSlash(runtimeSubdir))
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", errors.Wrapf(ErrNoRuntime, "in %s: %v", root, err)
	}

	var (
		latest     semver.Version
		latestName string
	)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := semver.Coerce(entry.Name())
		if err != nil {
			continue
		}
		if latestName == "" || v.GreaterThan(latest) {
			latest, latestName = v, entry.Name()
		}
	}

	if latestName == "" {
		return "", errors.Wrapf(ErrNoRuntime, "in %s", root)
	}
	return filepath.Join(root, latestName), nil
}

// CopyPackageAssembliesTo copies the contents of the package folder best
// suited to target into toDir.
func (i *Installer) CopyPackageAssembliesTo(ctx context.Context, target tfm.Moniker, fromPackageDir, toDir string) error {
	resolution, err := i.resolver.Resolve(target, fromPackageDir)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"package": fromPackageDir,
		"target":  target.Raw(),
		"chosen":  resolution.Moniker.Raw(),
	}).Info("Copying package assemblies")
	return errors.Wrapf(i.copier.Copy(ctx, resolution.SourceDir(), toDir), "copy %s", resolution.SourceDir())
}

// CopyReferenceAssemblies fills the deps folder of weaverDir with the runtime
// facades and the assemblies of every package. Copies run concurrently and
// all of them are attempted; failures are returned together as CopyErrors.
// Packages without lib or ref folders are skipped with a warning.
func (i *Installer) CopyReferenceAssemblies(ctx context.Context, target tfm.Moniker, weaverDir string, packages []nuget.PackageSpecifier) error {
	depsDir := filepath.Join(weaverDir, depsDirName)
	if err := os.MkdirAll(depsDir, 0755); err != nil {
		return err
	}

	runtimeDir, err := RuntimeAssembliesDir(i.steps.DotnetHome())
	if err != nil {
		return err
	}

	var (
		mu   sync.Mutex
		errs CopyErrors
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}

	var g errgroup.Group
	g.SetLimit(i.opts.Concurrency)

	for _, facade := range runtimeFacades {
		facade := facade
		g.Go(func() error {
			src, dst := filepath.Join(runtimeDir, facade), filepath.Join(depsDir, facade)
			if err := i.copier.Copy(ctx, src, dst); err != nil {
				record(errors.Wrapf(err, "copy runtime facade %s", facade))
			}
			return nil
		})
	}

	for _, pkg := range packages {
		pkg := pkg
		g.Go(func() error {
			if err := i.copyPackage(ctx, target, pkg, depsDir); err != nil {
				record(err)
			}
			return nil
		})
	}

	g.Wait()
	if len(errs) == 0 {
		return nil
	}
	for _, err := range errs {
		logrus.WithError(err).Error("Failed to copy reference assemblies")
	}
	return errs
}

func (i *Installer) copyPackage(ctx context.Context, target tfm.Moniker, pkg nuget.PackageSpecifier, depsDir string) error {
	packageDir := pkg.CacheDir(i.opts.NuGetPackagesDir)
	err := i.CopyPackageAssembliesTo(ctx, target, packageDir, depsDir)

	switch {
	case err == nil:
		i.metrics.PackageResolved(metrics.ResultCopied)
		return nil
	case errors.Is(err, ErrNoAssemblyFolder):
		i.metrics.PackageResolved(metrics.ResultSkipped)
		logrus.WithFields(logrus.Fields{
			"package": pkg.String(),
			"path":    packageDir,
		}).Warn("Couldn't find lib/ref folder, skipping")
		return nil
	case errors.Is(err, ErrNoConsumableSource):
		i.metrics.PackageResolved(metrics.ResultUnsatisfied)
	default:
		i.metrics.PackageResolved(metrics.ResultFailed)
	}
	return errors.Wrapf(err, "package %s", pkg)
}
