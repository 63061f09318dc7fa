package installer

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNoConsumableSource = errors.New("no consumable sources were found")
	ErrNoAssemblyFolder   = errors.New("couldn't find lib/ref folder")
	ErrPackageNotFound    = errors.New("package not found in NuGet package cache")
	ErrNoRuntime          = errors.New("no Microsoft.NETCore.App runtime found")
)

// CopyErrors collects every failed copy of a CopyReferenceAssemblies run, so
// that all missing dependencies are reported at once.
type CopyErrors []error

func (e CopyErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d reference assembly copies failed: %s", len(e), strings.Join(msgs, "; "))
}

func (e CopyErrors) Unwrap() []error {
	return e
}
