package pipeline

import (
	"os"
	"path/filepath"
	goruntime "runtime"
)

const cliBaseName = "gvcore-cli"

// Resolver locates the bundled gvcore-cli executable, falling back to a
// bare name resolved via PATH at spawn time.
type Resolver struct {
	goos       string
	executable func() (string, error)
	stat       func(string) (os.FileInfo, error)
}

// NewResolver builds a resolver using real OS dependencies.
func NewResolver() *Resolver {
	return &Resolver{
		goos:       goruntime.GOOS,
		executable: os.Executable,
		stat:       os.Stat,
	}
}

// CLIName returns the platform-specific executable name.
func (r *Resolver) CLIName() string {
	if r.goos == "windows" {
		return cliBaseName + ".exe"
	}
	return cliBaseName
}

// CLIPath returns the bundled resources path when present, otherwise the
// bare executable name. An unresolvable path is not an error here; the
// spawn attempt surfaces it.
func (r *Resolver) CLIPath() string {
	name := r.CLIName()

	exePath, err := r.executable()
	if err != nil {
		return name
	}

	bundled := filepath.Join(filepath.Dir(exePath), "resources", name)
	if _, err := r.stat(bundled); err == nil {
		return bundled
	}
	return name
}

// NewResolverForTests creates a resolver with injectable dependencies.
func NewResolverForTests(
	goos string,
	executable func() (string, error),
	stat func(string) (os.FileInfo, error),
) *Resolver {
	return &Resolver{
		goos:       goos,
		executable: executable,
		stat:       stat,
	}
}
