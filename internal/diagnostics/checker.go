package diagnostics

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"gameview-desktop/internal/domain"
	"gameview-desktop/internal/pipeline"
)

// Checker validates the processing toolchain and required filesystem paths.
type Checker struct {
	resolveCLI func() string
	lookPath   func(string) (string, error)
	stat       func(string) (os.FileInfo, error)
	mkdirAll   func(string, os.FileMode) error
	createTemp func(string, string) (*os.File, error)
	remove     func(string) error
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker() *Checker {
	resolver := pipeline.NewResolver()
	return &Checker{
		resolveCLI: resolver.CLIPath,
		lookPath:   exec.LookPath,
		stat:       os.Stat,
		mkdirAll:   os.MkdirAll,
		createTemp: os.CreateTemp,
		remove:     os.Remove,
	}
}

// Run executes all startup checks and returns a combined report.
func (c *Checker) Run(settings domain.Settings) domain.DiagnosticReport {
	items := []domain.DiagnosticItem{
		c.checkCLI(),
		c.checkToolOverride("colmap_path", "COLMAP override", settings.ColmapPath),
		c.checkToolOverride("brush_path", "Brush override", settings.BrushPath),
		c.checkOutputDir(settings.DefaultOutputDir),
	}

	hasFailures := false
	for _, item := range items {
		if item.Status == domain.DiagnosticStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: hasFailures,
		Items:       items,
	}
}

// checkCLI verifies the processing executable is bundled or on PATH.
func (c *Checker) checkCLI() domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "gvcore_cli",
		Name: "Processing pipeline",
	}

	cliPath := c.resolveCLI()
	if strings.ContainsRune(cliPath, os.PathSeparator) {
		if _, err := c.stat(cliPath); err == nil {
			item.Status = domain.DiagnosticStatusPass
			item.Message = fmt.Sprintf("Bundled executable at %s", cliPath)
			return item
		}
	}

	resolved, err := c.lookPath(cliPath)
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Processing executable not found: %s", cliPath)
		item.Hint = "Reinstall the application or place gvcore-cli on PATH."
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Found at %s", resolved)
	return item
}

// checkToolOverride validates an optional tool path when configured.
func (c *Checker) checkToolOverride(id, name, path string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   id,
		Name: name,
	}

	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		item.Status = domain.DiagnosticStatusPass
		item.Message = "Not configured, pipeline default is used."
		return item
	}

	info, err := c.stat(trimmed)
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		if errors.Is(err, os.ErrNotExist) {
			item.Message = fmt.Sprintf("Configured path does not exist: %s", trimmed)
		} else {
			item.Message = fmt.Sprintf("Cannot access configured path: %s", trimmed)
		}
		item.Hint = "Fix or clear the override in settings."
		return item
	}
	if info.IsDir() {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Configured path is a directory: %s", trimmed)
		item.Hint = "Point the override at the tool executable itself."
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Using %s", trimmed)
	return item
}

// checkOutputDir validates output directory existence and write access.
func (c *Checker) checkOutputDir(outputDir string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "output_dir",
		Name: "Output directory",
	}

	if strings.TrimSpace(outputDir) == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Default output directory is empty."
		item.Hint = "Set a directory where processed productions can be written."
		return item
	}

	if err := c.mkdirAll(outputDir, 0o755); err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Cannot create output directory: %s", outputDir)
		item.Hint = "Choose a writable location or adjust filesystem permissions."
		return item
	}

	tmpFile, err := c.createTemp(outputDir, ".write-check-*")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Output directory is not writable: %s", outputDir)
		item.Hint = "Choose a writable directory for processing output."
		return item
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Writable directory: %s", outputDir)
	return item
}

// NewCheckerForTests creates checker with injectable dependencies.
func NewCheckerForTests(
	resolveCLI func() string,
	lookPath func(string) (string, error),
	stat func(string) (os.FileInfo, error),
	mkdirAll func(string, os.FileMode) error,
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
) *Checker {
	return &Checker{
		resolveCLI: resolveCLI,
		lookPath:   lookPath,
		stat:       stat,
		mkdirAll:   mkdirAll,
		createTemp: createTemp,
		remove:     remove,
	}
}
