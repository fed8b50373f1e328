package bootstrap

import (
	"fmt"
	"os"
	"strings"

	"gameview-desktop/internal/config"
	"gameview-desktop/internal/domain"
)

// InstallOrFixDiagnostic applies a remediation for one failed diagnostic
// item. The gvcore-cli executable ships with the app and cannot be fixed
// from here; path problems are repaired by resetting to defaults.
func (a *App) InstallOrFixDiagnostic(itemID string) (domain.DiagnosticReport, error) {
	if a.Store == nil {
		return domain.DiagnosticReport{}, fmt.Errorf("settings store is not configured")
	}

	id := strings.TrimSpace(itemID)
	if id == "" {
		return domain.DiagnosticReport{}, fmt.Errorf("diagnostic item id is required")
	}

	settings, err := a.Store.Load()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}
	settings = normalizeSettings(settings)

	settingsChanged := false
	var fixErr error

	switch id {
	case "gvcore_cli":
		fixErr = fmt.Errorf("gvcore-cli is missing; reinstall the application")
	case "colmap_path":
		settings.ColmapPath = ""
		settingsChanged = true
	case "brush_path":
		settings.BrushPath = ""
		settingsChanged = true
	case "output_dir":
		settings, settingsChanged, fixErr = fixOutputDir(settings)
	default:
		return domain.DiagnosticReport{}, fmt.Errorf("unsupported diagnostic item id: %s", id)
	}

	if settingsChanged {
		if saveErr := a.Store.Save(settings); saveErr != nil {
			report := a.refreshDiagnosticsFromSettings(settings)
			return report, fmt.Errorf("save settings after fix: %w", saveErr)
		}
	}

	report := a.refreshDiagnosticsFromSettings(settings)
	return report, fixErr
}

// refreshDiagnosticsFromSettings reruns checks and caches the report.
func (a *App) refreshDiagnosticsFromSettings(settings domain.Settings) domain.DiagnosticReport {
	report := a.checker.Run(settings)

	a.mu.Lock()
	a.Settings = settings
	a.Diagnostics = report
	a.mu.Unlock()

	return report
}

// fixOutputDir creates the configured directory, falling back to the
// first-launch default when the configured one cannot be used.
func fixOutputDir(settings domain.Settings) (domain.Settings, bool, error) {
	target := settings.DefaultOutputDir
	if target != "" {
		if err := os.MkdirAll(target, 0o755); err == nil {
			return settings, false, nil
		}
	}

	fallback := config.DefaultSettings().DefaultOutputDir
	if err := os.MkdirAll(fallback, 0o755); err != nil {
		return settings, false, fmt.Errorf("create output directory %s: %w", fallback, err)
	}

	settings.DefaultOutputDir = fallback
	return settings, true, nil
}
