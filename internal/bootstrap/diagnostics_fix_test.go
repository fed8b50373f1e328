package bootstrap

import (
	"os"
	"testing"

	"gameview-desktop/internal/diagnostics"
	"gameview-desktop/internal/domain"
)

// newFixTestApp assembles an App with a passing checker for fix tests.
func newFixTestApp(t *testing.T, store *fakeStore) *App {
	t.Helper()
	app := newTestApp(store, &fakePipeline{})
	app.checker = diagnostics.NewCheckerForTests(
		func() string { return "gvcore-cli" },
		func(name string) (string, error) { return "/usr/local/bin/" + name, nil },
		os.Stat,
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)
	return app
}

// TestInstallOrFixDiagnosticClearsToolOverride checks override remediation.
func TestInstallOrFixDiagnosticClearsToolOverride(t *testing.T) {
	store := &fakeStore{
		settings: domain.Settings{
			DefaultOutputDir: t.TempDir(),
			ColmapPath:       "/broken/colmap",
		},
	}
	app := newFixTestApp(t, store)

	if _, err := app.InstallOrFixDiagnostic("colmap_path"); err != nil {
		t.Fatalf("fix colmap_path: %v", err)
	}
	if store.saved == nil {
		t.Fatal("expected settings to be persisted")
	}
	if store.saved.ColmapPath != "" {
		t.Fatalf("colmap path = %q, want cleared", store.saved.ColmapPath)
	}
}

// TestInstallOrFixDiagnosticCLIIsNotFixable checks the reinstall hint path.
func TestInstallOrFixDiagnosticCLIIsNotFixable(t *testing.T) {
	store := &fakeStore{
		settings: domain.Settings{DefaultOutputDir: t.TempDir()},
	}
	app := newFixTestApp(t, store)

	if _, err := app.InstallOrFixDiagnostic("gvcore_cli"); err == nil {
		t.Fatal("expected error for unfixable cli item")
	}
}

// TestInstallOrFixDiagnosticRejectsUnknownID checks id validation.
func TestInstallOrFixDiagnosticRejectsUnknownID(t *testing.T) {
	store := &fakeStore{
		settings: domain.Settings{DefaultOutputDir: t.TempDir()},
	}
	app := newFixTestApp(t, store)

	if _, err := app.InstallOrFixDiagnostic("nonsense"); err == nil {
		t.Fatal("expected error for unknown item id")
	}
	if _, err := app.InstallOrFixDiagnostic("  "); err == nil {
		t.Fatal("expected error for empty item id")
	}
}
