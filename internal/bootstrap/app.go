package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"gameview-desktop/internal/config"
	"gameview-desktop/internal/diagnostics"
	"gameview-desktop/internal/domain"
	"gameview-desktop/internal/jobs"
	"gameview-desktop/internal/pipeline"
	"gameview-desktop/internal/progress"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var videoDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Video files",
		Pattern:     "*.mp4;*.mov;*.mkv;*.avi;*.webm",
	},
	{
		DisplayName: "All files",
		Pattern:     "*",
	},
}

// ProcessRequest is the frontend payload for starting one processing job.
// Empty output dir and preset fall back to the persisted defaults.
type ProcessRequest struct {
	Videos    []string `json:"videos"`
	OutputDir string   `json:"outputDir"`
	Preset    string   `json:"preset"`
}

// App wires configuration, jobs, pipeline, and UI runtime callbacks.
type App struct {
	Settings    domain.Settings
	Store       config.Store
	Jobs        *jobs.Manager
	Pipeline    pipelineRunner
	Diagnostics domain.DiagnosticReport
	assets      fs.FS
	checker     *diagnostics.Checker
	resolver    *pipeline.Resolver
	cancelFlag  *jobs.CancelFlag

	mu          sync.Mutex
	activeJobID string
	events      *jobs.EventBus
	runtimeCtx  context.Context
}

// pipelineRunner isolates the processing pipeline behind an interface.
type pipelineRunner interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// New builds the application with persisted settings and startup diagnostics.
func New() (*App, error) {
	return NewWithAssets(nil)
}

// NewWithAssets builds the application and optionally configures embedded frontend assets.
func NewWithAssets(assets fs.FS) (*App, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user home: %w", err)
	}

	store := config.NewJSONStore(filepath.Join(homeDir, ".gameview", "settings.json"))
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	checker := diagnostics.NewChecker()
	report := checker.Run(settings)

	return &App{
		Settings:    settings,
		Store:       store,
		Jobs:        jobs.NewManager(),
		Pipeline:    pipeline.NewPipeline(),
		Diagnostics: report,
		assets:      assets,
		checker:     checker,
		resolver:    pipeline.NewResolver(),
		cancelFlag:  jobs.NewCancelFlag(),
		events:      jobs.NewEventBus(1000),
	}, nil
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "Game View",
		Width:       1280,
		Height:      820,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown: func(ctx context.Context) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.runtimeCtx = nil
		},
		Bind: []interface{}{a},
	})
}

// Startup stores Wails runtime context for push events.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runtimeCtx = ctx
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	return a.Diagnostics
}

// GetSettings loads and returns the latest persisted settings.
func (a *App) GetSettings() (domain.Settings, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// SaveSettings normalizes and persists settings, then refreshes diagnostics.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := normalizeSettings(settings)
	if err := a.Store.Save(normalized); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = normalized
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(normalized)
	}
	a.mu.Unlock()

	return normalized, nil
}

// AddRecentProduction records one opened production and persists the list.
func (a *App) AddRecentProduction(name, path string) (domain.Settings, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	settings = config.RememberProduction(settings, name, path, time.Now())
	if err := a.Store.Save(settings); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// PickVideos opens a native multi-select dialog for source videos.
func (a *App) PickVideos() ([]string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return nil, err
	}

	paths, err := wailsruntime.OpenMultipleFilesDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:   "Select source videos",
		Filters: videoDialogFilter,
	})
	if err != nil {
		return nil, err
	}

	selected := make([]string, 0, len(paths))
	for _, path := range paths {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			selected = append(selected, trimmed)
		}
	}
	return selected, nil
}

// PickOutputDirectory opens a native directory picker for processing output.
func (a *App) PickOutputDirectory() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenDirectoryDialog(ctx, wailsruntime.OpenDialogOptions{
		Title: "Select output directory",
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// GetCLIPath returns the resolved gvcore-cli location for display.
func (a *App) GetCLIPath() string {
	return a.resolver.CLIPath()
}

// OpenOutputFolder opens the given path (or configured output dir) in file manager.
func (a *App) OpenOutputFolder(path string) error {
	target := strings.TrimSpace(path)
	if target == "" {
		a.mu.Lock()
		target = a.Settings.DefaultOutputDir
		a.mu.Unlock()
	}
	if target == "" {
		return fmt.Errorf("output path is empty")
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	openPath := target
	if !info.IsDir() {
		openPath = filepath.Dir(target)
	}

	return openInFileManager(openPath)
}

// RefreshDiagnostics reloads settings and reruns dependency checks.
func (a *App) RefreshDiagnostics() (domain.DiagnosticReport, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}

	a.Settings = settings
	a.Diagnostics = a.checker.Run(settings)
	return a.Diagnostics, nil
}

// StartProcessing creates a job and runs the pipeline asynchronously.
// The call returns as soon as the job is accepted; progress and the
// terminal outcome arrive as events.
func (a *App) StartProcessing(req ProcessRequest) (domain.Job, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Job{}, fmt.Errorf("load settings: %w", err)
	}

	if len(req.Videos) == 0 {
		return domain.Job{}, fmt.Errorf("at least one source video is required")
	}

	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = settings.DefaultOutputDir
	}
	if outputDir == "" {
		return domain.Job{}, fmt.Errorf("output directory is required")
	}

	preset := strings.TrimSpace(req.Preset)
	if preset == "" {
		preset = settings.DefaultPreset
	}
	if preset == "" {
		preset = "balanced"
	}

	jobID := fmt.Sprintf("job-%d", time.Now().UnixNano())
	if err := a.Jobs.Start(jobID); err != nil {
		return domain.Job{}, err
	}

	a.mu.Lock()
	a.activeJobID = jobID
	a.Settings = settings
	a.mu.Unlock()

	a.publishStatus(jobID, domain.JobStatusRunning, "Processing started")

	pipelineReq := pipeline.Request{
		Videos:     req.Videos,
		OutputDir:  outputDir,
		Preset:     preset,
		ColmapPath: settings.ColmapPath,
		BrushPath:  settings.BrushPath,
		Cancel:     a.cancelFlag,
		OnProgress: func(event progress.Event) {
			a.publishEvent(jobs.Event{
				JobID:    jobID,
				Type:     jobs.EventTypeProgress,
				Stage:    event.Stage,
				Progress: event.Progress,
				Message:  event.Message,
			})
		},
	}

	go a.runProcessingJob(jobID, pipelineReq)
	return a.Jobs.Current(), nil
}

// CancelProcessing requests cancellation of the running job. It only
// writes the shared flag, so it is safe from any goroutine, idempotent,
// and a no-op when nothing is running.
func (a *App) CancelProcessing() {
	a.cancelFlag.Set()

	if err := a.Jobs.Cancel(); err != nil {
		return
	}

	a.mu.Lock()
	activeJobID := a.activeJobID
	a.mu.Unlock()
	if activeJobID != "" {
		a.publishStatus(activeJobID, domain.JobStatusCancelled, "Cancellation requested")
	}
}

// CurrentJob returns current job metadata and status.
func (a *App) CurrentJob() domain.Job {
	return a.Jobs.Current()
}

// JobEvents returns all events with sequence greater than sinceSeq.
func (a *App) JobEvents(sinceSeq int64) []jobs.Event {
	return a.events.Since(sinceSeq)
}

// runProcessingJob executes the pipeline and maps outcomes to job events.
func (a *App) runProcessingJob(jobID string, req pipeline.Request) {
	result, err := a.Pipeline.Run(context.Background(), req)
	if err != nil {
		if pipeline.IsCancelled(err) {
			_ = a.Jobs.Transition(domain.JobStatusCancelled)
			a.publishStatus(jobID, domain.JobStatusCancelled, "Processing cancelled")
			a.clearActiveJob(jobID)
			return
		}

		_ = a.Jobs.Transition(domain.JobStatusFailed)
		a.publishStatus(jobID, domain.JobStatusFailed, "Processing failed")

		errorEvent := jobs.Event{
			JobID:   jobID,
			Type:    jobs.EventTypeError,
			Status:  domain.JobStatusFailed,
			Message: err.Error(),
		}
		var pipelineErr *pipeline.PipelineError
		if errors.As(err, &pipelineErr) {
			errorEvent.ExitCode = pipelineErr.ExitCode
		}
		a.publishEvent(errorEvent)
		a.clearActiveJob(jobID)
		return
	}

	if err := a.Jobs.Transition(domain.JobStatusDone); err == nil {
		a.publishStatus(jobID, domain.JobStatusDone, "Processing completed")
	}
	a.publishEvent(jobs.Event{
		JobID:        jobID,
		Type:         jobs.EventTypeResult,
		Status:       domain.JobStatusDone,
		Message:      "Artifact ready",
		ArtifactPath: result.ArtifactPath,
	})
	a.clearActiveJob(jobID)
}

// publishStatus sends a normalized status event.
func (a *App) publishStatus(jobID string, status domain.JobStatus, message string) {
	a.publishEvent(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeStatus,
		Status:  status,
		Message: message,
	})
}

// publishEvent stores event history and emits runtime push notifications.
func (a *App) publishEvent(event jobs.Event) {
	published := a.events.Publish(event)

	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, "processing:event", published)
	}
}

// clearActiveJob clears the job handle for completed job IDs.
func (a *App) clearActiveJob(jobID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.activeJobID == jobID {
		a.activeJobID = ""
	}
}

// runtimeContext returns current Wails runtime context for dialog APIs.
func (a *App) runtimeContext() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimeCtx == nil {
		return nil, fmt.Errorf("runtime context is not initialized")
	}
	return a.runtimeCtx, nil
}

// normalizeSettings trims user inputs and applies defaults for empty fields.
func normalizeSettings(settings domain.Settings) domain.Settings {
	settings.Theme = strings.TrimSpace(settings.Theme)
	settings.DefaultOutputDir = strings.TrimSpace(settings.DefaultOutputDir)
	settings.DefaultPreset = strings.TrimSpace(settings.DefaultPreset)
	settings.ColmapPath = strings.TrimSpace(settings.ColmapPath)
	settings.BrushPath = strings.TrimSpace(settings.BrushPath)
	if settings.Theme == "" {
		settings.Theme = "system"
	}
	if settings.DefaultPreset == "" {
		settings.DefaultPreset = "balanced"
	}
	if settings.RecentProductions == nil {
		settings.RecentProductions = []domain.RecentProduction{}
	}
	return settings
}

// openInFileManager launches the platform file explorer for the provided path.
func openInFileManager(path string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", filepath.Clean(path))
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch file manager: %w", err)
	}
	return nil
}
