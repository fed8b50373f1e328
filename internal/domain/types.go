package domain

// JobStatus tracks the lifecycle of a single processing job.
type JobStatus string

const (
	JobStatusIdle      JobStatus = "idle"
	JobStatusRunning   JobStatus = "running"
	JobStatusDone      JobStatus = "done"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// RecentProduction is one entry in the recently-opened productions list.
type RecentProduction struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	LastOpened string `json:"lastOpened"`
}

// Settings contains user-selectable runtime configuration.
type Settings struct {
	Theme             string             `json:"theme"`
	DefaultOutputDir  string             `json:"defaultOutputDir"`
	DefaultPreset     string             `json:"defaultPreset"`
	ColmapPath        string             `json:"colmapPath,omitempty"`
	BrushPath         string             `json:"brushPath,omitempty"`
	RecentProductions []RecentProduction `json:"recentProductions"`
}

// Job stores the current job identity and lifecycle status.
type Job struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
}
