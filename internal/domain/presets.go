package domain

// PresetOption describes one built-in processing quality preset.
type PresetOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
