package bootstrap

import "gameview-desktop/internal/domain"

var presetCatalog = []domain.PresetOption{
	{
		ID:          "fast",
		Name:        "Fast",
		Description: "Quick preview quality, fewest training iterations.",
	},
	{
		ID:          "balanced",
		Name:        "Balanced",
		Description: "Default trade-off between quality and processing time.",
	},
	{
		ID:          "quality",
		Name:        "Quality",
		Description: "Highest splat quality, longest processing time.",
	},
}

// GetPresets returns built-in processing presets for the frontend.
func (a *App) GetPresets() []domain.PresetOption {
	presets := make([]domain.PresetOption, len(presetCatalog))
	copy(presets, presetCatalog)
	return presets
}
