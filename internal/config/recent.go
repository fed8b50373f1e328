package config

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"gameview-desktop/internal/domain"
)

// maxRecentProductions bounds the recently-opened list.
const maxRecentProductions = 10

// RememberProduction records one opened production at the head of the
// recent list, refreshing its timestamp when the path is already known.
func RememberProduction(settings domain.Settings, name, path string, openedAt time.Time) domain.Settings {
	name = strings.TrimSpace(name)
	path = strings.TrimSpace(path)
	if path == "" {
		return settings
	}
	if name == "" {
		name = path
	}

	entry := domain.RecentProduction{
		ID:         uuid.NewString(),
		Name:       name,
		Path:       path,
		LastOpened: openedAt.UTC().Format(time.RFC3339),
	}

	recents := make([]domain.RecentProduction, 0, len(settings.RecentProductions)+1)
	recents = append(recents, entry)
	for _, existing := range settings.RecentProductions {
		if existing.Path == path {
			// Keep the original id for an already-known production.
			recents[0].ID = existing.ID
			continue
		}
		recents = append(recents, existing)
	}

	if len(recents) > maxRecentProductions {
		recents = recents[:maxRecentProductions]
	}

	settings.RecentProductions = recents
	return settings
}
