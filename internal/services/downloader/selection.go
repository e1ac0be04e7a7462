package downloader

import (
	"github.com/denisAlshanov/vidgrab/internal/models"
	"github.com/denisAlshanov/vidgrab/internal/utils"
)

// QualityOptions builds the selector entries in stream order. Entries are
// keyed by stream ID, so streams with identical labels are all kept.
func QualityOptions(streams []models.StreamOption) []models.QualityOption {
	options := make([]models.QualityOption, 0, len(streams))
	for _, s := range streams {
		options = append(options, models.QualityOption{
			ID:            s.ID,
			Label:         s.Label(),
			Resolution:    s.ResolutionLabel,
			FileSize:      s.FileSizeBytes,
			FileSizeHuman: utils.FormatSize(s.FileSizeBytes),
		})
	}
	return options
}

// FindStream returns the stream with the given ID.
func FindStream(streams []models.StreamOption, id string) (models.StreamOption, bool) {
	for _, s := range streams {
		if s.ID == id {
			return s, true
		}
	}
	return models.StreamOption{}, false
}
