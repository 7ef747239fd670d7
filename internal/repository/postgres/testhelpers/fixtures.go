package testhelpers

import (
	"time"

	"github.com/parkrun-map/internal/domain"
)

// SiteFixtures returns a small set of sites covering every status
func SiteFixtures() []*domain.Site {
	return []*domain.Site{
		{
			ID:       "dietenbach",
			Name:     "Dietenbach parkrun",
			Location: "Freiburg",
			URL:      "https://www.parkrun.com.de/dietenbach/",
			Position: domain.Point{Lat: 47.99301, Lon: 7.79923},
			Status:   domain.SiteStatusActive,
			Latest: &domain.LatestEvent{
				Index:        150,
				Date:         time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				Participants: 112,
			},
			Tracks: []domain.Track{
				{
					{Lat: 47.99301, Lon: 7.79923},
					{Lat: 47.99412, Lon: 7.80101},
					{Lat: 47.99520, Lon: 7.80277},
				},
			},
		},
		{
			ID:       "neckarau",
			Name:     "Neckarau parkrun",
			Position: domain.Point{Lat: 49.45, Lon: 8.49},
			Status:   domain.SiteStatusPlanned,
			Tracks:   []domain.Track{},
		},
		{
			ID:       "wertwiesen",
			Name:     "Wertwiesen parkrun",
			Position: domain.Point{Lat: 49.13, Lon: 9.22},
			Status:   domain.SiteStatusArchived,
			Tracks:   []domain.Track{},
		},
	}
}
