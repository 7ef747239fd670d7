package domain

import (
	"strings"
	"time"
)

// SiteStatus - закрытое перечисление статусов площадки
type SiteStatus string

const (
	SiteStatusActive   SiteStatus = "active"
	SiteStatusPlanned  SiteStatus = "planned"
	SiteStatusArchived SiteStatus = "archived"
)

// ParseSiteStatus переводит статус из исходных данных.
// Пустая строка означает действующую площадку, "geplant" - запланированную,
// любое другое значение - архивную.
func ParseSiteStatus(s string) SiteStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "active":
		return SiteStatusActive
	case "geplant", "planned":
		return SiteStatusPlanned
	default:
		return SiteStatusArchived
	}
}

// LatestEvent - последний проведённый забег площадки
type LatestEvent struct {
	Index        int       `json:"index"`
	Date         time.Time `json:"date"`
	Participants int       `json:"participants"`
	URL          string    `json:"url,omitempty"`
}

// Track - упорядоченная последовательность координат одного маршрута
type Track []Point

// Site - площадка на карте. Не изменяется после загрузки реестра.
type Site struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Location string       `json:"location,omitempty"`
	URL      string       `json:"url,omitempty"`
	Position Point        `json:"position"`
	Status   SiteStatus   `json:"status"`
	Latest   *LatestEvent `json:"latest,omitempty"`
	Tracks   []Track      `json:"tracks"`
}

func (s *Site) Active() bool {
	return s.Status == SiteStatusActive
}

func (s *Site) Planned() bool {
	return s.Status == SiteStatusPlanned
}

func (s *Site) Archived() bool {
	return s.Status == SiteStatusArchived
}
