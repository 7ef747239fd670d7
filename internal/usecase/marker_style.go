package usecase

import "github.com/parkrun-map/internal/domain"

// ResolveStyle выбирает стиль маркера по статусу площадки.
// На обзорной карте архивная площадка без последнего забега серая.
func ResolveStyle(site *domain.Site, mode domain.ViewMode) domain.StyleID {
	switch site.Status {
	case domain.SiteStatusActive:
		return domain.StyleBlue
	case domain.SiteStatusPlanned:
		return domain.StyleGreen
	default:
		if mode == domain.ViewModeOverview && site.Latest == nil {
			return domain.StyleGrey
		}
		return domain.StyleRed
	}
}
