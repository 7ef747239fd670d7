package dto

import "github.com/parkrun-map/internal/domain"

// ViewportRequest - видимая область карты клиента. Углы проверяются
// в SessionUseCase и только выше порога зума.
type ViewportRequest struct {
	Zoom  float64 `json:"zoom" validate:"min=0,max=24"`
	SwLat float64 `json:"sw_lat"`
	SwLon float64 `json:"sw_lon"`
	NeLat float64 `json:"ne_lat"`
	NeLon float64 `json:"ne_lon"`
}

// Viewport переводит запрос в доменную модель
func (r ViewportRequest) Viewport() domain.Viewport {
	return domain.Viewport{
		Zoom: r.Zoom,
		Bounds: domain.NewBounds(
			domain.Point{Lat: r.SwLat, Lon: r.SwLon},
			domain.Point{Lat: r.NeLat, Lon: r.NeLon},
		),
	}
}

// CreateSessionRequest - запрос на открытие сессии карты
type CreateSessionRequest struct {
	Mode     string           `json:"mode" validate:"omitempty,oneof=overview detail"`
	SiteID   string           `json:"site_id" validate:"required_if=Mode detail"`
	Viewport *ViewportRequest `json:"viewport" validate:"required"`
}
