package domain

// Drawable - непрозрачный объект, который поверхность карты умеет добавить и убрать
type Drawable interface {
	OverlayID() string
}

// OverlayEntry - кешированное состояние оверлеев одной площадки.
// Visible может быть true только при Built == true.
type OverlayEntry struct {
	SiteID    string
	Built     bool
	Drawables []Drawable
	Visible   bool
}

// MapSurface - поверхность карты: сообщает зум и видимую область,
// добавляет и убирает оверлеи.
type MapSurface interface {
	Zoom() (float64, error)
	Bounds() (Bounds, error)
	AddOverlay(d Drawable)
	RemoveOverlay(d Drawable)
}

// StyleID - стиль маркера площадки
type StyleID string

const (
	StyleBlue  StyleID = "blue"
	StyleGreen StyleID = "green"
	StyleRed   StyleID = "red"
	StyleGrey  StyleID = "grey"
)

// ViewMode - режим карты: все площадки или одна площадка
type ViewMode string

const (
	ViewModeOverview ViewMode = "overview"
	ViewModeDetail   ViewMode = "detail"
)
