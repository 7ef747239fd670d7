package domain

import "github.com/paulmach/orb"

type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// Orb возвращает точку в порядке orb (lon, lat)
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Bounds - замкнутый географический прямоугольник (юго-запад / северо-восток)
type Bounds struct {
	MinLat float64 `json:"min_lat" db:"min_lat"`
	MinLon float64 `json:"min_lon" db:"min_lon"`
	MaxLat float64 `json:"max_lat" db:"max_lat"`
	MaxLon float64 `json:"max_lon" db:"max_lon"`
}

// NewBounds строит Bounds из углов SW и NE
func NewBounds(sw, ne Point) Bounds {
	return Bounds{
		MinLat: sw.Lat,
		MinLon: sw.Lon,
		MaxLat: ne.Lat,
		MaxLon: ne.Lon,
	}
}

// Orb возвращает прямоугольник как orb.Bound
func (b Bounds) Orb() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

// Contains проверяет попадание точки в прямоугольник, граница включается
func (b Bounds) Contains(p Point) bool {
	return b.Orb().Contains(p.Orb())
}

// Valid проверяет, что углы упорядочены и лежат в допустимых диапазонах
func (b Bounds) Valid() bool {
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return false
	}
	return b.MinLat >= -90 && b.MaxLat <= 90 && b.MinLon >= -180 && b.MaxLon <= 180
}

// Viewport - текущее состояние карты: уровень зума и видимая область
type Viewport struct {
	Zoom   float64 `json:"zoom"`
	Bounds Bounds  `json:"bounds"`
}
