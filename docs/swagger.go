// Package docs Parkrun Map API.
//
// Сервис карты забегов parkrun: маркеры площадок, детали площадки с треками трассы
// и сессии карты, которые отдают дельты оверлеев при изменении видимой области.
//
// Треки показываются только при масштабе выше порога (MAP_ZOOM_THRESHOLD)
// и только для площадок, попавших в видимую область.
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
