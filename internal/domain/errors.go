package domain

import "errors"

var (
	// ErrViewportUnavailable возвращается поверхностью карты, пока видимая область не известна
	ErrViewportUnavailable = errors.New("viewport unavailable")

	// ErrInvalidSite - запись площадки не прошла проверку при загрузке реестра
	ErrInvalidSite = errors.New("invalid site record")
)
