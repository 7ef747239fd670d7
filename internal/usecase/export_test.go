package usecase

import "time"

// SetClock подменяет часы сессий в тестах
func (uc *SessionUseCase) SetClock(now func() time.Time) {
	uc.now = now
}
