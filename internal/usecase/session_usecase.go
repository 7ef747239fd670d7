package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parkrun-map/internal/domain"
	"github.com/parkrun-map/internal/mapsurface"
	"github.com/parkrun-map/internal/metrics"
	"github.com/parkrun-map/internal/pkg/errors"
	"github.com/parkrun-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// MapSession - одна открытая карта клиента со своим кешем оверлеев.
// События сессии обрабатываются строго по одному.
type MapSession struct {
	ID     uuid.UUID
	Mode   domain.ViewMode
	SiteID string

	mu         sync.Mutex
	surface    *mapsurface.RecordingSurface
	cache      *OverlayCache
	controller *VisibilityController
	lastSeen   time.Time
}

// SessionUseCase управляет сессиями карты
type SessionUseCase struct {
	registry  *SiteRegistry
	factory   DrawableFactory
	threshold float64
	logger    *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*MapSession
	now      func() time.Time
}

func NewSessionUseCase(
	registry *SiteRegistry,
	factory DrawableFactory,
	threshold float64,
	logger *zap.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		registry:  registry,
		factory:   factory,
		threshold: threshold,
		logger:    logger,
		sessions:  make(map[uuid.UUID]*MapSession),
		now:       time.Now,
	}
}

// Create открывает сессию и сразу применяет начальную видимую область
func (uc *SessionUseCase) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	if req.Viewport == nil {
		return nil, errors.ErrInvalidViewport
	}
	vp := req.Viewport.Viewport()
	if err := uc.checkViewport(vp); err != nil {
		return nil, err
	}

	session, err := uc.open(uuid.New(), parseViewMode(req.Mode), req.SiteID)
	if err != nil {
		return nil, err
	}

	delta, err := uc.apply(session, vp)
	if err != nil {
		_ = uc.Close(session.ID)
		return nil, err
	}

	uc.logger.Info("Map session opened",
		zap.String("session_id", session.ID.String()),
		zap.String("mode", string(session.Mode)),
		zap.String("site_id", session.SiteID),
		zap.Int("visible_sites", len(delta.VisibleSites)))

	return &dto.SessionResponse{
		SessionID: session.ID,
		Mode:      session.Mode,
		SiteID:    session.SiteID,
		Delta:     delta,
	}, nil
}

// ApplyViewport обрабатывает изменение видимой области существующей сессии
func (uc *SessionUseCase) ApplyViewport(ctx context.Context, id uuid.UUID, vp domain.Viewport) (*dto.SessionResponse, error) {
	if err := uc.checkViewport(vp); err != nil {
		return nil, err
	}

	session, err := uc.Get(id)
	if err != nil {
		return nil, err
	}

	delta, err := uc.apply(session, vp)
	if err != nil {
		return nil, err
	}

	return &dto.SessionResponse{
		SessionID: session.ID,
		Mode:      session.Mode,
		SiteID:    session.SiteID,
		Delta:     delta,
	}, nil
}

// HandleEvent обрабатывает событие из потока. Сессия с неизвестным ID
// открывается с режимом и площадкой из события.
func (uc *SessionUseCase) HandleEvent(ctx context.Context, event *domain.ViewportEvent) (*domain.OverlayDelta, error) {
	vp := event.Viewport()
	if err := uc.checkViewport(vp); err != nil {
		return nil, err
	}

	session, err := uc.Ensure(event.SessionID, event.Mode, event.SiteID)
	if err != nil {
		return nil, err
	}

	return uc.apply(session, vp)
}

// Ensure возвращает сессию с указанным ID, при необходимости открывая её
func (uc *SessionUseCase) Ensure(id uuid.UUID, mode domain.ViewMode, siteID string) (*MapSession, error) {
	if session, err := uc.Get(id); err == nil {
		return session, nil
	}
	return uc.open(id, parseViewMode(string(mode)), siteID)
}

// Get возвращает открытую сессию
func (uc *SessionUseCase) Get(id uuid.UUID) (*MapSession, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	session, ok := uc.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	return session, nil
}

// Close закрывает сессию, её кеш оверлеев отбрасывается
func (uc *SessionUseCase) Close(id uuid.UUID) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.sessions[id]; !ok {
		return errors.ErrSessionNotFound
	}
	delete(uc.sessions, id)
	metrics.SessionsActive.Set(float64(len(uc.sessions)))

	uc.logger.Debug("Map session closed", zap.String("session_id", id.String()))
	return nil
}

// ReapIdle закрывает сессии без событий дольше maxIdle, возвращает их число
func (uc *SessionUseCase) ReapIdle(maxIdle time.Duration) int {
	deadline := uc.now().Add(-maxIdle)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	reaped := 0
	for id, session := range uc.sessions {
		session.mu.Lock()
		idle := session.lastSeen.Before(deadline)
		session.mu.Unlock()

		if idle {
			delete(uc.sessions, id)
			reaped++
		}
	}

	metrics.SessionsActive.Set(float64(len(uc.sessions)))
	return reaped
}

// Count возвращает число открытых сессий
func (uc *SessionUseCase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.sessions)
}

func (uc *SessionUseCase) open(id uuid.UUID, mode domain.ViewMode, siteID string) (*MapSession, error) {
	sites, err := uc.registry.Select(mode, siteID)
	if err != nil {
		return nil, err
	}

	surface := mapsurface.NewRecordingSurface()
	cache := NewOverlayCache(uc.factory)
	session := &MapSession{
		ID:         id,
		Mode:       mode,
		SiteID:     siteID,
		surface:    surface,
		cache:      cache,
		controller: NewVisibilityController(sites, cache, surface, uc.threshold, uc.logger.With(zap.String("session_id", id.String()))),
		lastSeen:   uc.now(),
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if existing, ok := uc.sessions[id]; ok {
		return existing, nil
	}
	uc.sessions[id] = session
	metrics.SessionsActive.Set(float64(len(uc.sessions)))

	return session, nil
}

func (uc *SessionUseCase) apply(session *MapSession, vp domain.Viewport) (*domain.OverlayDelta, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	session.surface.SetViewport(vp)
	if err := session.controller.Refresh(); err != nil {
		return nil, fmt.Errorf("refresh session %s: %w", session.ID, err)
	}
	session.lastSeen = uc.now()

	return session.surface.Flush(session.controller.VisibleSites()), nil
}

// checkViewport проверяет углы только выше порога зума: ниже порога
// границы не читаются, а на мелком масштабе клиент может прислать долготы за ±180
func (uc *SessionUseCase) checkViewport(vp domain.Viewport) error {
	if vp.Zoom <= uc.threshold {
		return nil
	}
	if !vp.Bounds.Valid() {
		return errors.ErrInvalidViewport
	}
	return nil
}

func parseViewMode(mode string) domain.ViewMode {
	if mode == "" {
		return domain.ViewModeOverview
	}
	return domain.ViewMode(mode)
}
