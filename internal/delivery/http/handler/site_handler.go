package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/parkrun-map/internal/pkg/utils"
	"github.com/parkrun-map/internal/usecase"
	"go.uber.org/zap"
)

// SiteHandler обрабатывает запросы к реестру площадок
type SiteHandler struct {
	siteUC *usecase.SiteUseCase
	logger *zap.Logger
}

// NewSiteHandler создает новый экземпляр SiteHandler
func NewSiteHandler(siteUC *usecase.SiteUseCase, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{
		siteUC: siteUC,
		logger: logger,
	}
}

// ListSites godoc
// @Summary List sites
// @Description Маркеры всех площадок для обзорной карты со стилем по статусу
// @Tags Sites
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.SiteMarker}
// @Router /api/v1/sites [get]
func (h *SiteHandler) ListSites(c *fiber.Ctx) error {
	markers, counts := h.siteUC.ListMarkers(c.Context())

	return utils.SendSuccess(c, markers, &utils.Meta{
		Total: counts.Total,
		Counts: map[string]int{
			"active":   counts.Active,
			"planned":  counts.Planned,
			"archived": counts.Archived,
		},
	})
}

// GetSite godoc
// @Summary Get site
// @Description Площадка со сводкой по трекам и стилем карты площадки
// @Tags Sites
// @Produce json
// @Param id path string true "Site ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.SiteDetail}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sites/{id} [get]
func (h *SiteHandler) GetSite(c *fiber.Ctx) error {
	id := c.Params("id")

	detail, err := h.siteUC.GetDetail(c.Context(), id)
	if err != nil {
		h.logger.Debug("Site lookup failed", zap.String("id", id), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, detail, nil)
}
