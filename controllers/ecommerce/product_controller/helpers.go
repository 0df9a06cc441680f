package product_controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kitcomfeedback-cell/kitchen-store/engine"
	"github.com/kitcomfeedback-cell/kitchen-store/middleware"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/kitcomfeedback-cell/kitchen-store/storefront"
	"go.uber.org/zap"
)

// ─────────────────────────────────────────────────────────────
// Controller
// ─────────────────────────────────────────────────────────────

type Controller struct {
	svc *storefront.Service
	log *zap.Logger
}

func New(svc *storefront.Service, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{svc: svc, log: log}
}

// openPage loads the tab's page. On failure the error response is already
// written.
func (ctl *Controller) openPage(c *gin.Context) (*storefront.Page, bool) {
	tab := c.GetString(middleware.TabKey)
	page, err := ctl.svc.Open(c.Request.Context(), tab, nil)
	if err != nil {
		ctl.log.Error("failed to open storefront page", zap.String("tab", tab), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Failed to load storefront"))
		return nil, false
	}
	return page, true
}

// respondError maps engine and storefront errors onto status codes.
func (ctl *Controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrUnknownPriceRange):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Unknown price range"))
	case errors.Is(err, engine.ErrUnknownSort):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Unknown sort option"))
	case errors.Is(err, storefront.ErrProductNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse(c, "Product not found"))
	case errors.Is(err, storefront.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse(c, "Category not found"))
	case errors.Is(err, storefront.ErrSuperseded):
		c.JSON(http.StatusConflict, models.ErrorResponse(c, "Superseded by a newer request"))
	default:
		ctl.log.Error("storefront request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Internal server error"))
	}
}
