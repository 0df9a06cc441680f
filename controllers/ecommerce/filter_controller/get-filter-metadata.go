package filter_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/kitcomfeedback-cell/kitchen-store/storefront"
	"go.uber.org/zap"
)

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

// GetFilterMetadata godoc
// @Summary Get all filter metadata
// @Description Returns categories, configured price ranges, the display price span and the sort options
// @Tags store
// @Produce json
// @Success 200 {object} models.ApiResponse{data=models.FilterMetadata}
// @Failure 500 {object} models.ApiResponse
// @Router /store/filters/metadata [get]
func (ctl *Controller) GetFilterMetadata(c *gin.Context) {
	meta, err := ctl.svc.FilterMetadata(c.Request.Context())
	if err != nil {
		ctl.log.Error("failed to fetch filter metadata", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Failed to fetch filter metadata"))
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Filter metadata retrieved successfully", meta))
}

// GetPriceRanges godoc
// @Summary Get price range filters
// @Tags store
// @Produce json
// @Success 200 {object} models.ApiResponse{data=[]models.PriceRange}
// @Router /store/price-ranges [get]
func (ctl *Controller) GetPriceRanges(c *gin.Context) {
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Price ranges retrieved successfully", ctl.svc.PriceRanges()))
}
