package product_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kitcomfeedback-cell/kitchen-store/engine"
	"github.com/kitcomfeedback-cell/kitchen-store/events"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
)

type SortRequest struct {
	Sort string `json:"sort" binding:"required" example:"low-high"`
}

// LoadMoreProducts godoc
// @Summary Reveal more products
// @Description Reports the viewport; when it is within 150px of the bottom of the unfiltered list, 20 more products are revealed
// @Tags store
// @Accept json
// @Produce json
// @Param viewport body engine.Viewport true "Scroll geometry"
// @Success 200 {object} models.ApiResponse{data=models.StorefrontListing}
// @Failure 400 {object} models.ApiResponse
// @Router /store/products/more [post]
func (ctl *Controller) LoadMoreProducts(c *gin.Context) {
	var vp engine.Viewport
	if err := c.ShouldBindJSON(&vp); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid viewport"))
		return
	}
	page, ok := ctl.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	err := page.Dispatch(c.Request.Context(), events.Event{
		Kind:           events.Scroll,
		ScrollY:        vp.ScrollY,
		Height:         vp.Height,
		DocumentHeight: vp.DocumentHeight,
	})
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WindowedResponse(c, "Products retrieved successfully", page.Listing(), page.Window()))
}

// SortProducts godoc
// @Summary Sort the current result set
// @Description Applies a secondary sort without changing which products are shown; best restores the unsorted order
// @Tags store
// @Accept json
// @Produce json
// @Param body body SortRequest true "Sort key"
// @Success 200 {object} models.ApiResponse{data=models.StorefrontListing}
// @Failure 400 {object} models.ApiResponse
// @Router /store/products/sort [post]
func (ctl *Controller) SortProducts(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Sort is required"))
		return
	}
	page, ok := ctl.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	listing, err := page.Sort(c.Request.Context(), models.SortKey(req.Sort))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WindowedResponse(c, "Products sorted successfully", listing, page.Window()))
}
