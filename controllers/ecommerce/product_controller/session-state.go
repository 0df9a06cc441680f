package product_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kitcomfeedback-cell/kitchen-store/engine"
	"github.com/kitcomfeedback-cell/kitchen-store/events"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
)

type NavigateRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	ScrollY   float64 `json:"scroll_y"`
}

type NavigateResponse struct {
	URL string `json:"url" example:"/product/42"`
}

// SaveScroll godoc
// @Summary Persist the scroll position
// @Tags session
// @Accept json
// @Produce json
// @Param viewport body engine.Viewport true "Scroll geometry"
// @Success 200 {object} models.ApiResponse
// @Failure 400 {object} models.ApiResponse
// @Router /store/session/scroll [post]
func (ctl *Controller) SaveScroll(c *gin.Context) {
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
	c.JSON(http.StatusOK, models.WindowedResponse(c, "Scroll position saved", nil, page.Window()))
}

// NavigateToProduct godoc
// @Summary Snapshot the list before opening a product
// @Description Saves the view, scroll offset and revealed count so returning to the list restores them
// @Tags session
// @Accept json
// @Produce json
// @Param body body NavigateRequest true "Target product"
// @Success 200 {object} models.ApiResponse{data=NavigateResponse}
// @Failure 400 {object} models.ApiResponse
// @Router /store/session/navigate [post]
func (ctl *Controller) NavigateToProduct(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "product_id is required"))
		return
	}
	page, ok := ctl.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	err := page.Dispatch(c.Request.Context(), events.Event{
		Kind:      events.Navigate,
		ProductID: req.ProductID,
		ScrollY:   req.ScrollY,
	})
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Session saved", NavigateResponse{URL: "/product/" + req.ProductID}))
}

// DispatchEvent godoc
// @Summary Deliver a page lifecycle event
// @Description Accepts popstate (with url), pagehide, beforeunload and storage events from the client
// @Tags session
// @Accept json
// @Produce json
// @Param event body events.Event true "Event"
// @Success 200 {object} models.ApiResponse{data=models.StorefrontListing}
// @Failure 400 {object} models.ApiResponse
// @Router /store/session/events [post]
func (ctl *Controller) DispatchEvent(c *gin.Context) {
	var ev events.Event
	if err := c.ShouldBindJSON(&ev); err != nil || !ev.Kind.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid event"))
		return
	}
	page, ok := ctl.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	if err := page.Dispatch(c.Request.Context(), ev); err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WindowedResponse(c, "Event handled", page.Listing(), page.Window()))
}

// RestoreSession godoc
// @Summary Restore the tab's last view
// @Description Rebuilds the last view of the tab; selector parameters in the query take precedence. The response includes the scroll offset to restore.
// @Tags session
// @Produce json
// @Param search query string false "Free-text search"
// @Param subcategory query string false "Subcategory name"
// @Param price query string false "Price range label"
// @Param sort query string false "Secondary sort"
// @Success 200 {object} models.ApiResponse{data=models.StorefrontListing}
// @Router /store/session/restore [get]
func (ctl *Controller) RestoreSession(c *gin.Context) {
	page, ok := ctl.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	listing := page.Restore(c.Request.Context(), c.Request.URL.Query())
	c.JSON(http.StatusOK, models.WindowedResponse(c, "Session restored", listing, page.Window()))
}

// ResetSession godoc
// @Summary Return to the unfiltered list
// @Description Clears the selector, sort and search scroll state; the session shuffle is kept
// @Tags session
// @Produce json
// @Success 200 {object} models.ApiResponse{data=models.StorefrontListing}
// @Router /store/session [delete]
func (ctl *Controller) ResetSession(c *gin.Context) {
	page, ok := ctl.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	listing, err := page.Reset(c.Request.Context())
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WindowedResponse(c, "Session reset", listing, page.Window()))
}
