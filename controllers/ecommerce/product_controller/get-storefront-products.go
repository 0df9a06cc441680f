package product_controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/kitcomfeedback-cell/kitchen-store/storefront"
)

// GetStorefrontProducts godoc
// @Summary Get storefront products
// @Description Activates the selector in the query (at most one of search, subcategory, price) and returns the revealed window. Without a selector the shuffled home list is returned. Send Accept: text/event-stream on a search to receive a skeleton frame before the result.
// @Tags store
// @Produce json
// @Param search query string false "Free-text search"
// @Param subcategory query string false "Subcategory name (case-insensitive)"
// @Param price query string false "Price range label"
// @Param sort query string false "Secondary sort" Enums(best, high-low, low-high, latest, new) default(best)
// @Param X-Tab-ID header string false "Browsing tab id"
// @Success 200 {object} models.ApiResponse{data=models.StorefrontListing}
// @Failure 400 {object} models.ApiResponse
// @Failure 500 {object} models.ApiResponse
// @Router /store/products [get]
func (ctl *Controller) GetStorefrontProducts(c *gin.Context) {
	sort, ok := models.ParseSortKey(c.Query(models.QuerySort))
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Unknown sort option"))
		return
	}
	view, _ := models.ViewStateFromQuery(c.Request.URL.Query())

	page, ok := ctl.openPage(c)
	if !ok {
		return
	}
	defer page.Close()
	ctx := c.Request.Context()

	if view.Mode == models.ModeSearch && wantsStream(c) {
		ctl.streamSearch(c, page, view.Value, sort)
		return
	}

	listing, err := page.Select(ctx, view)
	if err == nil && sort != models.SortBest {
		listing, err = page.Sort(ctx, sort)
	}
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WindowedResponse(c, "Products retrieved successfully", listing, page.Window()))
}

func wantsStream(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

// streamSearch sends the skeleton frame and then the result as server-sent
// events named "listing".
func (ctl *Controller) streamSearch(c *gin.Context, page *storefront.Page, term string, sort models.SortKey) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	emit := func(l models.StorefrontListing) {
		c.SSEvent("listing", l)
		c.Writer.Flush()
	}
	render := emit
	if sort != models.SortBest {
		// the sorted frame replaces the unsorted result
		render = func(l models.StorefrontListing) {
			if l.Skeleton {
				emit(l)
			}
		}
	}

	if _, err := page.Search(ctx, term, render); err != nil {
		c.SSEvent("error", models.ErrorResponse(c, err.Error()))
		return
	}
	if sort != models.SortBest {
		listing, err := page.Sort(ctx, sort)
		if err != nil {
			c.SSEvent("error", models.ErrorResponse(c, err.Error()))
			return
		}
		emit(listing)
	}
}
