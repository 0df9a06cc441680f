package product_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kitcomfeedback-cell/kitchen-store/middleware"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
)

// GetStorefrontProductByID godoc
// @Summary Get single product details for storefront
// @Description Get a product by catalog id with up to 50 related products
// @Tags store
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.ApiResponse{data=models.ProductDetail}
// @Failure 404 {object} models.ApiResponse
// @Failure 500 {object} models.ApiResponse
// @Router /store/products/{id} [get]
func (ctl *Controller) GetStorefrontProductByID(c *gin.Context) {
	detail, err := ctl.svc.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Product retrieved successfully", detail))
}

// GetSuggestions godoc
// @Summary Autocomplete product titles
// @Description Titles starting with q first, then titles containing it, each group in the tab's shuffled order; at most 10, one per title
// @Tags store
// @Produce json
// @Param q query string true "Partial search term"
// @Success 200 {object} models.ApiResponse{data=[]models.Suggestion}
// @Failure 500 {object} models.ApiResponse
// @Router /store/products/suggestions [get]
func (ctl *Controller) GetSuggestions(c *gin.Context) {
	suggestions, err := ctl.svc.Suggest(c.Request.Context(), c.GetString(middleware.TabKey), c.Query("q"))
	if err != nil {
		ctl.respondError(c, err)
		return
	}
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Suggestions retrieved successfully", suggestions))
}
