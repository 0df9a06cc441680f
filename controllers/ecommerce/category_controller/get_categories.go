package category_controller

import (
	"errors"
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

// GetCategories godoc
// @Summary Get storefront categories
// @Description Get the category tree with product counts for storefront
// @Tags store
// @Produce json
// @Success 200 {object} models.ApiResponse{data=[]models.StorefrontCategory}
// @Failure 500 {object} models.ApiResponse
// @Router /store/categories [get]
func (ctl *Controller) GetCategories(c *gin.Context) {
	tree, err := ctl.svc.Categories(c.Request.Context())
	if err != nil {
		ctl.log.Error("failed to fetch categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Failed to fetch categories"))
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Categories retrieved successfully", tree))
}

// GetCategoryByName godoc
// @Summary Get category details
// @Description Get a category or subcategory by name (case-insensitive) with product counts
// @Tags store
// @Produce json
// @Param name path string true "Category or subcategory name"
// @Success 200 {object} models.ApiResponse{data=models.StorefrontCategory}
// @Failure 404 {object} models.ApiResponse
// @Failure 500 {object} models.ApiResponse
// @Router /store/categories/{name} [get]
func (ctl *Controller) GetCategoryByName(c *gin.Context) {
	cat, err := ctl.svc.Category(c.Request.Context(), c.Param("name"))
	if errors.Is(err, storefront.ErrCategoryNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse(c, "Category not found"))
		return
	}
	if err != nil {
		ctl.log.Error("failed to fetch category", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Failed to fetch category"))
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Category retrieved successfully", cat))
}
