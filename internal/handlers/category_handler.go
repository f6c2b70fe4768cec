package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hearth/internal/category"
)

// CategoryHandler serves the fixed category registry.
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// GetCategories lists every known category.
// @Summary     Get categories
// @Description Get the full category registry with display attributes
// @Tags        categories
// @Produce     json
// @Success     200 {array} category.Category "Categories"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": category.All()})
}
