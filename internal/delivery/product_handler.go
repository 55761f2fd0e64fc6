package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

type ProductHandler struct {
	useCase domain.CatalogUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc domain.CatalogUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter, authRequired gin.HandlerFunc) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:slug", h.GetProductBySlug)
		products.POST("", authRequired, h.CreateProduct)
		products.DELETE("/:id", authRequired, h.DeleteProduct)
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter, err := parseProductFilter(c)
	if err != nil {
		h.log.Warnf("Invalid product filter: %v", err)
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.useCase.ListProducts(filter)
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), clientMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	product, err := h.useCase.GetBySlug(slug)
	if err != nil {
		h.log.Debugf("Failed to get product '%s': %v", slug, err)
		ErrorResponse(c, mapErrorToStatus(err), clientMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Warnf("Failed to bind JSON for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.useCase.CreateProduct(input)
	if err != nil {
		h.log.Warnf("Failed to create product '%s': %v", input.Slug, err)
		ErrorResponse(c, mapErrorToStatus(err), clientMessage(err))
		return
	}

	h.log.Infof("Product %d created via API (slug: %s)", product.ID, product.Slug)
	SuccessResponse(c, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid product ID parameter: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.useCase.DeleteProduct(id); err != nil {
		h.log.Warnf("Failed to delete product %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), clientMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}

// parseProductFilter validates the optional query filters once at the
// boundary. Anything other than literal "true"/"false" for the boolean
// filters is rejected instead of being coerced.
func parseProductFilter(c *gin.Context) (domain.ProductFilter, error) {
	var filter domain.ProductFilter

	if category, ok := c.GetQuery("category"); ok {
		if category == "" {
			return filter, domain.NewValidationError("category", "cannot be empty")
		}
		filter.Category = &category
	}

	featured, err := parseBoolQuery(c, "featured")
	if err != nil {
		return filter, err
	}
	filter.Featured = featured

	bestseller, err := parseBoolQuery(c, "bestseller")
	if err != nil {
		return filter, err
	}
	filter.Bestseller = bestseller

	return filter, nil
}

func parseBoolQuery(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	switch raw {
	case "true":
		value := true
		return &value, nil
	case "false":
		value := false
		return &value, nil
	default:
		return nil, domain.NewValidationError(name, "must be 'true' or 'false'")
	}
}
