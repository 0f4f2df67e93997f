package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"thrift-market/config"
	"thrift-market/models"
	"thrift-market/repositories"
	"thrift-market/services"
	"thrift-market/utils"
)

type ProductController struct {
	productService *services.ProductService
	cfg            *config.Config
}

func NewProductController(productService *services.ProductService, cfg *config.Config) *ProductController {
	return &ProductController{productService: productService, cfg: cfg}
}

// GetCategories godoc
// @Summary List categories
// @Tags Products
// @Produce json
// @Success 200 {object} models.Response
// @Router /categories [get]
func (ctrl *ProductController) GetCategories(c *gin.Context) {
	categories, err := ctrl.productService.GetAllCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Categories retrieved successfully", Data: categories})
}

// GetProducts godoc
// @Summary List products
// @Description List available products with category and search filters
// @Tags Products
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param category query int false "Category ID"
// @Param search query string false "Search in title and description"
// @Success 200 {object} models.PaginationResponse
// @Router /products [get]
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	page, limit := getPaginationParams(c, 20)
	categoryID, _ := strconv.Atoi(c.Query("category"))

	filter := repositories.ProductFilter{
		CategoryID: categoryID,
		Search:     c.Query("search"),
	}

	resp, err := ctrl.productService.GetProducts(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, resp)
}

// GetProduct godoc
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	product, err := ctrl.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Product retrieved successfully", Data: product})
}

// CreateProduct godoc
// @Summary List a product for sale
// @Tags Products
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param price formData number true "Price"
// @Param category_id formData int true "Category ID"
// @Param condition formData string false "Condition"
// @Param image formData file false "Product image"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	sellerID := c.GetInt("user_id")

	var req models.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request", Error: err.Error()})
		return
	}

	imageURL := ""
	if file, err := c.FormFile("image"); err == nil {
		uploaded, err := utils.UploadImage(c, file, ctrl.cfg.UploadDir, "products", ctrl.cfg.MaxUploadSize)
		if err != nil {
			c.JSON(400, models.ErrorResponse{Success: false, Message: err.Error()})
			return
		}
		imageURL = uploaded
	}

	product, err := ctrl.productService.CreateProduct(c.Request.Context(), sellerID, req, imageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(201, models.Response{Success: true, Message: "Product created successfully", Data: product})
}

// UpdateProduct godoc
// @Summary Update own product
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body models.UpdateProductRequest true "Fields to update"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [put]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	sellerID := c.GetInt("user_id")
	productID, _ := strconv.Atoi(c.Param("id"))

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request"})
		return
	}

	product, err := ctrl.productService.UpdateProduct(c.Request.Context(), sellerID, productID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Product updated successfully", Data: product})
}

// DeleteProduct godoc
// @Summary Delete own product
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	sellerID := c.GetInt("user_id")
	productID, _ := strconv.Atoi(c.Param("id"))

	if err := ctrl.productService.DeleteProduct(c.Request.Context(), sellerID, productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Product deleted successfully"})
}
