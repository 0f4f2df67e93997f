package controllers

import (
	"github.com/gin-gonic/gin"

	"thrift-market/config"
	"thrift-market/models"
	"thrift-market/services"
	"thrift-market/utils"
)

type UserController struct {
	userService    *services.UserService
	productService *services.ProductService
	cfg            *config.Config
}

func NewUserController(userService *services.UserService, productService *services.ProductService, cfg *config.Config) *UserController {
	return &UserController{userService: userService, productService: productService, cfg: cfg}
}

// GetProfile godoc
// @Summary Get own profile
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /users/profile [get]
func (ctrl *UserController) GetProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	user, err := ctrl.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Profile retrieved successfully", Data: user})
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /users/profile [put]
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request"})
		return
	}

	user, err := ctrl.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Profile updated successfully", Data: user})
}

// UpdateProfileImage godoc
// @Summary Upload profile image
// @Tags Users
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} models.Response
// @Router /users/profile/image [post]
func (ctrl *UserController) UpdateProfileImage(c *gin.Context) {
	userID := c.GetInt("user_id")

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Image required"})
		return
	}

	imagePath, err := utils.UploadImage(c, file, ctrl.cfg.UploadDir, "profiles", ctrl.cfg.MaxUploadSize)
	if err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: err.Error()})
		return
	}

	oldImage, err := ctrl.userService.UpdateProfileImage(c.Request.Context(), userID, imagePath)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.DeleteUpload(ctrl.cfg.UploadDir, oldImage)

	c.JSON(200, models.Response{Success: true, Message: "Profile image updated", Data: gin.H{"profile_image": imagePath}})
}

// GetMyProducts godoc
// @Summary List own product listings
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} models.PaginationResponse
// @Router /users/my-products [get]
func (ctrl *UserController) GetMyProducts(c *gin.Context) {
	userID := c.GetInt("user_id")
	page, limit := getPaginationParams(c, 20)

	resp, err := ctrl.productService.GetMyProducts(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, resp)
}
