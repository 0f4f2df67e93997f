package controllers

import (
	"github.com/gin-gonic/gin"

	"thrift-market/models"
	"thrift-market/services"
)

type AuthController struct {
	authService *services.AuthService
	otpService  *services.OTPService
	password    *services.PasswordStrategy
	otpLogin    *services.OTPStrategy
}

func NewAuthController(authService *services.AuthService, otpService *services.OTPService, password *services.PasswordStrategy, otpLogin *services.OTPStrategy) *AuthController {
	return &AuthController{
		authService: authService,
		otpService:  otpService,
		password:    password,
		otpLogin:    otpLogin,
	}
}

// Register godoc
// @Summary Register new user
// @Description Register a new account with email, username and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request", Error: err.Error()})
		return
	}

	resp, err := ctrl.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(201, models.Response{Success: true, Message: "Registration successful", Data: resp})
}

// Login godoc
// @Summary Login with password
// @Description Login with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request"})
		return
	}

	resp, err := ctrl.authService.Login(c.Request.Context(), ctrl.password, services.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Login successful", Data: resp})
}

// SendOTP godoc
// @Summary Request a login OTP
// @Description Email a one-time code to a registered address
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.SendOTPRequest true "OTP Request"
// @Success 200 {object} models.Response
// @Failure 429 {object} models.ErrorResponse
// @Router /auth/otp/send [post]
func (ctrl *AuthController) SendOTP(c *gin.Context) {
	var req models.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request"})
		return
	}

	if err := ctrl.otpService.Send(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "OTP sent to your email"})
}

// OTPLogin godoc
// @Summary Login with OTP
// @Description Passwordless login by presenting an emailed one-time code
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.OTPLoginRequest true "OTP Login Request"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/otp/login [post]
func (ctrl *AuthController) OTPLogin(c *gin.Context) {
	var req models.OTPLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request"})
		return
	}

	resp, err := ctrl.authService.Login(c.Request.Context(), ctrl.otpLogin, services.Credentials{
		Email: req.Email,
		OTP:   req.OTP,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Login successful", Data: resp})
}

// ResetPassword godoc
// @Summary Reset password with OTP
// @Description Set a new password after verifying an emailed one-time code
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "Reset Request"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/reset-password [post]
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request"})
		return
	}

	if err := ctrl.authService.ResetPassword(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Password reset successfully"})
}

// ChangePassword godoc
// @Summary Change password
// @Description Change the current user's password
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ChangePasswordRequest true "Password Request"
// @Success 200 {object} models.Response
// @Router /auth/change-password [post]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request"})
		return
	}

	if err := ctrl.authService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Password changed"})
}
