package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/middleware"
)

type AuthHandler struct {
	useCase domain.AuthUseCase
	log     *logrus.Logger
}

func NewAuthHandler(uc domain.AuthUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter, authRequired gin.HandlerFunc) {
	admin := router.Group("/admin")
	{
		admin.POST("/login", h.Login)
		admin.POST("/logout", authRequired, h.Logout)
		admin.GET("/me", authRequired, h.Me)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  *domain.AdminUser `json:"user"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var requestBody loginRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for login: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, token, err := h.useCase.Login(c.Request.Context(), requestBody.Username, requestBody.Password)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Invalid credentials")
		return
	}

	SuccessResponse(c, http.StatusOK, "Login successful", loginResponse{
		Token: token,
		User:  user,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.TokenFromContext(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authorization required")
		return
	}

	if err := h.useCase.Logout(c.Request.Context(), token); err != nil {
		h.log.Errorf("Failed to end session: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), clientMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.AdminFromContext(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authorization required")
		return
	}

	SuccessResponse(c, http.StatusOK, "Current admin retrieved", user)
}
