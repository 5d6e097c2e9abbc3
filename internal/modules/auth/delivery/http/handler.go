package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayorahman/reimburse-bbm-api/internal/middleware"
	"github.com/ayorahman/reimburse-bbm-api/internal/modules/auth/dto"
	authService "github.com/ayorahman/reimburse-bbm-api/internal/modules/auth/service"
	"github.com/ayorahman/reimburse-bbm-api/pkg/apperror"
	"github.com/ayorahman/reimburse-bbm-api/pkg/response"
	"github.com/ayorahman/reimburse-bbm-api/pkg/validator"
)

type AuthHandler struct {
	service authService.AuthService
}

func NewAuthHandler(service authService.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.Validation("Email dan password harus diisi."))
		return
	}

	res, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Login berhasil.", res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.AccessToken(c)
	if token == "" {
		response.Error(c, apperror.Unauthorized("Token tidak ditemukan. Silakan login terlebih dahulu."))
		return
	}

	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Logout berhasil.", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.Validation(validator.FormatValidationError(err)))
		return
	}

	res, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Registrasi berhasil.", res)
}
