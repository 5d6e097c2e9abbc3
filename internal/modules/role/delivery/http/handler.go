package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ayorahman/reimburse-bbm-api/internal/modules/role/dto"
	roleService "github.com/ayorahman/reimburse-bbm-api/internal/modules/role/service"
	"github.com/ayorahman/reimburse-bbm-api/pkg/apperror"
	"github.com/ayorahman/reimburse-bbm-api/pkg/response"
	"github.com/ayorahman/reimburse-bbm-api/pkg/validator"
)

type RoleHandler struct {
	service roleService.RoleService
}

func NewRoleHandler(service roleService.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Data role berhasil diambil.", roles)
}

func (h *RoleHandler) Create(c *gin.Context) {
	var input dto.SaveRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.Validation(validator.FormatValidationError(err)))
		return
	}

	role, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Role berhasil dibuat.", role)
}

func (h *RoleHandler) Update(c *gin.Context) {
	id, err := parseRoleID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.SaveRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.Validation(validator.FormatValidationError(err)))
		return
	}

	role, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Role berhasil diupdate.", role)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := parseRoleID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Role berhasil dihapus.", nil)
}

func parseRoleID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperror.Validation("ID role tidak valid.")
	}
	return uint(id), nil
}
