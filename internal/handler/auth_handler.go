package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-seat-api/internal/models"
	"github.com/noah-isme/library-seat-api/pkg/response"
)

type adminAuthenticator interface {
	Login(req models.AdminLoginRequest) (*models.AdminLoginResponse, error)
}

// AuthHandler wires the admin login endpoint.
type AuthHandler struct {
	service adminAuthenticator
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc adminAuthenticator) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Admin login
// @Description Exchange the admin credentials for a bearer token
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.AdminLoginRequest true "Login payload"
// @Success 200 {object} models.AdminLoginResponse
// @Failure 400 {object} dto.MutationResult
// @Failure 401 {object} dto.MutationResult
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.Login(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}
