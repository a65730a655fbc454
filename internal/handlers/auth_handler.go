package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdesk/internal/models"
	"teamdesk/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// @Summary      Register a new account
// @Description  Creates a user and returns an access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      201       {object}  handlers.Envelope
// @Failure      400       {object}  handlers.Envelope
// @Failure      409       {object}  handlers.Envelope
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, token, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{
		"user":  user,
		"token": token,
	})
}

// @Summary      Log in
// @Description  Authenticates by email and password, returns an access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  handlers.Envelope
// @Failure      400    {object}  handlers.Envelope
// @Failure      401    {object}  handlers.Envelope
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, token, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}
