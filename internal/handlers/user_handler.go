package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdesk/internal/models"
	"teamdesk/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// @Summary      Current profile
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.Envelope
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// @Summary      Update profile
// @Description  Applies a partial profile update and records a profile_update notification
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        patch  body      models.ProfilePatch  true  "Fields to change"
// @Success      200    {object}  handlers.Envelope
// @Failure      400    {object}  handlers.Envelope
// @Router       /users/me [put]
func (h *UserHandler) Update(c *gin.Context) {
	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), currentUserID(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// @Summary      Link a Telegram chat
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.Envelope
// @Router       /users/me/telegram [put]
func (h *UserHandler) LinkTelegram(c *gin.Context) {
	var req struct {
		ChatID int64 `json:"chat_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.userService.LinkTelegram(c.Request.Context(), currentUserID(c), req.ChatID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "telegram chat linked")
}
