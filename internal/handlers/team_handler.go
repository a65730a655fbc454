package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdesk/internal/models"
	"teamdesk/internal/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// @Summary      Create a team
// @Description  The creator becomes the team owner
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        team  body      models.CreateTeamRequest  true  "Team data"
// @Success      201   {object}  handlers.Envelope
// @Failure      409   {object}  handlers.Envelope
// @Router       /teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	var req models.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	team, err := h.teamService.CreateTeam(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, team)
}

// @Summary      My teams
// @Tags         Teams
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.Envelope
// @Router       /teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teamService.ListMyTeams(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, teams)
}

// @Summary      Team detail
// @Description  Non-members receive 404 with the owner's contact
// @Tags         Teams
// @Produce      json
// @Security     BearerAuth
// @Param        teamURL  path      string  true  "Team share URL"
// @Success      200      {object}  handlers.Envelope
// @Failure      404      {object}  handlers.Envelope
// @Router       /teams/{teamURL} [get]
func (h *TeamHandler) Get(c *gin.Context) {
	detail, owner, err := h.teamService.GetTeam(c.Request.Context(), currentUserID(c), c.Param("teamURL"))
	if err != nil {
		if owner != nil {
			c.JSON(http.StatusNotFound, Envelope{
				Success: false,
				Error:   "you are not a member of this team",
				Code:    "NOT_FOUND",
				Data:    gin.H{"owner": owner},
			})
			return
		}
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, detail)
}

// @Summary      Rename a team
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        teamURL  path      string                    true  "Team share URL"
// @Param        team     body      models.UpdateTeamRequest  true  "New name"
// @Success      200      {object}  handlers.Envelope
// @Failure      403      {object}  handlers.Envelope
// @Router       /teams/{teamURL} [put]
func (h *TeamHandler) Update(c *gin.Context) {
	var req models.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	team, err := h.teamService.UpdateTeam(c.Request.Context(), currentUserID(c), c.Param("teamURL"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, team)
}

// @Summary      Delete a team
// @Description  Removes the team and everything under it in one transaction
// @Tags         Teams
// @Produce      json
// @Security     BearerAuth
// @Param        teamURL  path      string  true  "Team share URL"
// @Success      200      {object}  handlers.Envelope
// @Failure      403      {object}  handlers.Envelope
// @Router       /teams/{teamURL} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.teamService.DeleteTeam(c.Request.Context(), currentUserID(c), c.Param("teamURL")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "team deleted")
}

// @Summary      Team members
// @Tags         Members
// @Produce      json
// @Security     BearerAuth
// @Param        teamURL  path      string  true  "Team share URL"
// @Success      200      {object}  handlers.Envelope
// @Router       /teams/{teamURL}/members [get]
func (h *TeamHandler) ListMembers(c *gin.Context) {
	members, err := h.teamService.ListMembers(c.Request.Context(), currentUserID(c), c.Param("teamURL"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, members)
}

// @Summary      Add a member
// @Description  Adds an existing user by email and notifies them
// @Tags         Members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        teamURL  path      string                   true  "Team share URL"
// @Param        member   body      models.AddMemberRequest  true  "User email and role"
// @Success      201      {object}  handlers.Envelope
// @Failure      409      {object}  handlers.Envelope
// @Router       /teams/{teamURL}/members [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	member, err := h.teamService.AddMember(c.Request.Context(), currentUserID(c), c.Param("teamURL"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, member)
}

// @Summary      Remove a member
// @Description  The owner can never be removed
// @Tags         Members
// @Produce      json
// @Security     BearerAuth
// @Param        teamURL  path      string  true  "Team share URL"
// @Param        userID   path      int     true  "User id"
// @Success      200      {object}  handlers.Envelope
// @Failure      403      {object}  handlers.Envelope
// @Router       /teams/{teamURL}/members/{userID} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	targetID, err := paramInt64(c, "userID")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.teamService.RemoveMember(c.Request.Context(), currentUserID(c), c.Param("teamURL"), targetID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "member removed")
}

// @Summary      Change a member's role
// @Description  Owner only; the owner role itself can never be granted or taken
// @Tags         Members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        teamURL  path      string                    true  "Team share URL"
// @Param        userID   path      int                       true  "User id"
// @Param        role     body      models.ChangeRoleRequest  true  "New role"
// @Success      200      {object}  handlers.Envelope
// @Failure      403      {object}  handlers.Envelope
// @Router       /teams/{teamURL}/members/{userID}/role [put]
func (h *TeamHandler) ChangeRole(c *gin.Context) {
	targetID, err := paramInt64(c, "userID")
	if err != nil {
		respondError(c, err)
		return
	}
	var req models.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.teamService.ChangeRole(c.Request.Context(), currentUserID(c), c.Param("teamURL"), targetID, req.Role); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "role updated")
}
