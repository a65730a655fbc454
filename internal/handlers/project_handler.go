package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdesk/internal/models"
	"teamdesk/internal/services"
)

type ProjectHandler struct {
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// @Summary      Create a project
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        teamURL  path      string                       true  "Team share URL"
// @Param        project  body      models.CreateProjectRequest  true  "Project data"
// @Success      201      {object}  handlers.Envelope
// @Failure      403      {object}  handlers.Envelope
// @Router       /teams/{teamURL}/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	project, err := h.projectService.CreateProject(c.Request.Context(), currentUserID(c), c.Param("teamURL"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, project)
}

// @Summary      Team projects
// @Description  Projects of a team with task counts
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Param        teamURL  path      string  true  "Team share URL"
// @Success      200      {object}  handlers.Envelope
// @Router       /teams/{teamURL}/projects [get]
func (h *ProjectHandler) ListByTeam(c *gin.Context) {
	projects, err := h.projectService.ListByTeam(c.Request.Context(), currentUserID(c), c.Param("teamURL"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, projects)
}

// @Summary      Project detail
// @Description  Non-members receive 404 with the team owner's contact
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectURL  path      string  true  "Project share URL"
// @Success      200         {object}  handlers.Envelope
// @Failure      404         {object}  handlers.Envelope
// @Router       /projects/{projectURL} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	detail, owner, err := h.projectService.GetProject(c.Request.Context(), currentUserID(c), c.Param("projectURL"))
	if err != nil {
		if owner != nil {
			c.JSON(http.StatusNotFound, Envelope{
				Success: false,
				Error:   "you are not a member of this project's team",
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

// @Summary      Update a project
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectURL  path      string                       true  "Project share URL"
// @Param        project     body      models.UpdateProjectRequest  true  "New data"
// @Success      200         {object}  handlers.Envelope
// @Failure      403         {object}  handlers.Envelope
// @Router       /projects/{projectURL} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	project, err := h.projectService.UpdateProject(c.Request.Context(), currentUserID(c), c.Param("projectURL"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, project)
}

// @Summary      Delete a project
// @Description  Removes the project and everything under it in one transaction
// @Tags         Projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectURL  path      string  true  "Project share URL"
// @Success      200         {object}  handlers.Envelope
// @Failure      403         {object}  handlers.Envelope
// @Router       /projects/{projectURL} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectService.DeleteProject(c.Request.Context(), currentUserID(c), c.Param("projectURL")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "project deleted")
}

// @Summary      Project participants
// @Tags         Participants
// @Produce      json
// @Security     BearerAuth
// @Param        projectURL  path      string  true  "Project share URL"
// @Success      200         {object}  handlers.Envelope
// @Router       /projects/{projectURL}/participants [get]
func (h *ProjectHandler) ListParticipants(c *gin.Context) {
	participants, err := h.projectService.ListParticipants(c.Request.Context(), currentUserID(c), c.Param("projectURL"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, participants)
}

// @Summary      Add a participant
// @Description  The user must already be a team member
// @Tags         Participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectURL   path      string                        true  "Project share URL"
// @Param        participant  body      models.AddParticipantRequest  true  "User id"
// @Success      201          {object}  handlers.Envelope
// @Failure      409          {object}  handlers.Envelope
// @Router       /projects/{projectURL}/participants [post]
func (h *ProjectHandler) AddParticipant(c *gin.Context) {
	var req models.AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.projectService.AddParticipant(c.Request.Context(), currentUserID(c), c.Param("projectURL"), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "participant added")
}

// @Summary      Remove a participant
// @Tags         Participants
// @Produce      json
// @Security     BearerAuth
// @Param        projectURL  path      string  true  "Project share URL"
// @Param        userID      path      int     true  "User id"
// @Success      200         {object}  handlers.Envelope
// @Router       /projects/{projectURL}/participants/{userID} [delete]
func (h *ProjectHandler) RemoveParticipant(c *gin.Context) {
	targetID, err := paramInt64(c, "userID")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.projectService.RemoveParticipant(c.Request.Context(), currentUserID(c), c.Param("projectURL"), targetID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "participant removed")
}
