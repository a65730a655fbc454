package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/models"
	"teamdesk/internal/services"
)

// maxPayloadBytes caps inline task payload uploads at 16 MiB.
const maxPayloadBytes = 16 << 20

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// @Summary      Create a task
// @Description  Optionally assigns users right away; near deadlines trigger due notifications
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectURL  path      string                    true  "Project share URL"
// @Param        task        body      models.CreateTaskRequest  true  "Task data"
// @Success      201         {object}  handlers.Envelope
// @Failure      400         {object}  handlers.Envelope
// @Router       /projects/{projectURL}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	task, err := h.taskService.CreateTask(c.Request.Context(), currentUserID(c), c.Param("projectURL"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, task)
}

// @Summary      Project tasks
// @Description  Tasks with assignees and comment counts
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        projectURL  path      string  true  "Project share URL"
// @Success      200         {object}  handlers.Envelope
// @Router       /projects/{projectURL}/tasks [get]
func (h *TaskHandler) ListByProject(c *gin.Context) {
	tasks, err := h.taskService.ListByProject(c.Request.Context(), currentUserID(c), c.Param("projectURL"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, tasks)
}

// @Summary      Task detail
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        taskID  path      int  true  "Task id"
// @Success      200     {object}  handlers.Envelope
// @Failure      404     {object}  handlers.Envelope
// @Router       /tasks/{taskID} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	taskID, err := paramInt64(c, "taskID")
	if err != nil {
		respondError(c, err)
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), currentUserID(c), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, task)
}

// @Summary      Patch a task
// @Description  Status, priority and due date at member level; title and description need admin
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskID  path      int               true  "Task id"
// @Param        patch   body      models.TaskPatch  true  "Fields to change"
// @Success      200     {object}  handlers.Envelope
// @Failure      403     {object}  handlers.Envelope
// @Router       /tasks/{taskID} [patch]
func (h *TaskHandler) Patch(c *gin.Context) {
	taskID, err := paramInt64(c, "taskID")
	if err != nil {
		respondError(c, err)
		return
	}
	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}
	task, err := h.taskService.PatchTask(c.Request.Context(), currentUserID(c), taskID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, task)
}

// @Summary      Delete a task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        taskID  path      int  true  "Task id"
// @Success      200     {object}  handlers.Envelope
// @Failure      404     {object}  handlers.Envelope
// @Router       /tasks/{taskID} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, err := paramInt64(c, "taskID")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.taskService.DeleteTask(c.Request.Context(), currentUserID(c), taskID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "task deleted")
}

// @Summary      Upload the task payload
// @Description  Stores an inline binary blob on the task
// @Tags         Tasks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        taskID  path      int   true  "Task id"
// @Param        file    formData  file  true  "Payload"
// @Success      200     {object}  handlers.Envelope
// @Router       /tasks/{taskID}/payload [post]
func (h *TaskHandler) UploadPayload(c *gin.Context) {
	taskID, err := paramInt64(c, "taskID")
	if err != nil {
		respondError(c, err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperrors.Validation("file field is required"))
		return
	}
	if fh.Size > maxPayloadBytes {
		respondError(c, apperrors.Validation("file too large"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxPayloadBytes))
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}
	if err := h.taskService.SetPayload(c.Request.Context(), currentUserID(c), taskID, data); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "payload stored")
}

// @Summary      Download the task payload
// @Tags         Tasks
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        taskID  path  int  true  "Task id"
// @Success      200
// @Failure      404  {object}  handlers.Envelope
// @Router       /tasks/{taskID}/payload [get]
func (h *TaskHandler) DownloadPayload(c *gin.Context) {
	taskID, err := paramInt64(c, "taskID")
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := h.taskService.GetPayload(c.Request.Context(), currentUserID(c), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// @Summary      Assign a user
// @Description  The assignee must be a team member; duplicates are rejected
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskID  path      int                   true  "Task id"
// @Param        user    body      models.AssignRequest  true  "User id"
// @Success      201     {object}  handlers.Envelope
// @Failure      409     {object}  handlers.Envelope
// @Router       /tasks/{taskID}/assignees [post]
func (h *TaskHandler) Assign(c *gin.Context) {
	taskID, err := paramInt64(c, "taskID")
	if err != nil {
		respondError(c, err)
		return
	}
	var req models.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.taskService.Assign(c.Request.Context(), currentUserID(c), taskID, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "user assigned")
}

// @Summary      Unassign a user
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        taskID  path      int  true  "Task id"
// @Param        userID  path      int  true  "User id"
// @Success      200     {object}  handlers.Envelope
// @Failure      404     {object}  handlers.Envelope
// @Router       /tasks/{taskID}/assignees/{userID} [delete]
func (h *TaskHandler) Unassign(c *gin.Context) {
	taskID, err := paramInt64(c, "taskID")
	if err != nil {
		respondError(c, err)
		return
	}
	targetID, err := paramInt64(c, "userID")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.taskService.Unassign(c.Request.Context(), currentUserID(c), taskID, targetID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "user unassigned")
}
