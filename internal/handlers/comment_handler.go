package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdesk/internal/models"
	"teamdesk/internal/services"
)

type CommentHandler struct {
	commentService services.CommentService
}

func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// @Summary      Task comments
// @Tags         Comments
// @Produce      json
// @Security     BearerAuth
// @Param        taskID  path      int  true  "Task id"
// @Success      200     {object}  handlers.Envelope
// @Router       /tasks/{taskID}/comments [get]
func (h *CommentHandler) ListByTask(c *gin.Context) {
	taskID, err := paramInt64(c, "taskID")
	if err != nil {
		respondError(c, err)
		return
	}
	comments, err := h.commentService.ListByTask(c.Request.Context(), currentUserID(c), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, comments)
}

// @Summary      Add a comment
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskID   path      int                          true  "Task id"
// @Param        comment  body      models.CreateCommentRequest  true  "Comment text"
// @Success      201      {object}  handlers.Envelope
// @Router       /tasks/{taskID}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	taskID, err := paramInt64(c, "taskID")
	if err != nil {
		respondError(c, err)
		return
	}
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	comment, err := h.commentService.CreateComment(c.Request.Context(), currentUserID(c), taskID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, comment)
}

// @Summary      Delete a comment
// @Description  Allowed for the author, the task creator, or a team admin
// @Tags         Comments
// @Produce      json
// @Security     BearerAuth
// @Param        commentID  path      int  true  "Comment id"
// @Success      200        {object}  handlers.Envelope
// @Failure      403        {object}  handlers.Envelope
// @Router       /comments/{commentID} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := paramInt64(c, "commentID")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.commentService.DeleteComment(c.Request.Context(), currentUserID(c), commentID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "comment deleted")
}

// @Summary      Like a comment
// @Tags         Comments
// @Produce      json
// @Security     BearerAuth
// @Param        commentID  path      int  true  "Comment id"
// @Success      200        {object}  handlers.Envelope
// @Router       /comments/{commentID}/like [post]
func (h *CommentHandler) Like(c *gin.Context) {
	commentID, err := paramInt64(c, "commentID")
	if err != nil {
		respondError(c, err)
		return
	}
	likes, err := h.commentService.LikeComment(c.Request.Context(), currentUserID(c), commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"likes": likes})
}
