package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/services"
)

// maxFileBytes caps task file uploads at 32 MiB.
const maxFileBytes = 32 << 20

type FileHandler struct {
	fileService services.FileService
}

func NewFileHandler(fileService services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// @Summary      Upload a file to a task
// @Tags         Files
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        taskID  path      int   true  "Task id"
// @Param        file    formData  file  true  "File"
// @Success      201     {object}  handlers.Envelope
// @Router       /tasks/{taskID}/files [post]
func (h *FileHandler) Upload(c *gin.Context) {
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
	if fh.Size > maxFileBytes {
		respondError(c, apperrors.Validation("file too large"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxFileBytes))
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	file, err := h.fileService.Upload(c.Request.Context(), currentUserID(c), taskID, fh.Filename, mimeType, data)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, file)
}

// @Summary      Task files
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Param        taskID  path      int  true  "Task id"
// @Success      200     {object}  handlers.Envelope
// @Router       /tasks/{taskID}/files [get]
func (h *FileHandler) ListByTask(c *gin.Context) {
	taskID, err := paramInt64(c, "taskID")
	if err != nil {
		respondError(c, err)
		return
	}
	files, err := h.fileService.ListByTask(c.Request.Context(), currentUserID(c), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, files)
}

// @Summary      Download a file
// @Tags         Files
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        fileID  path  int  true  "File id"
// @Success      200
// @Failure      404  {object}  handlers.Envelope
// @Router       /files/{fileID} [get]
func (h *FileHandler) Download(c *gin.Context) {
	fileID, err := paramInt64(c, "fileID")
	if err != nil {
		respondError(c, err)
		return
	}
	content, err := h.fileService.Download(c.Request.Context(), currentUserID(c), fileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+content.Name+`"`)
	c.Data(http.StatusOK, content.MimeType, content.Data)
}

// @Summary      Delete a file
// @Description  Allowed for the uploader or a team admin
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Param        fileID  path      int  true  "File id"
// @Success      200     {object}  handlers.Envelope
// @Failure      403     {object}  handlers.Envelope
// @Router       /files/{fileID} [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	fileID, err := paramInt64(c, "fileID")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.fileService.Delete(c.Request.Context(), currentUserID(c), fileID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "file deleted")
}
