package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lifelevels/journal-backend/internal/auth"
	"github.com/lifelevels/journal-backend/internal/content/domain"
	"github.com/lifelevels/journal-backend/internal/logging"
	"github.com/lifelevels/journal-backend/internal/validation"
)

// CreateContent accepts JSON for diary entries and multipart/form-data for uploads.
func (h *Handler) CreateContent(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if h.maxBody > 0 {
		if c.Request.ContentLength > h.maxBody {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	}

	var req domain.CreateContentRequest
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		req.Title = c.PostForm("title")
		req.Type = c.PostForm("type")
		req.Body = c.PostForm("body")
		req.Description = c.PostForm("description")

		fh, err := c.FormFile("file")
		switch {
		case errors.Is(err, http.ErrMissingFile):
			// the service rejects uploads without a file
		case tooLarge(err):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
			return
		default:
			f, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
				return
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" || ct == "application/octet-stream" {
				ct = sniff(f)
			}
			req.File = &domain.Upload{Filename: fh.Filename, ContentType: ct, Size: fh.Size, Body: f}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		if tooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.writeError(c, err, "failed to create content")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"content": item})
}

func (h *Handler) ListContents(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	items, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err, "failed to list content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"contents": items, "count": len(items)})
}

func (h *Handler) GetContent(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
		return
	}

	item, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.writeError(c, err, "failed to get content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": item})
}

func (h *Handler) DeleteContent(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		h.writeError(c, err, "failed to delete content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "content deleted successfully"})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, domain.ErrContentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
	case errors.Is(err, domain.ErrBodyRequired),
		errors.Is(err, domain.ErrFileRequired),
		errors.Is(err, domain.ErrUnsupportedMediaType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// sniff detects the media type from the first bytes and rewinds f.
func sniff(f io.ReadSeeker) string {
	buf := make([]byte, 512)
	n, _ := io.ReadFull(f, buf)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "application/octet-stream"
	}
	return http.DetectContentType(buf[:n])
}
