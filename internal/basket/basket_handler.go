package basket

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	basketerrors "hrportal/internal/basket/errors"
	"hrportal/internal/files"
	"hrportal/internal/shared/apperror"
	"hrportal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const maxAttachmentSize = 10 << 20

type Handler struct {
	service Service
	store   files.Store
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, store files.Store, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("basket.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("basket.handler")
	}
	return &Handler{service: service, store: store, rdb: rdb, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("basket request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func itemIndex(c *gin.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, basketerrors.ErrInvalidIndex
	}
	return index, nil
}

func (h *Handler) Get(c *gin.Context) {
	resp, err := h.service.GetOrCreate(c.Request.Context(), getActorID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http add basket item validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.AddItem(c.Request.Context(), getActorID(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) EditItem(c *gin.Context) {
	index, err := itemIndex(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req EditItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http edit basket item validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.EditItem(c.Request.Context(), getActorID(c), index, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	index, err := itemIndex(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.RemoveItem(c.Request.Context(), getActorID(c), index)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateJustification(c *gin.Context) {
	index, err := itemIndex(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req UpdateJustificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateItemJustification(c.Request.Context(), getActorID(c), index, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UploadAttachment(c *gin.Context) {
	index, err := itemIndex(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "file is required", nil)
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "file exceeds the 10MB limit", nil)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "could not read uploaded file", nil)
		return
	}
	defer src.Close()

	actorID := getActorID(c)
	attachment, err := h.store.Save(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), actorID, src)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.AddAttachmentToItem(c.Request.Context(), actorID, index, attachment)
	if err != nil {
		// The basket mutation failed, do not leave the file orphaned.
		h.store.Remove(attachment.Filename)
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Clear(c *gin.Context) {
	resp, err := h.service.Clear(c.Request.Context(), getActorID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Submit(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	resp, err := h.service.Submit(c.Request.Context(), getActorID(c), c.GetString("role"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}
