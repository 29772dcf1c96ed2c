package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/weiawesome/wes-io-live/banuid/internal/service"
	"github.com/weiawesome/wes-io-live/banuid/pkg/log"
	"github.com/weiawesome/wes-io-live/banuid/pkg/response"
)

// Handler handles HTTP requests for the id service.
type Handler struct {
	svc *service.IDService
}

// NewHandler creates a new HTTP handler.
func NewHandler(svc *service.IDService) *Handler {
	return &Handler{svc: svc}
}

// NewRouter builds a gin engine with logging, recovery, health and the id
// routes registered.
func NewRouter(h *Handler, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l := log.Ctx(c.Request.Context())
		l.Error().Interface("panic", recovered).Msg("handler panicked")
		response.InternalError(c, "internal error")
	}))
	r.Use(log.GinMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})

	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		ids := api.Group("/ids")
		{
			ids.GET("", h.NextID)
			ids.GET("/batch", h.NextIDs)
			ids.GET("/:id", h.ParseID)
			ids.GET("/:id/validate", h.ValidateID)
		}
	}
}

type idResponse struct {
	ID      string `json:"id"`
	ShardID uint16 `json:"shard_id"`
}

type idsResponse struct {
	IDs     []string `json:"ids"`
	ShardID uint16   `json:"shard_id"`
}

type parseResponse struct {
	ID string `json:"id"`
	*service.ParseResult
}

type validateResponse struct {
	ID     string `json:"id"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// NextID returns one id.
func (h *Handler) NextID(c *gin.Context) {
	response.Success(c, idResponse{
		ID:      service.FormatID(h.svc.NextID()),
		ShardID: h.svc.ShardID(),
	})
}

// NextIDs returns ?count= ids, one by default.
func (h *Handler) NextIDs(c *gin.Context) {
	l := log.Ctx(c.Request.Context())

	count, err := strconv.Atoi(c.DefaultQuery("count", "1"))
	if err != nil {
		response.BadRequest(c, "count must be an integer")
		return
	}

	ids, err := h.svc.NextIDs(count)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCount) {
			response.BadRequest(c, err.Error())
			return
		}
		l.Error().Err(err).Msg("failed to generate batch")
		response.InternalError(c, "failed to generate ids")
		return
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = service.FormatID(id)
	}
	l.Debug().Int(log.FieldCount, count).Msg("batch generated")
	response.Success(c, idsResponse{IDs: out, ShardID: h.svc.ShardID()})
}

// ParseID decodes the id in the path.
func (h *Handler) ParseID(c *gin.Context) {
	raw := c.Param("id")
	result, err := h.svc.ParseString(raw)
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Warn().Err(err).Str(log.FieldID, raw).Msg("failed to parse id")
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, parseResponse{ID: raw, ParseResult: result})
}

// ValidateID reports whether the id in the path is plausible. A path value
// that is not a decimal uint64 is rejected with 400, as ParseID does; only
// well-formed ids get a valid/invalid verdict.
func (h *Handler) ValidateID(c *gin.Context) {
	raw := c.Param("id")
	id, err := service.ParseID(raw)
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Warn().Err(err).Str(log.FieldID, raw).Msg("failed to parse id")
		response.BadRequest(c, err.Error())
		return
	}
	valid, reason := h.svc.Validate(id)
	response.Success(c, validateResponse{ID: raw, Valid: valid, Reason: reason})
}
