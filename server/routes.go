package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lipsync/aligner"
	"github.com/kbukum/lipsync/alignment/whisperx"
	apperrors "github.com/kbukum/lipsync/errors"
	"github.com/kbukum/lipsync/observability"
	"github.com/kbukum/lipsync/timeline"
	"github.com/kbukum/lipsync/validation"
)

// AssembleRequest is the body of POST /v1/timeline/assemble.
type AssembleRequest struct {
	timeline.Input
	// Characters keeps character-level timings in the response.
	Characters bool `json:"characters,omitempty"`
}

// Handlers serves the pipeline routes.
type Handlers struct {
	svc     *aligner.Service
	service string
	version string
}

// NewHandlers creates route handlers for svc. service and version are
// reported by /health.
func NewHandlers(svc *aligner.Service, service, version string) *Handlers {
	return &Handlers{svc: svc, service: service, version: version}
}

// Register mounts the routes on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	v1 := r.Group("/v1/timeline")
	v1.POST("/assemble", h.Assemble)
	v1.POST("/process", h.Process)
}

// Assemble builds a transcript from inputs in the body. With
// ?source=whisperx the body is a WhisperX result document instead.
func (h *Handlers) Assemble(c *gin.Context) {
	var (
		res *aligner.Result
		err error
	)
	if strings.EqualFold(c.Query("source"), "whisperx") {
		var doc *whisperx.Document
		doc, err = whisperx.DecodeDocument(c.Request.Body)
		if err != nil {
			RespondWithError(c, bodyError(err))
			return
		}
		res, err = h.svc.AssembleDocument(c.Request.Context(), doc, c.Query("chars") == "true")
	} else {
		var req AssembleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondWithError(c, bodyError(err))
			return
		}
		res, err = h.svc.Assemble(c.Request.Context(), req.Input, req.Characters)
	}
	if res == nil {
		RespondWithError(c, err)
		return
	}
	RespondResult(c, res, err)
}

// Process runs the configured backends on an audio file readable by the
// server.
func (h *Handlers) Process(c *gin.Context) {
	var job aligner.Job
	if err := c.ShouldBindJSON(&job); err != nil {
		RespondWithError(c, bodyError(err))
		return
	}
	if err := validation.New().
		Required("audio_path", job.AudioPath).
		OptionalUUID("id", job.ID).
		Validate(); err != nil {
		RespondWithError(c, err)
		return
	}

	res, err := h.svc.Process(c.Request.Context(), job)
	if res == nil {
		RespondWithError(c, err)
		return
	}
	RespondResult(c, res, err)
}

// Health reports the service and every backend. Unreachable backends make
// the service degraded, not down.
func (h *Handlers) Health(c *gin.Context) {
	health := observability.NewServiceHealth(h.service, h.version)
	for role, backends := range h.svc.Backends() {
		for _, b := range backends {
			health.AddComponent(observability.CheckBackend(c.Request.Context(), role, b))
		}
	}
	status := http.StatusOK
	if health.Status == observability.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}

// bodyError classifies a request body failure.
func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return apperrors.New(apperrors.ErrCodeInvalidInput, "Request body too large.", http.StatusRequestEntityTooLarge)
	case errors.Is(err, io.EOF):
		return apperrors.MissingField("body")
	case apperrors.IsCode(err, apperrors.ErrCodeDecode):
		return err
	default:
		return apperrors.Decode("request body", err)
	}
}
