package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	bathapp "github.com/oksasatya/bath-journal/internal/application"
	"github.com/oksasatya/bath-journal/pkg/contract"
	"github.com/oksasatya/bath-journal/pkg/helpers"
	"github.com/oksasatya/bath-journal/pkg/response"
	"github.com/oksasatya/bath-journal/pkg/validation"
)

type BathHandler struct {
	Svc    *bathapp.Service
	Logger *logrus.Logger
}

func NewBathHandler(svc *bathapp.Service, logger *logrus.Logger) *BathHandler {
	return &BathHandler{Svc: svc, Logger: logger}
}

type searchQuery struct {
	Q    string `form:"q" json:"q" validate:"required"`
	Size int    `form:"size" json:"size" validate:"omitempty,min=1"`
}

func (h *BathHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list baths failed", err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

func (h *BathHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c)
		return
	}
	b, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get bath failed", err)
		return
	}
	if b == nil {
		response.NotFound(c)
		return
	}
	response.JSON(c, http.StatusOK, b)
}

func (h *BathHandler) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.Invalid(c, &contract.ValidationError{Message: "invalid JSON payload"})
		return
	}
	in, err := contract.DecodeCreateBath(body)
	if err != nil {
		h.fail(c, "create bath rejected", err)
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), in.ToNewBath())
	if err != nil {
		h.fail(c, "create bath failed", err)
		return
	}
	response.JSON(c, http.StatusCreated, b)
}

// Update answers 404 for a missing bath before looking at the body.
func (h *BathHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c)
		return
	}
	ctx := c.Request.Context()
	existing, err := h.Svc.Get(ctx, id)
	if err != nil {
		h.fail(c, "update bath failed", err)
		return
	}
	if existing == nil {
		response.NotFound(c)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		response.Invalid(c, &contract.ValidationError{Message: "invalid JSON payload"})
		return
	}
	in, err := contract.DecodeUpdateBath(body)
	if err != nil {
		h.fail(c, "update bath rejected", err)
		return
	}
	b, err := h.Svc.Update(ctx, id, in.ToPatch())
	if err != nil {
		h.fail(c, "update bath failed", err)
		return
	}
	response.JSON(c, http.StatusOK, b)
}

func (h *BathHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "delete bath failed", err)
		return
	}
	response.NoContent(c)
}

func (h *BathHandler) Stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, "bath stats failed", err)
		return
	}
	response.JSON(c, http.StatusOK, st)
}

func (h *BathHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Invalid(c, &contract.ValidationError{Field: "size", Message: "size must be an integer"})
		return
	}
	if err := validation.Struct(q); err != nil {
		fe, _ := validation.First(err)
		response.Invalid(c, &contract.ValidationError{Field: fe.Field, Message: fe.Message})
		return
	}
	list, err := h.Svc.SearchNotes(c.Request.Context(), q.Q, contract.ClampSearchSize(q.Size))
	if err != nil {
		h.fail(c, "search baths failed", err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// fail maps a service error onto the contract error responses.
func (h *BathHandler) fail(c *gin.Context, msg string, err error) {
	var verr *contract.ValidationError
	switch {
	case errors.As(err, &verr):
		if h.Logger != nil {
			h.Logger.WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"field":      verr.Field,
			}).Debug(msg)
		}
		response.Invalid(c, verr)
	case errors.Is(err, bathapp.ErrBathNotFound):
		response.NotFound(c)
	default:
		helpers.LogError(h.Logger, msg, err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
		response.Internal(c)
	}
}

// parseID reads the :id segment. Anything that is not a positive integer
// cannot name a bath.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
