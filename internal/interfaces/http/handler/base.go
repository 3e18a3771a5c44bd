package handler

import (
	"errors"
	"net/http"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/infrastructure/logger"
	"github.com/asspharma/backend/internal/interfaces/http/dto"
	"github.com/asspharma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler carries the response and error plumbing shared by every
// handler in this package
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a base handler
func NewBaseHandler(log *zap.Logger) BaseHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return BaseHandler{logger: log}
}

// Success writes a 200 with the data wrapped in the response envelope
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, meta dto.Meta) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, meta))
}

// Created writes a 201 with the data wrapped in the response envelope
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes a 204
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 with an INVALID_INPUT error. Used for binding
// failures, where there is no domain error to map.
func (h *BaseHandler) BadRequest(c *gin.Context, err error) {
	message := "Invalid request"
	if err != nil {
		message = err.Error()
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeInvalidInput, message))
}

// HandleError maps an application error to its HTTP response. Domain
// errors keep their code and message; anything else is a 500 with the
// detail kept out of the response body.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status >= http.StatusInternalServerError {
			h.logError(c, err)
		}
		c.JSON(status, dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	h.logError(c, err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, "An internal error occurred"))
}

func (h *BaseHandler) logError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context())
	if log == nil {
		log = h.logger
	}
	log.Error("request failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
	)
}

// pharmacyID resolves the tenant scope from the JWT claims. A request
// that reaches a handler without one is rejected with the same error the
// application layer uses for a missing scope.
func (h *BaseHandler) pharmacyID(c *gin.Context) (uuid.UUID, bool) {
	raw := middleware.GetJWTPharmacyID(c)
	id, err := uuid.Parse(raw)
	if raw == "" || err != nil {
		h.HandleError(c, shared.ErrTenantScopeMissing)
		return uuid.Nil, false
	}
	return id, true
}

// userID resolves the authenticated staff member from the JWT claims
func (h *BaseHandler) userID(c *gin.Context) (uuid.UUID, bool) {
	raw := middleware.GetJWTUserID(c)
	id, err := uuid.Parse(raw)
	if raw == "" || err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
		return uuid.Nil, false
	}
	return id, true
}

// pathID binds and parses the :id path parameter
func (h *BaseHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	return h.pathUUID(c, "id")
}

func (h *BaseHandler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeInvalidInput, "Invalid "+name+" parameter"))
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses a UUID query parameter
func (h *BaseHandler) queryUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeInvalidInput, "Invalid "+name+" parameter"))
		return uuid.Nil, false
	}
	return id, true
}

// bindListFilter binds the common list query parameters
func (h *BaseHandler) bindListFilter(c *gin.Context) (shared.Filter, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return shared.Filter{}, false
	}
	return req.ToFilter(), true
}
