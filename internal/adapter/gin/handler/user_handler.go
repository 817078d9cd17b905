package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-api/internal/usecase/user"
	apperrors "user-api/pkg/errors"
	"user-api/pkg/logger"
)

// UserHandler handles HTTP requests for the user resource. Failures are
// attached with c.Error and rendered by the error handling middleware.
type UserHandler struct {
	uc       user.Usecase
	mapper   user.Mapper
	basePath string
	log      *zap.Logger
}

// NewUserHandler creates a new UserHandler serving the resource under basePath.
func NewUserHandler(uc user.Usecase, mapper user.Mapper, basePath string, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:       uc,
		mapper:   mapper,
		basePath: strings.TrimSuffix(basePath, "/"),
		log:      log,
	}
}

// Register mounts the resource routes on rg.
func (h *UserHandler) Register(rg gin.IRoutes) {
	rg.GET("/:id", h.FindByID)
	rg.GET("", h.FindAll)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// FindByID handles GET {base}/:id
func (h *UserHandler) FindByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	u, err := h.uc.FindByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, h.mapper.ToDTO(*u))
}

// FindAll handles GET {base}
func (h *UserHandler) FindAll(c *gin.Context) {
	users, err := h.uc.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user.ToDTOs(h.mapper, users))
}

// Create handles POST {base}. The response has no body; the Location header
// points at the new user.
func (h *UserHandler) Create(c *gin.Context) {
	var dto user.UserDTO
	if !h.bindBody(c, &dto) {
		return
	}

	u, err := h.uc.Create(c.Request.Context(), dto)
	if err != nil {
		_ = c.Error(err)
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Info("user created", zap.Int64("id", u.ID))

	c.Header("Location", h.location(c, u.ID))
	c.Status(http.StatusCreated)
}

// Update handles PUT {base}/:id. The path id wins over any id in the body.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var dto user.UserDTO
	if !h.bindBody(c, &dto) {
		return
	}
	dto.ID = id

	u, err := h.uc.Update(c.Request.Context(), dto)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, h.mapper.ToDTO(*u))
}

// Delete handles DELETE {base}/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("id", "must be an integer"))
		return 0, false
	}
	return id, true
}

func (h *UserHandler) bindBody(c *gin.Context, dto *user.UserDTO) bool {
	if err := c.ShouldBindJSON(dto); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Debug("invalid request body", zap.Error(err))
		_ = c.Error(apperrors.NewValidationError("body", "malformed JSON request body"))
		return false
	}
	return true
}

// location builds {scheme}://{host}{base}/{id}, or a relative reference when
// the request carries no host.
func (h *UserHandler) location(c *gin.Context, id int64) string {
	path := h.basePath + "/" + strconv.FormatInt(id, 10)

	host := c.Request.Host
	if host == "" {
		return path
	}

	scheme := "http"
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + host + path
}
