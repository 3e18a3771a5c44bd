package handler

import (
	"net/http"

	identityapp "github.com/asspharma/backend/internal/application/identity"
	"github.com/asspharma/backend/internal/domain/identity"
	"github.com/asspharma/backend/internal/infrastructure/auth"
	"github.com/asspharma/backend/internal/interfaces/http/dto"
	"github.com/asspharma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication and staff account endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	jwtService  *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, jwtService *auth.JWTService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(log),
		authService: authService,
		jwtService:  jwtService,
	}
}

// RegisterRoutes mounts the auth and user routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.RegisterPharmacy)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/password", h.ChangePassword)
	}

	users := rg.Group("/users", middleware.RequireTitulaire())
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.POST("/:id/deactivate", h.DeactivateUser)
		users.POST("/:id/unlock", h.UnlockUser)
	}

	rg.GET("/pharmacy", h.GetPharmacy)
}

// RegisterPharmacy provisions a new pharmacy with its titulaire account
func (h *AuthHandler) RegisterPharmacy(c *gin.Context) {
	var req identityapp.RegisterPharmacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.authService.RegisterPharmacy(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Login authenticates a staff member and returns a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	req.ClientIP = c.ClientIP()

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// refreshRequest carries the refresh token to exchange
type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a valid refresh token for a fresh pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid refresh token"))
		return
	}

	tokens, err := h.jwtService.Refresh(req.RefreshToken, claims.Username, identity.Role(claims.Role))
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid refresh token"))
		return
	}
	h.Success(c, tokens)
}

// ChangePassword rotates the caller's own password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req identityapp.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), pharmacyID, userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateUser adds a staff account to the pharmacy
func (h *AuthHandler) CreateUser(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	var req identityapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.authService.CreateUser(c.Request.Context(), pharmacyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListUsers lists the pharmacy's staff accounts
func (h *AuthHandler) ListUsers(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	users, err := h.authService.ListUsers(c.Request.Context(), pharmacyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}

// DeactivateUser disables a staff account
func (h *AuthHandler) DeactivateUser(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	userID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.authService.DeactivateUser(c.Request.Context(), pharmacyID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UnlockUser clears a lockout before its window expires
func (h *AuthHandler) UnlockUser(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	userID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.authService.UnlockUser(c.Request.Context(), pharmacyID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetPharmacy returns the caller's pharmacy profile
func (h *AuthHandler) GetPharmacy(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	resp, err := h.authService.GetPharmacy(c.Request.Context(), pharmacyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
