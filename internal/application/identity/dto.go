package identity

import (
	"time"

	"github.com/asspharma/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterPharmacyRequest provisions a new pharmacy tenant with its
// titulaire account
type RegisterPharmacyRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	LicenseNo string `json:"license_no" binding:"required,max=100"`
	OwnerName string `json:"owner_name" binding:"required,max=150"`
	Phone     string `json:"phone" binding:"max=30,sn_phone"`
	Email     string `json:"email" binding:"omitempty,email,max=150"`
	Address   string `json:"address" binding:"max=300"`
	City      string `json:"city" binding:"max=100"`
	Username  string `json:"username" binding:"required,min=3,max=100"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest authenticates a staff member of one pharmacy
type LoginRequest struct {
	LicenseNo string `json:"license_no" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	ClientIP  string `json:"-"`
}

// CreateUserRequest adds a staff account to the pharmacy
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"max=200"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Role        string `json:"role" binding:"required,oneof=TITULAIRE ASSISTANT VENDEUR CAISSIER"`
}

// ChangePasswordRequest rotates the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UserResponse is the API representation of a staff account
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name,omitempty"`
	Email       string     `json:"email,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converts a user to its API representation
func ToUserResponse(u *identity.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        string(u.Role),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// PharmacyResponse is the API representation of a pharmacy tenant
type PharmacyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	LicenseNo string    `json:"license_no"`
	OwnerName string    `json:"owner_name,omitempty"`
	City      string    `json:"city"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPharmacyResponse converts a pharmacy to its API representation
func ToPharmacyResponse(p *identity.Pharmacy) *PharmacyResponse {
	return &PharmacyResponse{
		ID:        p.ID,
		Name:      p.Name,
		LicenseNo: p.LicenseNo,
		OwnerName: p.OwnerName,
		City:      p.City,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

// LoginResponse carries the issued tokens and the authenticated identity
type LoginResponse struct {
	Tokens   *TokenPair        `json:"tokens"`
	User     *UserResponse     `json:"user"`
	Pharmacy *PharmacyResponse `json:"pharmacy"`
}
