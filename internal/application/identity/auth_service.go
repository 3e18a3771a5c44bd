package identity

import (
	"context"
	"errors"
	"time"

	"github.com/asspharma/backend/internal/domain/identity"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Lockout policy applied on repeated bad passwords
const (
	MaxLoginAttempts = 3
	LockDuration     = 15 * time.Minute
)

// ErrInvalidCredentials hides whether the username or the password was
// wrong
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// TokenPair is the issued access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// TokenIssuer mints signed tokens for an authenticated staff member
type TokenIssuer interface {
	Issue(pharmacyID, userID uuid.UUID, username string, role identity.Role) (*TokenPair, error)
}

// AuthService authenticates staff and manages the pharmacy's accounts
type AuthService struct {
	pharmacyRepo identity.PharmacyRepository
	userRepo     identity.UserRepository
	tokens       TokenIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(pharmacyRepo identity.PharmacyRepository, userRepo identity.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{pharmacyRepo: pharmacyRepo, userRepo: userRepo, tokens: tokens}
}

// RegisterPharmacy provisions a new tenant together with its titulaire
// account
func (s *AuthService) RegisterPharmacy(ctx context.Context, req RegisterPharmacyRequest) (*PharmacyResponse, error) {
	if existing, err := s.pharmacyRepo.FindByLicense(ctx, req.LicenseNo); err == nil && existing != nil {
		return nil, shared.NewDomainError("LICENSE_TAKEN", "A pharmacy with this license number already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	pharmacy, err := identity.NewPharmacy(req.Name, req.LicenseNo)
	if err != nil {
		return nil, err
	}
	pharmacy.UpdateContact(req.OwnerName, req.Phone, req.Email, req.Address, req.City)

	titulaire, err := identity.NewActiveUser(pharmacy.ID, req.Username, req.Password, identity.RoleTitulaire)
	if err != nil {
		return nil, err
	}

	if err := s.pharmacyRepo.Save(ctx, pharmacy); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, titulaire); err != nil {
		return nil, err
	}

	return ToPharmacyResponse(pharmacy), nil
}

// Login authenticates a staff member against their pharmacy. Three bad
// passwords in a row lock the account for fifteen minutes.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	pharmacy, err := s.pharmacyRepo.FindByLicense(ctx, req.LicenseNo)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !pharmacy.IsActive() {
		return nil, shared.NewDomainError("PHARMACY_SUSPENDED", "Pharmacy account is suspended")
	}

	user, err := s.userRepo.FindByUsername(ctx, pharmacy.ID, req.Username)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked")
		}
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is not active")
	}

	if !user.VerifyPassword(req.Password) {
		user.RecordLoginFailure(MaxLoginAttempts, LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	user.RecordLoginSuccess(req.ClientIP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.tokens.Issue(pharmacy.ID, user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Tokens:   tokens,
		User:     ToUserResponse(user),
		Pharmacy: ToPharmacyResponse(pharmacy),
	}, nil
}

// CreateUser adds a staff account. Only the titulaire does this; the
// caller's role is enforced at the transport layer.
func (s *AuthService) CreateUser(ctx context.Context, pharmacyID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	if existing, err := s.userRepo.FindByUsername(ctx, pharmacyID, req.Username); err == nil && existing != nil {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already in use")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewActiveUser(pharmacyID, req.Username, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ChangePassword rotates a staff member's own password
func (s *AuthService) ChangePassword(ctx context.Context, pharmacyID, userID uuid.UUID, req ChangePasswordRequest) error {
	if pharmacyID == uuid.Nil {
		return shared.ErrTenantScopeMissing
	}
	user, err := s.userRepo.FindByID(ctx, pharmacyID, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// DeactivateUser disables a staff account
func (s *AuthService) DeactivateUser(ctx context.Context, pharmacyID, userID uuid.UUID) (*UserResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	user, err := s.userRepo.FindByID(ctx, pharmacyID, userID)
	if err != nil {
		return nil, err
	}
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// UnlockUser clears a lockout before it expires
func (s *AuthService) UnlockUser(ctx context.Context, pharmacyID, userID uuid.UUID) (*UserResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	user, err := s.userRepo.FindByID(ctx, pharmacyID, userID)
	if err != nil {
		return nil, err
	}
	if err := user.Unlock(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ListUsers lists the pharmacy's staff accounts
func (s *AuthService) ListUsers(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*UserResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	users, err := s.userRepo.FindAll(ctx, pharmacyID, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, ToUserResponse(u))
	}
	return resp, nil
}

// GetPharmacy returns the caller's tenant
func (s *AuthService) GetPharmacy(ctx context.Context, pharmacyID uuid.UUID) (*PharmacyResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	pharmacy, err := s.pharmacyRepo.FindByID(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}
	return ToPharmacyResponse(pharmacy), nil
}
