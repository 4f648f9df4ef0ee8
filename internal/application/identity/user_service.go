package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/identity"
	"github.com/koifarm/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
	hashCost int
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
	}
}

// CreateStaff creates a staff account with a bcrypt-hashed password
func (s *UserService) CreateStaff(ctx context.Context, req CreateStaffRequest) (*UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	s.logger.Info("Creating staff account", zap.String("email", email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("email '%s' is already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, shared.NewValidationError("password cannot exceed 72 bytes")
		}
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "failed to hash password")
	}

	user, err := identity.NewStaff(req.Name, email, string(hash))
	if err != nil {
		return nil, err
	}
	if req.Address != "" || req.Phone != "" {
		if err := user.SetContact(req.Address, req.Phone); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Staff account created", zap.String("user_id", user.ID.String()))
	response := ToUserResponse(user)
	return &response, nil
}

// GetProfile returns the caller's own account
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.caller(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// UpdateProfile edits the caller's name, address and phone. Orders placed
// afterwards ship to the new address.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.caller(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name == nil && req.Address == nil && req.Phone == nil {
		response := ToUserResponse(user)
		return &response, nil
	}

	if req.Name != nil {
		if err := user.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	address, phone := user.Address, user.Phone
	if req.Address != nil {
		address = *req.Address
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if err := user.SetContact(address, phone); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated", zap.String("user_id", user.ID.String()))
	response := ToUserResponse(user)
	return &response, nil
}

// List pages through every account
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// caller loads the authenticated account; an unknown one is unauthorized
func (s *UserService) caller(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewUnauthorizedError("user is not registered")
		}
		return nil, err
	}
	return user, nil
}

// ListByRole lists accounts carrying a role marker
func (s *UserService) ListByRole(ctx context.Context, roleID string) ([]UserResponse, error) {
	switch roleID {
	case identity.RoleCustomer, identity.RoleStaff, identity.RoleManager:
	default:
		return nil, shared.NewValidationError("invalid role: %s", roleID)
	}
	users, err := s.userRepo.FindByRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}
