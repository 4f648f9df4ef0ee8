package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/identity"
	"github.com/koifarm/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound("user", "find user", err)
	}
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, notFound("user", "find user", err)
	}
	return &user, nil
}

func (r *GormUserRepository) FindByRole(ctx context.Context, roleID string) ([]identity.User, error) {
	var users []identity.User
	if err := r.db.WithContext(ctx).
		Where("role_id = ?", roleID).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, translateError("list users", err)
	}
	return users, nil
}

func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	query := paginate(r.db.WithContext(ctx).Model(&identity.User{}), filter, UserSortFields)
	if err := query.Find(&users).Error; err != nil {
		return nil, translateError("list users", err)
	}
	return users, nil
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, translateError("check email", err)
	}
	return count > 0, nil
}

func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return translateError("save user", r.db.WithContext(ctx).Save(user).Error)
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
