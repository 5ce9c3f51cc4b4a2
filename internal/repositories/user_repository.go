package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/campus-social/backend/internal/models"
	"gorm.io/gorm"
)

// userRecord stores the user document as JSON next to its unique keys.
type userRecord struct {
	ID           uint        `gorm:"primaryKey"`
	UID          string      `gorm:"uniqueIndex;size:128;not null"`
	Email        string      `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string      `gorm:"size:255"`
	Document     models.User `gorm:"serializer:json;type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string {
	return "users"
}

func (rec *userRecord) user() *models.User {
	u := rec.Document
	u.UID = rec.UID
	u.Email = rec.Email
	u.PasswordHash = rec.PasswordHash
	return &u
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// InitSchema migrates the users table.
func (r *PostgresUserRepository) InitSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&userRecord{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	var n int64
	err := r.db.WithContext(ctx).Model(&userRecord{}).
		Where("uid = ? OR email = ?", user.UID, user.Email).Count(&n).Error
	if err != nil {
		return fmt.Errorf("check user %s: %w", user.UID, err)
	}
	if n > 0 {
		return fmt.Errorf("user %s: %w", user.UID, ErrDuplicate)
	}

	rec := &userRecord{UID: user.UID, Email: user.Email, PasswordHash: user.PasswordHash, Document: *user}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s: %w", user.UID, ErrDuplicate)
		}
		return fmt.Errorf("create user %s: %w", user.UID, err)
	}
	return nil
}

// GetUserByUID retrieves a user by UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	return r.first(ctx, "uid = ?", uid)
}

// GetUserByEmail retrieves a user by email from PostgreSQL
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", models.NormalizeEmail(email))
}

// FindByUIDOrEmail retrieves the user owning either key
func (r *PostgresUserRepository) FindByUIDOrEmail(ctx context.Context, uid, email string) (*models.User, error) {
	return r.first(ctx, "uid = ? OR email = ?", uid, models.NormalizeEmail(email))
}

func (r *PostgresUserRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where(query, args...).Order("id").First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %v: %w", args, ErrNotFound)
		}
		return nil, fmt.Errorf("find user %v: %w", args, err)
	}
	return rec.user(), nil
}

// GetUsersByUIDs retrieves the users for uids, keeping the order of uids
func (r *PostgresUserRepository) GetUsersByUIDs(ctx context.Context, uids []string) ([]models.User, error) {
	if len(uids) == 0 {
		return []models.User{}, nil
	}
	var recs []userRecord
	if err := r.db.WithContext(ctx).Where("uid IN ?", uids).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	byUID := make(map[string]*models.User, len(recs))
	for i := range recs {
		byUID[recs[i].UID] = recs[i].user()
	}
	return orderByUIDs(uids, byUID), nil
}

// UpdateUser saves the user document with the same UID
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec userRecord
		if err := tx.Where("uid = ?", user.UID).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %s: %w", user.UID, ErrNotFound)
			}
			return fmt.Errorf("find user %s: %w", user.UID, err)
		}
		rec.Email = user.Email
		rec.PasswordHash = user.PasswordHash
		rec.Document = *user
		if err := tx.Save(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("user %s: %w", user.UID, ErrDuplicate)
			}
			return fmt.Errorf("update user %s: %w", user.UID, err)
		}
		return nil
	})
}

func orderByUIDs(uids []string, byUID map[string]*models.User) []models.User {
	users := make([]models.User, 0, len(byUID))
	seen := make(map[string]bool, len(uids))
	for _, uid := range uids {
		if u, ok := byUID[uid]; ok && !seen[uid] {
			seen[uid] = true
			users = append(users, *u)
		}
	}
	return users
}
