package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// likeRecord is the relational row for a like. Ids are stored as ObjectID hex
// so both backends share identifiers.
type likeRecord struct {
	ID         string    `gorm:"primaryKey;size:24"`
	LikedBy    string    `gorm:"size:24;not null;uniqueIndex:idx_like_user_target,priority:1;index:idx_like_user_kind,priority:1"`
	TargetKind string    `gorm:"size:16;not null;uniqueIndex:idx_like_user_target,priority:2;index:idx_like_user_kind,priority:2;index:idx_like_target,priority:1"`
	TargetID   string    `gorm:"size:24;not null;uniqueIndex:idx_like_user_target,priority:3;index:idx_like_target,priority:2"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (likeRecord) TableName() string { return "likes" }

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// Migrate creates the likes table and its unique (user, kind, target) index
func (r *PostgresLikeRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&likeRecord{})
}

// HasLiked reports whether the user likes the target
func (r *PostgresLikeRepository) HasLiked(ctx context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&likeRecord{}).
		Where("liked_by = ? AND target_kind = ? AND target_id = ?", likedBy.Hex(), string(target.Kind), target.ID.Hex()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateLike creates a new like in PostgreSQL
func (r *PostgresLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	like.ID = primitive.NewObjectID()
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now().UTC()
	}
	rec := likeRecord{
		ID:         like.ID.Hex(),
		LikedBy:    like.LikedBy.Hex(),
		TargetKind: string(like.Target.Kind),
		TargetID:   like.Target.ID.Hex(),
		CreatedAt:  like.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// DeleteLike deletes a like from PostgreSQL and reports whether a row was removed
func (r *PostgresLikeRepository) DeleteLike(ctx context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("liked_by = ? AND target_kind = ? AND target_id = ?", likedBy.Hex(), string(target.Kind), target.ID.Hex()).
		Delete(&likeRecord{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountLikes counts the likes on a target
func (r *PostgresLikeRepository) CountLikes(ctx context.Context, target models.LikeTarget) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&likeRecord{}).
		Where("target_kind = ? AND target_id = ?", string(target.Kind), target.ID.Hex()).
		Count(&count).Error
	return count, err
}

// ListLikes returns a user's likes of one kind, most recent first
func (r *PostgresLikeRepository) ListLikes(ctx context.Context, likedBy primitive.ObjectID, kind models.TargetKind) ([]models.Like, error) {
	var records []likeRecord
	err := r.db.WithContext(ctx).
		Where("liked_by = ? AND target_kind = ?", likedBy.Hex(), string(kind)).
		Order("created_at DESC").Order("id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	likes := make([]models.Like, 0, len(records))
	for _, rec := range records {
		like, err := rec.toModel()
		if err != nil {
			return nil, err
		}
		likes = append(likes, like)
	}
	return likes, nil
}

// DeleteLikesForTarget removes every like on a target
func (r *PostgresLikeRepository) DeleteLikesForTarget(ctx context.Context, target models.LikeTarget) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", string(target.Kind), target.ID.Hex()).
		Delete(&likeRecord{})
	return res.RowsAffected, res.Error
}

func (rec likeRecord) toModel() (models.Like, error) {
	id, err := primitive.ObjectIDFromHex(rec.ID)
	if err != nil {
		return models.Like{}, err
	}
	likedBy, err := primitive.ObjectIDFromHex(rec.LikedBy)
	if err != nil {
		return models.Like{}, err
	}
	targetID, err := primitive.ObjectIDFromHex(rec.TargetID)
	if err != nil {
		return models.Like{}, err
	}
	target, err := models.NewLikeTarget(models.TargetKind(rec.TargetKind), targetID)
	if err != nil {
		return models.Like{}, err
	}
	return models.Like{ID: id, LikedBy: likedBy, Target: target, CreatedAt: rec.CreatedAt}, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
