package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/challengeer/challenge-service/internal/models"
	sharedredis "github.com/challengeer/challenge-service/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const userViewKeyPrefix = "user:view:"

// UserReadRepository handles all read operations for user profiles.
// It uses Redis as the primary read store, falling back to PostgreSQL on a miss.
type UserReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.UserView]
}

func NewUserReadRepository(db *sql.DB, redisClient *goredis.Client) *UserReadRepository {
	return &UserReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.UserView](redisClient, 0),
	}
}

// GetView returns a public UserView from Redis first, then PostgreSQL.
func (r *UserReadRepository) GetView(ctx context.Context, id string) (*models.UserView, error) {
	cacheKey := userViewKeyPrefix + id

	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	// Fallback: PostgreSQL
	query := `
		SELECT id, username, display_name, profile_picture
		FROM users
		WHERE id = $1
	`
	var view models.UserView
	var picture sql.NullString

	pgErr := r.db.QueryRow(query, id).Scan(&view.ID, &view.Username, &view.DisplayName, &picture)
	if pgErr == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get user: %w", pgErr)
	}
	view.ProfilePicture = picture.String

	// Warm the cache
	r.CacheUserView(ctx, &view)
	return &view, nil
}

// Search matches usernames and display names case-insensitively.
func (r *UserReadRepository) Search(q string, skip, limit int) ([]models.UserView, error) {
	query := `
		SELECT id, username, display_name, profile_picture
		FROM users
		WHERE username ILIKE '%' || $1 || '%' OR display_name ILIKE '%' || $1 || '%'
		ORDER BY username
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.Query(query, q, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	views := []models.UserView{}
	for rows.Next() {
		var view models.UserView
		var picture sql.NullString
		if err := rows.Scan(&view.ID, &view.Username, &view.DisplayName, &picture); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		view.ProfilePicture = picture.String
		views = append(views, view)
	}
	return views, rows.Err()
}

// CacheUserView stores or refreshes the Redis read model for a user.
// Called on account creation and when a read warms the cache; profile
// updates go through InvalidateUserView instead.
func (r *UserReadRepository) CacheUserView(ctx context.Context, view *models.UserView) {
	r.cache.Set(ctx, userViewKeyPrefix+view.ID, view)
}

// InvalidateUserView removes the Redis read model entry for a user.
func (r *UserReadRepository) InvalidateUserView(ctx context.Context, userID string) {
	r.cache.Delete(ctx, userViewKeyPrefix+userID)
}
