package storage

import (
	"context"
	"time"

	"github.com/petsos-dev/availability/libs/db"
)

// Vet is the owner entity. Identity is the composite
// (platform, platform_user_id) key.
type Vet struct {
	ID             int64
	Platform       string
	PlatformUserID int64
	Name           string
	Phone          string
	IsAdmin        bool
	CreatedAt      time.Time
}

type VetRepository struct {
	pool *db.Pool
}

func NewVetRepository(pool *db.Pool) *VetRepository {
	return &VetRepository{pool: pool}
}

// Upsert finds or creates the vet in a single atomic statement, refreshing
// the display name when a non-empty one is supplied. Two concurrent first
// messages from the same new user therefore cannot create duplicate owners.
func (r *VetRepository) Upsert(ctx context.Context, platform string, platformUserID int64, name string) (Vet, error) {
	var v Vet
	err := r.pool.QueryRow(ctx, `
		INSERT INTO vets (platform, platform_user_id, name)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (platform, platform_user_id) DO UPDATE
		SET name = COALESCE(NULLIF(EXCLUDED.name, ''), vets.name)
		RETURNING id, platform, platform_user_id, COALESCE(name, ''), COALESCE(phone, ''), is_admin, created_at
	`, platform, platformUserID, name).Scan(
		&v.ID,
		&v.Platform,
		&v.PlatformUserID,
		&v.Name,
		&v.Phone,
		&v.IsAdmin,
		&v.CreatedAt,
	)
	return v, err
}

func (r *VetRepository) SetPhone(ctx context.Context, platform string, platformUserID int64, phone string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE vets
		SET phone = $3
		WHERE platform = $1 AND platform_user_id = $2
	`, platform, platformUserID, phone)
	return err
}

func (r *VetRepository) HasPhone(ctx context.Context, platform string, platformUserID int64) (bool, error) {
	var has bool
	err := r.pool.QueryRow(ctx, `
		SELECT phone IS NOT NULL
		FROM vets
		WHERE platform = $1 AND platform_user_id = $2
	`, platform, platformUserID).Scan(&has)
	return has, err
}

func (r *VetRepository) IsAdmin(ctx context.Context, platform string, platformUserID int64) (bool, error) {
	var admin bool
	err := r.pool.QueryRow(ctx, `
		SELECT is_admin
		FROM vets
		WHERE platform = $1 AND platform_user_id = $2
	`, platform, platformUserID).Scan(&admin)
	if err != nil {
		return false, err
	}
	return admin, nil
}
