package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/cardverse/cardverse/cardverse/database/models"
)

type PackRepository interface {
	Create(ctx context.Context, pack *models.CustomPack) error
	GetAll(ctx context.Context) ([]*models.CustomPack, error)
}

type packRepository struct {
	db *bun.DB
}

func NewPackRepository(db *bun.DB) PackRepository {
	return &packRepository{db: db}
}

func (r *packRepository) Create(ctx context.Context, pack *models.CustomPack) error {
	pack.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(pack).Exec(ctx)
	return err
}

func (r *packRepository) GetAll(ctx context.Context) ([]*models.CustomPack, error) {
	var packs []*models.CustomPack
	err := r.db.NewSelect().
		Model(&packs).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return packs, nil
}
