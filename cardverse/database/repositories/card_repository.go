package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/cardverse/cardverse/cardverse/database/models"
)

type CardRepository interface {
	CreateCustom(ctx context.Context, card *models.CustomCard) error
	GetCustom(ctx context.Context, id string) (*models.CustomCard, error)
	UpdateCustom(ctx context.Context, card *models.CustomCard) error
	GetAllCustom(ctx context.Context) ([]*models.CustomCard, error)

	GetEdit(ctx context.Context, cardID string) (*models.CardEdit, error)
	SaveEdit(ctx context.Context, edit *models.CardEdit) error
	GetAllEdits(ctx context.Context) ([]*models.CardEdit, error)
}

type cardRepository struct {
	db *bun.DB
}

func NewCardRepository(db *bun.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) CreateCustom(ctx context.Context, card *models.CustomCard) error {
	card.CreatedAt = time.Now()
	card.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(card).Exec(ctx)
	return err
}

func (r *cardRepository) GetCustom(ctx context.Context, id string) (*models.CustomCard, error) {
	card := new(models.CustomCard)
	err := r.db.NewSelect().
		Model(card).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (r *cardRepository) UpdateCustom(ctx context.Context, card *models.CustomCard) error {
	card.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(card).
		WherePK().
		Exec(ctx)
	return err
}

func (r *cardRepository) GetAllCustom(ctx context.Context) ([]*models.CustomCard, error) {
	var cards []*models.CustomCard
	err := r.db.NewSelect().
		Model(&cards).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepository) GetEdit(ctx context.Context, cardID string) (*models.CardEdit, error) {
	edit := new(models.CardEdit)
	err := r.db.NewSelect().
		Model(edit).
		Where("card_id = ?", cardID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return edit, nil
}

func (r *cardRepository) SaveEdit(ctx context.Context, edit *models.CardEdit) error {
	edit.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(edit).
		On("CONFLICT (card_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("description = EXCLUDED.description").
		Set("rarity = EXCLUDED.rarity").
		Set("image_url = EXCLUDED.image_url").
		Set("source = EXCLUDED.source").
		Set("power_level = EXCLUDED.power_level").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *cardRepository) GetAllEdits(ctx context.Context) ([]*models.CardEdit, error) {
	var edits []*models.CardEdit
	err := r.db.NewSelect().
		Model(&edits).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return edits, nil
}
