package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"

	"github.com/cardverse/cardverse/cardverse/catalog"
	"github.com/cardverse/cardverse/cardverse/database/models"
	"github.com/cardverse/cardverse/cardverse/database/repositories"
)

const (
	cardCacheSize = 64
	cardCacheKey  = "merged_cards"
)

// CardPatch is a partial-field update. Nil fields are left unchanged.
type CardPatch struct {
	Name        *string
	Description *string
	Rarity      *catalog.Rarity
	ImageURL    *string
	Source      *string
	PowerLevel  *int
}

// ContentService layers persisted card edits and custom cards over the
// immutable base catalog.
type ContentService struct {
	catalog *catalog.Catalog
	cards   repositories.CardRepository
	packs   repositories.PackRepository
	cache   *lru.Cache
}

func NewContentService(cat *catalog.Catalog, cards repositories.CardRepository, packs repositories.PackRepository) *ContentService {
	cache, _ := lru.New(cardCacheSize)
	return &ContentService{
		catalog: cat,
		cards:   cards,
		packs:   packs,
		cache:   cache,
	}
}

// CreateCard appends a custom card after the base catalog.
func (s *ContentService) CreateCard(ctx context.Context, card catalog.Card) error {
	if card.ID == "" {
		return fmt.Errorf("card id is required")
	}
	if !card.Rarity.Valid() {
		return fmt.Errorf("unknown rarity %q", card.Rarity)
	}

	custom := &models.CustomCard{
		ID:          card.ID,
		Name:        card.Name,
		Description: card.Description,
		Rarity:      string(card.Rarity),
		ImageURL:    card.ImageURL,
		Source:      card.Source,
		PowerLevel:  card.PowerLevel,
	}
	if err := s.cards.CreateCustom(ctx, custom); err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	s.cache.Remove(cardCacheKey)
	slog.Info("Custom card created",
		slog.String("type", "op"),
		slog.String("name", "create_card"),
		slog.String("card_id", card.ID))
	return nil
}

// UpdateCard merges a patch into a custom card in place, or records it as an
// override applied over the base catalog entry at read time.
func (s *ContentService) UpdateCard(ctx context.Context, id string, patch CardPatch) error {
	custom, err := s.cards.GetCustom(ctx, id)
	switch {
	case err == nil:
		applyPatchToCustom(custom, patch)
		if err := s.cards.UpdateCustom(ctx, custom); err != nil {
			return fmt.Errorf("failed to update custom card: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		edit, err := s.cards.GetEdit(ctx, id)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to get card edit: %w", err)
			}
			edit = &models.CardEdit{CardID: id}
		}
		mergePatchIntoEdit(edit, patch)
		if err := s.cards.SaveEdit(ctx, edit); err != nil {
			return fmt.Errorf("failed to save card edit: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up custom card: %w", err)
	}

	s.cache.Remove(cardCacheKey)
	return nil
}

// GetCards returns the base catalog with overrides applied, followed by
// custom cards, in that order.
func (s *ContentService) GetCards(ctx context.Context) ([]catalog.Card, error) {
	if cached, ok := s.cache.Get(cardCacheKey); ok {
		return cached.([]catalog.Card), nil
	}

	edits, err := s.cards.GetAllEdits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load card edits: %w", err)
	}
	editsByID := make(map[string]*models.CardEdit, len(edits))
	for _, e := range edits {
		editsByID[e.CardID] = e
	}

	merged := make([]catalog.Card, 0, len(s.catalog.Cards))
	for _, base := range s.catalog.Cards {
		if edit, ok := editsByID[base.ID]; ok {
			merged = append(merged, applyEdit(base, edit))
		} else {
			merged = append(merged, base)
		}
	}

	customs, err := s.cards.GetAllCustom(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom cards: %w", err)
	}
	for _, c := range customs {
		merged = append(merged, catalog.Card{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Rarity:      catalog.Rarity(c.Rarity),
			ImageURL:    c.ImageURL,
			Source:      c.Source,
			PowerLevel:  c.PowerLevel,
		})
	}

	s.cache.Add(cardCacheKey, merged)
	return merged, nil
}

// GetCard returns a single card from the merged view.
func (s *ContentService) GetCard(ctx context.Context, id string) (catalog.Card, error) {
	cards, err := s.GetCards(ctx)
	if err != nil {
		return catalog.Card{}, err
	}
	for _, c := range cards {
		if c.ID == id {
			return c, nil
		}
	}
	return catalog.Card{}, ErrCardNotFound
}

type cardSearchSource []catalog.Card

func (c cardSearchSource) String(i int) string { return strings.ToLower(c[i].Name) }
func (c cardSearchSource) Len() int            { return len(c) }

// SearchCards fuzzy-matches the query against card names in the merged
// view, best matches first.
func (s *ContentService) SearchCards(ctx context.Context, query string) ([]catalog.Card, error) {
	cards, err := s.GetCards(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return cards, nil
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), cardSearchSource(cards))
	results := make([]catalog.Card, len(matches))
	for i, m := range matches {
		results[i] = cards[m.Index]
	}
	return results, nil
}

// CreatePack persists an admin-defined pack. The probability invariant is
// enforced here since custom packs bypass catalog validation.
func (s *ContentService) CreatePack(ctx context.Context, pack catalog.Pack) error {
	if pack.CardCount <= 0 {
		return fmt.Errorf("pack card count must be positive")
	}
	if sum := pack.Probabilities.Sum(); sum < 1.0-1e-9 || sum > 1.0+1e-9 {
		return fmt.Errorf("pack probabilities sum to %v, want 1.0", sum)
	}

	custom := &models.CustomPack{
		ID:         pack.ID,
		MerchantID: pack.MerchantID,
		Name:       pack.Name,
		Cost:       pack.Cost,
		CardCount:  pack.CardCount,
		Common:     pack.Probabilities.Common,
		Rare:       pack.Probabilities.Rare,
		Epic:       pack.Probabilities.Epic,
		Legendary:  pack.Probabilities.Legendary,
	}
	if err := s.packs.Create(ctx, custom); err != nil {
		return fmt.Errorf("failed to create pack: %w", err)
	}
	return nil
}

// GetPacks returns catalog packs followed by custom packs.
func (s *ContentService) GetPacks(ctx context.Context) ([]catalog.Pack, error) {
	customs, err := s.packs.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom packs: %w", err)
	}

	packs := make([]catalog.Pack, 0, len(s.catalog.Packs)+len(customs))
	packs = append(packs, s.catalog.Packs...)
	for _, p := range customs {
		packs = append(packs, catalog.Pack{
			ID:         p.ID,
			MerchantID: p.MerchantID,
			Name:       p.Name,
			Cost:       p.Cost,
			CardCount:  p.CardCount,
			Probabilities: catalog.Probabilities{
				Common:    p.Common,
				Rare:      p.Rare,
				Epic:      p.Epic,
				Legendary: p.Legendary,
			},
		})
	}
	return packs, nil
}

func applyPatchToCustom(card *models.CustomCard, patch CardPatch) {
	if patch.Name != nil {
		card.Name = *patch.Name
	}
	if patch.Description != nil {
		card.Description = *patch.Description
	}
	if patch.Rarity != nil {
		card.Rarity = string(*patch.Rarity)
	}
	if patch.ImageURL != nil {
		card.ImageURL = *patch.ImageURL
	}
	if patch.Source != nil {
		card.Source = *patch.Source
	}
	if patch.PowerLevel != nil {
		card.PowerLevel = *patch.PowerLevel
	}
}

func mergePatchIntoEdit(edit *models.CardEdit, patch CardPatch) {
	if patch.Name != nil {
		edit.Name = patch.Name
	}
	if patch.Description != nil {
		edit.Description = patch.Description
	}
	if patch.Rarity != nil {
		r := string(*patch.Rarity)
		edit.Rarity = &r
	}
	if patch.ImageURL != nil {
		edit.ImageURL = patch.ImageURL
	}
	if patch.Source != nil {
		edit.Source = patch.Source
	}
	if patch.PowerLevel != nil {
		edit.PowerLevel = patch.PowerLevel
	}
}

func applyEdit(base catalog.Card, edit *models.CardEdit) catalog.Card {
	out := base
	if edit.Name != nil {
		out.Name = *edit.Name
	}
	if edit.Description != nil {
		out.Description = *edit.Description
	}
	if edit.Rarity != nil {
		out.Rarity = catalog.Rarity(*edit.Rarity)
	}
	if edit.ImageURL != nil {
		out.ImageURL = *edit.ImageURL
	}
	if edit.Source != nil {
		out.Source = *edit.Source
	}
	if edit.PowerLevel != nil {
		out.PowerLevel = *edit.PowerLevel
	}
	return out
}
