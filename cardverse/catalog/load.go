package catalog

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed catalog.toml
var defaultCatalog []byte

const probabilityTolerance = 1e-9

// Load reads a catalog TOML file from path, or the embedded default when
// path is empty, and validates it.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		data = file
	}

	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// Validate checks referential integrity and the pack probability invariant.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Cards))
	for _, card := range c.Cards {
		if card.ID == "" {
			return fmt.Errorf("card %q has no id", card.Name)
		}
		if seen[card.ID] {
			return fmt.Errorf("duplicate card id %q", card.ID)
		}
		seen[card.ID] = true
		if !card.Rarity.Valid() {
			return fmt.Errorf("card %q has unknown rarity %q", card.ID, card.Rarity)
		}
	}

	for _, pack := range c.Packs {
		if pack.Cost < 0 {
			return fmt.Errorf("pack %q has negative cost", pack.ID)
		}
		if pack.CardCount <= 0 {
			return fmt.Errorf("pack %q has no card count", pack.ID)
		}
		if sum := pack.Probabilities.Sum(); math.Abs(sum-1.0) > probabilityTolerance {
			return fmt.Errorf("pack %q probabilities sum to %v, want 1.0", pack.ID, sum)
		}
	}

	chapterIDs := make(map[string]bool, len(c.Chapters))
	for _, ch := range c.Chapters {
		if chapterIDs[ch.ID] {
			return fmt.Errorf("duplicate chapter id %q", ch.ID)
		}
		chapterIDs[ch.ID] = true
		if len(ch.Dialogue) == 0 {
			return fmt.Errorf("chapter %q has no dialogue", ch.ID)
		}
	}

	return nil
}
