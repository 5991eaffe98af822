package economy

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/cardverse/cardverse/cardverse/catalog"
)

// OpenPack performs pack.CardCount independent draws against the pack's
// rarity table. Each draw rolls a uniform value in [0,1), walks the rarity
// tiers in ascending order accumulating probabilities, and selects the
// first tier whose running sum reaches the roll; if no tier is reached the
// draw falls back to Common. The card is then chosen uniformly from the
// merged pool of that rarity. A draw whose pool is empty yields nothing, so
// a pack may return fewer than CardCount cards. There is no pity mechanic;
// draws never influence each other.
func OpenPack(rng *rand.Rand, pack catalog.Pack, cards []catalog.Card) []catalog.Card {
	pools := make(map[catalog.Rarity][]catalog.Card, len(catalog.Rarities))
	for _, c := range cards {
		pools[c.Rarity] = append(pools[c.Rarity], c)
	}

	drawn := make([]catalog.Card, 0, pack.CardCount)
	for i := 0; i < pack.CardCount; i++ {
		rarity := rollRarity(rng, pack.Probabilities)
		pool := pools[rarity]
		if len(pool) == 0 {
			continue
		}
		drawn = append(drawn, pool[rng.Intn(len(pool))])
	}
	return drawn
}

func rollRarity(rng *rand.Rand, probs catalog.Probabilities) catalog.Rarity {
	roll := rng.Float64()
	sum := 0.0
	for _, rarity := range catalog.Rarities {
		sum += probs.For(rarity)
		if roll <= sum {
			return rarity
		}
	}
	// Tables that sum below 1 can leave the roll unresolved.
	return catalog.RarityCommon
}

// BuyPack validates funds, debits the pack cost, draws the cards and adds
// them to the buyer's collection. The funds check happens before any state
// change; an insufficient balance leaves the store untouched.
func (e *Engine) BuyPack(ctx context.Context, username, packID string) ([]catalog.Card, error) {
	user, err := e.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %q not found", username)
	}

	packs, err := e.content.GetPacks(ctx)
	if err != nil {
		return nil, err
	}
	var pack *catalog.Pack
	for i := range packs {
		if packs[i].ID == packID {
			pack = &packs[i]
			break
		}
	}
	if pack == nil {
		return nil, fmt.Errorf("pack %q not found", packID)
	}

	if user.Balance < pack.Cost {
		return nil, ErrInsufficientFunds
	}

	cards, err := e.content.GetCards(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := e.UpdateBalance(ctx, username, -pack.Cost); err != nil {
		return nil, err
	}

	e.mu.Lock()
	drawn := OpenPack(e.rng, *pack, cards)
	e.mu.Unlock()

	ids := make([]string, len(drawn))
	for i, c := range drawn {
		ids[i] = c.ID
	}
	if _, err := e.AddCards(ctx, username, ids); err != nil {
		return nil, err
	}

	slog.Info("Pack opened",
		slog.String("type", "op"),
		slog.String("name", "buy_pack"),
		slog.String("username", username),
		slog.String("pack", packID),
		slog.Int("cards", len(drawn)))

	return drawn, nil
}
