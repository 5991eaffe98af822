package economy_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardverse/cardverse/cardverse/catalog"
	"github.com/cardverse/cardverse/cardverse/economy"
)

func TestOpenPackAllCommon(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pack := catalog.Pack{
		ID: "p", CardCount: 20,
		Probabilities: catalog.Probabilities{Common: 1},
	}
	cards := []catalog.Card{
		{ID: "c1", Rarity: catalog.RarityCommon},
		{ID: "c2", Rarity: catalog.RarityCommon},
		{ID: "l1", Rarity: catalog.RarityLegendary},
	}

	drawn := economy.OpenPack(rng, pack, cards)
	require.Len(t, drawn, 20)
	for _, c := range drawn {
		assert.Equal(t, catalog.RarityCommon, c.Rarity)
	}
}

func TestOpenPackEmptyPoolYieldsNothing(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pack := catalog.Pack{
		ID: "p", CardCount: 5,
		Probabilities: catalog.Probabilities{Legendary: 1},
	}
	// No legendary cards exist, and draws never substitute across tiers.
	cards := []catalog.Card{
		{ID: "c1", Rarity: catalog.RarityCommon},
	}

	drawn := economy.OpenPack(rng, pack, cards)
	assert.Empty(t, drawn)
}

func TestOpenPackUnderweightTableFallsBackToCommon(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pack := catalog.Pack{
		ID: "p", CardCount: 50,
		// Sums to zero, so every roll falls through to Common.
		Probabilities: catalog.Probabilities{},
	}
	cards := []catalog.Card{
		{ID: "c1", Rarity: catalog.RarityCommon},
		{ID: "r1", Rarity: catalog.RarityRare},
	}

	drawn := economy.OpenPack(rng, pack, cards)
	require.Len(t, drawn, 50)
	for _, c := range drawn {
		assert.Equal(t, "c1", c.ID)
	}
}

func TestOpenPackRespectsRarityWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pack := catalog.Pack{
		ID: "p", CardCount: 2000,
		Probabilities: catalog.Probabilities{Common: 0.5, Legendary: 0.5},
	}
	cards := []catalog.Card{
		{ID: "c1", Rarity: catalog.RarityCommon},
		{ID: "l1", Rarity: catalog.RarityLegendary},
	}

	drawn := economy.OpenPack(rng, pack, cards)
	require.Len(t, drawn, 2000)
	legendaries := 0
	for _, c := range drawn {
		if c.Rarity == catalog.RarityLegendary {
			legendaries++
		}
	}
	// Loose bounds; a fair split lands near 1000.
	assert.Greater(t, legendaries, 800)
	assert.Less(t, legendaries, 1200)
}

func TestBuyPackInsufficientFunds(t *testing.T) {
	env := newEngineEnv(t)
	env.createUser(t, "momo", 49)
	ctx := context.Background()

	_, err := env.engine.BuyPack(ctx, "momo", "starter")
	require.ErrorIs(t, err, economy.ErrInsufficientFunds)

	// Nothing was debited or drawn.
	user, err := env.users.GetByUsername(ctx, "momo")
	require.NoError(t, err)
	assert.Equal(t, int64(49), user.Balance)
	assert.Empty(t, user.Collection)
}

func TestBuyPackDebitsAndAddsCards(t *testing.T) {
	env := newEngineEnv(t)
	env.createUser(t, "momo", 500)
	env.engine.Seed(7)
	ctx := context.Background()

	drawn, err := env.engine.BuyPack(ctx, "momo", "starter")
	require.NoError(t, err)
	require.Len(t, drawn, 5, "every starter tier has a non-empty pool")

	user, err := env.users.GetByUsername(ctx, "momo")
	require.NoError(t, err)
	assert.Equal(t, int64(450), user.Balance)
	assert.Len(t, user.Collection, 5)
	assert.Equal(t, int64(50), user.Exp)
	for i, c := range drawn {
		assert.Equal(t, c.ID, user.Collection[i])
	}
}

func TestBuyPackUnknownPack(t *testing.T) {
	env := newEngineEnv(t)
	env.createUser(t, "momo", 500)

	_, err := env.engine.BuyPack(context.Background(), "momo", "nope")
	assert.Error(t, err)
}
