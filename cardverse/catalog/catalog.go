package catalog

// Rarity is one of the four ordered card tiers.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// Rarities lists all tiers in ascending order. Pack draws walk this order
// when resolving a roll against the probability table.
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

type Card struct {
	ID          string  `toml:"id"`
	Name        string  `toml:"name"`
	Description string  `toml:"description"`
	Rarity      Rarity  `toml:"rarity"`
	ImageURL    string  `toml:"image_url"`
	Source      string  `toml:"source,omitempty"`
	PowerLevel  int     `toml:"power_level,omitempty"`
}

// Probabilities maps each rarity to its draw chance for a pack. The four
// fields must sum to 1.0.
type Probabilities struct {
	Common    float64 `toml:"common"`
	Rare      float64 `toml:"rare"`
	Epic      float64 `toml:"epic"`
	Legendary float64 `toml:"legendary"`
}

func (p Probabilities) For(r Rarity) float64 {
	switch r {
	case RarityCommon:
		return p.Common
	case RarityRare:
		return p.Rare
	case RarityEpic:
		return p.Epic
	case RarityLegendary:
		return p.Legendary
	}
	return 0
}

func (p Probabilities) Sum() float64 {
	return p.Common + p.Rare + p.Epic + p.Legendary
}

type Pack struct {
	ID            string        `toml:"id"`
	MerchantID    string        `toml:"merchant_id"`
	Name          string        `toml:"name"`
	Cost          int64         `toml:"cost"`
	CardCount     int           `toml:"card_count"`
	Probabilities Probabilities `toml:"probabilities"`
}

type Task struct {
	ID          string `toml:"id"`
	MerchantID  string `toml:"merchant_id"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Reward      int64  `toml:"reward"`
	Difficulty  string `toml:"difficulty"`
	IsTraining  bool   `toml:"is_training,omitempty"`
}

type DialogueLine struct {
	Speaker   string `toml:"speaker"`
	Text      string `toml:"text"`
	AvatarURL string `toml:"avatar_url,omitempty"`
}

type StoryChapter struct {
	ID          string         `toml:"id"`
	Title       string         `toml:"title"`
	Description string         `toml:"description"`
	ImageURL    string         `toml:"image_url"`
	Reward      int64          `toml:"reward"`
	Dialogue    []DialogueLine `toml:"dialogue"`
}

type Merchant struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	ImageURL    string `toml:"image_url"`
}

type Achievement struct {
	ID          string `toml:"id"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Icon        string `toml:"icon"`
}

// Catalog is the immutable reference data the engine reads. It is loaded
// once at startup and never mutated.
type Catalog struct {
	Cards        []Card         `toml:"cards"`
	Packs        []Pack         `toml:"packs"`
	Tasks        []Task         `toml:"tasks"`
	Chapters     []StoryChapter `toml:"chapters"`
	Merchants    []Merchant     `toml:"merchants"`
	Achievements []Achievement  `toml:"achievements"`
}

func (c *Catalog) Card(id string) (Card, bool) {
	for _, card := range c.Cards {
		if card.ID == id {
			return card, true
		}
	}
	return Card{}, false
}

func (c *Catalog) Pack(id string) (Pack, bool) {
	for _, pack := range c.Packs {
		if pack.ID == id {
			return pack, true
		}
	}
	return Pack{}, false
}

func (c *Catalog) Task(id string) (Task, bool) {
	for _, task := range c.Tasks {
		if task.ID == id {
			return task, true
		}
	}
	return Task{}, false
}

func (c *Catalog) Chapter(id string) (StoryChapter, bool) {
	for _, ch := range c.Chapters {
		if ch.ID == id {
			return ch, true
		}
	}
	return StoryChapter{}, false
}

// ChapterIndex returns the position of a chapter in catalog order, or -1.
func (c *Catalog) ChapterIndex(id string) int {
	for i, ch := range c.Chapters {
		if ch.ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) Achievement(id string) (Achievement, bool) {
	for _, a := range c.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
