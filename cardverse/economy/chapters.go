package economy

import (
	"github.com/cardverse/cardverse/cardverse/catalog"
	"github.com/cardverse/cardverse/cardverse/database/models"
)

// ChapterStatus is the reading state of a story chapter for one user.
type ChapterStatus string

const (
	ChapterLocked    ChapterStatus = "locked"
	ChapterAvailable ChapterStatus = "available"
	ChapterCompleted ChapterStatus = "completed"
)

// ChapterState returns the status of a chapter for a user. A chapter is
// locked until the immediately preceding chapter in catalog order is
// completed; the first chapter is never locked.
func ChapterState(cat *catalog.Catalog, user *models.User, chapterID string) ChapterStatus {
	if user.CompletedChapters.Contains(chapterID) {
		return ChapterCompleted
	}

	idx := cat.ChapterIndex(chapterID)
	if idx < 0 {
		return ChapterLocked
	}
	if idx == 0 {
		return ChapterAvailable
	}

	prev := cat.Chapters[idx-1]
	if user.CompletedChapters.Contains(prev.ID) {
		return ChapterAvailable
	}
	return ChapterLocked
}
