package history

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("history entry not found")
	ErrInvalidEntry = errors.New("comicId and chapterId are required")
)

// Entry records one chapter a user opened.
type Entry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	ComicID      string    `json:"comicId"`
	ChapterID    string    `json:"chapterId"`
	ComicTitle   string    `json:"comicTitle"`
	ChapterTitle string    `json:"chapterTitle"`
	ReadAt       time.Time `json:"readAt"`
}

type AddRequest struct {
	ComicID      string `json:"comicId"`
	ChapterID    string `json:"chapterId"`
	ComicTitle   string `json:"comicTitle"`
	ChapterTitle string `json:"chapterTitle"`
}
