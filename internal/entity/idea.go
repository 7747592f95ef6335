package entity

import "time"

// Idea is a short message with an optional image reference. Likes are
// attached at read time and never stored with the idea.
type Idea struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `json:"message"`
	Image     string    `json:"image"`
	Likes     []Like    `json:"likes"`
}

// Like is an anonymous endorsement of one idea.
type Like struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// WithLikes returns a copy of i carrying likes. The receiver is left as is.
func (i Idea) WithLikes(likes []Like) Idea {
	if likes == nil {
		likes = []Like{}
	}
	i.Likes = likes
	return i
}

// Results wraps every list response.
type Results[T any] struct {
	Results []T `json:"results"`
}

// NewResults never produces a null results array.
func NewResults[T any](items []T) Results[T] {
	if items == nil {
		items = []T{}
	}
	return Results[T]{Results: items}
}
