package models

import (
	"time"
)

const (
	AccessFree    = "free"
	AccessPremium = "premium"

	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Creator struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type Lesson struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Emotion     string    `json:"emotion"`
	AccessLevel string    `json:"accessLevel"` // free or premium
	Visibility  string    `json:"visibility"`  // public or private
	Content     string    `json:"content"`
	Image       string    `json:"image,omitempty"`
	Creator     Creator   `json:"creator"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Reactions   int       `json:"reactions"`
	Saves       int       `json:"saves"`
	ReactedBy   []string  `json:"-"`
	SavedBy     []string  `json:"-"`
	IsFeatured  bool      `json:"isFeatured"`
	IsReviewed  bool      `json:"isReviewed"`
	Locked      bool      `json:"locked,omitempty"`
	// Reacted and Saved describe the requesting viewer only; the membership
	// sets themselves never leave the server.
	Reacted bool `json:"reacted"`
	Saved   bool `json:"saved"`
}

// LessonSort selects the ordering of a lesson listing.
type LessonSort int

const (
	SortNewest LessonSort = iota
	SortRecentlyUpdated
)

// LessonFilter narrows a lesson listing. Empty fields do not filter.
type LessonFilter struct {
	Email      string
	Title      string
	Category   string
	Emotion    string
	Visibility string
	SavedBy    string
	Featured   bool
	Sort       LessonSort
	Limit      int
}

// LessonPatch is a partial update; nil fields are left untouched.
type LessonPatch struct {
	Title       *string
	Content     *string
	Category    *string
	Emotion     *string
	AccessLevel *string
	Visibility  *string
	Image       *string
	UpdatedAt   time.Time
}

// EngagementSet names one of the membership sets kept on a lesson.
type EngagementSet string

const (
	SetReactions EngagementSet = "reactions"
	SetSaves     EngagementSet = "saves"
)

// ModerationFlag names a boolean admin flag on a lesson.
type ModerationFlag string

const (
	FlagFeatured ModerationFlag = "isFeatured"
	FlagReviewed ModerationFlag = "isReviewed"
)

// ToggleResult reports the outcome of a single membership toggle.
type ToggleResult struct {
	Added bool
	Count int
}
