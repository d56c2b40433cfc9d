package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/life-lessons/api-go/models"
	"github.com/life-lessons/api-go/store"
)

const (
	newestLessonsLimit = 6
	maxToggleAttempts  = 3
)

// LessonInput is the client supplied shape of a new lesson. Anything else a
// client sends (ids, counters, owner) is ignored.
type LessonInput struct {
	Title       string
	Content     string
	Category    string
	Emotion     string
	AccessLevel string
	Visibility  string
	Image       string
}

// LessonUpdate carries the editable fields; nil means unchanged.
type LessonUpdate struct {
	Title       *string
	Content     *string
	Category    *string
	Emotion     *string
	AccessLevel *string
	Visibility  *string
	Image       *string
}

// LessonQuery holds the search parameters of the public listing.
type LessonQuery struct {
	SearchText string
	Category   string
	Emotion    string
	Email      string
}

type LessonService struct {
	lessons store.LessonStore
	users   store.UserStore
	now     func() time.Time
}

func NewLessonService(lessons store.LessonStore, users store.UserStore) *LessonService {
	return &LessonService{lessons: lessons, users: users, now: time.Now}
}

// viewer loads the user behind email. An unknown or empty email is an
// anonymous viewer and yields nil without error.
func (s *LessonService) viewer(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, nil
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func canReadPremium(l *models.Lesson, viewer *models.User) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsPremium || viewer.IsAdmin() || viewer.Email == l.Email
}

// visibleTo reports whether a private lesson may be shown to the viewer.
func visibleTo(l *models.Lesson, viewer *models.User, viewerEmail string) bool {
	if l.Visibility != models.VisibilityPrivate {
		return true
	}
	if viewerEmail != "" && l.Email == viewerEmail {
		return true
	}
	return viewer != nil && viewer.IsAdmin()
}

// present blanks the body of premium lessons the viewer is not entitled to
// and marks the viewer's own reaction and save.
func present(l *models.Lesson, viewer *models.User, viewerEmail string) {
	if l.AccessLevel == models.AccessPremium && !canReadPremium(l, viewer) {
		l.Content = ""
		l.Locked = true
	}
	l.Reacted = viewer != nil && slices.Contains(l.ReactedBy, viewer.ID)
	l.Saved = viewerEmail != "" && slices.Contains(l.SavedBy, viewerEmail)
}

func (s *LessonService) list(ctx context.Context, f models.LessonFilter, viewerEmail string) ([]models.Lesson, error) {
	lessons, err := s.lessons.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	viewer, err := s.viewer(ctx, viewerEmail)
	if err != nil {
		return nil, err
	}
	out := lessons[:0]
	for i := range lessons {
		if !visibleTo(&lessons[i], viewer, viewerEmail) {
			continue
		}
		present(&lessons[i], viewer, viewerEmail)
		out = append(out, lessons[i])
	}
	return out, nil
}

// List returns public lessons matching q, newest first.
func (s *LessonService) List(ctx context.Context, q LessonQuery, viewerEmail string) ([]models.Lesson, error) {
	return s.list(ctx, models.LessonFilter{
		Email:      strings.TrimSpace(q.Email),
		Title:      strings.TrimSpace(q.SearchText),
		Category:   strings.TrimSpace(q.Category),
		Emotion:    strings.TrimSpace(q.Emotion),
		Visibility: models.VisibilityPublic,
	}, viewerEmail)
}

// ListPublicByOwner returns the public lessons of one author, most recently
// edited first.
func (s *LessonService) ListPublicByOwner(ctx context.Context, email, viewerEmail string) ([]models.Lesson, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email is required", models.ErrInvalidInput)
	}
	return s.list(ctx, models.LessonFilter{
		Email:      email,
		Visibility: models.VisibilityPublic,
		Sort:       models.SortRecentlyUpdated,
	}, viewerEmail)
}

func (s *LessonService) Newest(ctx context.Context) ([]models.Lesson, error) {
	lessons, err := s.lessons.List(ctx, models.LessonFilter{Limit: newestLessonsLimit})
	if err != nil {
		return nil, fmt.Errorf("list newest lessons: %w", err)
	}
	return lessons, nil
}

func (s *LessonService) Featured(ctx context.Context, viewerEmail string) ([]models.Lesson, error) {
	return s.list(ctx, models.LessonFilter{
		Featured:   true,
		Visibility: models.VisibilityPublic,
	}, viewerEmail)
}

func (s *LessonService) Mine(ctx context.Context, email string) ([]models.Lesson, error) {
	return s.list(ctx, models.LessonFilter{Email: email}, email)
}

// Saved lists the lessons email has saved. Lessons their owners have since
// made private drop out of the list.
func (s *LessonService) Saved(ctx context.Context, email string) ([]models.Lesson, error) {
	return s.list(ctx, models.LessonFilter{SavedBy: email}, email)
}

// Get returns one lesson as viewerEmail may see it. Private lessons are
// hidden from everyone but the owner and admins.
func (s *LessonService) Get(ctx context.Context, id, viewerEmail string) (*models.Lesson, error) {
	lesson, err := s.lessons.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	viewer, err := s.viewer(ctx, viewerEmail)
	if err != nil {
		return nil, err
	}
	if !visibleTo(lesson, viewer, viewerEmail) {
		return nil, models.ErrNotFound
	}
	present(lesson, viewer, viewerEmail)
	return lesson, nil
}

func validAccessLevel(v string) bool {
	return v == models.AccessFree || v == models.AccessPremium
}

func validVisibility(v string) bool {
	return v == models.VisibilityPublic || v == models.VisibilityPrivate
}

func (in *LessonInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)
	in.Emotion = strings.TrimSpace(in.Emotion)
	in.Image = strings.TrimSpace(in.Image)
	in.AccessLevel = strings.TrimSpace(in.AccessLevel)
	in.Visibility = strings.TrimSpace(in.Visibility)

	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Content == "" {
		missing = append(missing, "content")
	}
	if in.Category == "" {
		missing = append(missing, "category")
	}
	if in.Emotion == "" {
		missing = append(missing, "emotion")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", models.ErrInvalidInput, strings.Join(missing, ", "))
	}

	if in.AccessLevel == "" {
		in.AccessLevel = models.AccessFree
	}
	if !validAccessLevel(in.AccessLevel) {
		return fmt.Errorf("%w: accessLevel must be free or premium", models.ErrInvalidInput)
	}
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPublic
	}
	if !validVisibility(in.Visibility) {
		return fmt.Errorf("%w: visibility must be public or private", models.ErrInvalidInput)
	}
	return nil
}

// Create stores a new lesson owned by principal.
func (s *LessonService) Create(ctx context.Context, principal string, in LessonInput) (*models.Lesson, error) {
	author, err := s.users.GetByEmail(ctx, principal)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account for %s", models.ErrUnauthorized, principal)
		}
		return nil, err
	}
	if strings.TrimSpace(in.AccessLevel) == models.AccessPremium && !author.IsPremium {
		return nil, fmt.Errorf("%w: premium lessons require a premium account", models.ErrForbidden)
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	lesson := &models.Lesson{
		Email:       author.Email,
		Title:       in.Title,
		Category:    in.Category,
		Emotion:     in.Emotion,
		AccessLevel: in.AccessLevel,
		Visibility:  in.Visibility,
		Content:     in.Content,
		Image:       in.Image,
		Creator: models.Creator{
			Email:    author.Email,
			Name:     author.Name,
			PhotoURL: author.PhotoURL,
		},
		CreatedAt: now,
		UpdatedAt: now,
		ReactedBy: []string{},
		SavedBy:   []string{},
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	return lesson, nil
}

func trimmedRequired(name string, v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil, fmt.Errorf("%w: %s cannot be empty", models.ErrInvalidInput, name)
	}
	return &t, nil
}

// Update applies a partial edit by the lesson's owner.
func (s *LessonService) Update(ctx context.Context, id, principal string, in LessonUpdate) (*models.Lesson, error) {
	existing, err := s.lessons.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Email != principal {
		return nil, fmt.Errorf("%w: only the author can edit a lesson", models.ErrForbidden)
	}
	author, err := s.users.GetByEmail(ctx, principal)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account for %s", models.ErrUnauthorized, principal)
		}
		return nil, err
	}
	if in.AccessLevel != nil {
		if !validAccessLevel(*in.AccessLevel) {
			return nil, fmt.Errorf("%w: accessLevel must be free or premium", models.ErrInvalidInput)
		}
		if *in.AccessLevel == models.AccessPremium && !author.IsPremium {
			return nil, fmt.Errorf("%w: premium lessons require a premium account", models.ErrForbidden)
		}
	}
	if in.Visibility != nil && !validVisibility(*in.Visibility) {
		return nil, fmt.Errorf("%w: visibility must be public or private", models.ErrInvalidInput)
	}

	patch := models.LessonPatch{
		AccessLevel: in.AccessLevel,
		Visibility:  in.Visibility,
		UpdatedAt:   s.now().UTC(),
	}
	if patch.Title, err = trimmedRequired("title", in.Title); err != nil {
		return nil, err
	}
	if patch.Content, err = trimmedRequired("content", in.Content); err != nil {
		return nil, err
	}
	if patch.Category, err = trimmedRequired("category", in.Category); err != nil {
		return nil, err
	}
	if patch.Emotion, err = trimmedRequired("emotion", in.Emotion); err != nil {
		return nil, err
	}
	if in.Image != nil {
		img := strings.TrimSpace(*in.Image)
		patch.Image = &img
	}

	updated, err := s.lessons.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	return updated, nil
}

// toggle flips member's presence in set. Each attempt is a pair of atomic
// conditional updates; when neither matches, membership changed underneath
// us or the lesson is gone.
func (s *LessonService) toggle(ctx context.Context, id string, set models.EngagementSet, member string) (models.ToggleResult, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		count, ok, err := s.lessons.RemoveMember(ctx, id, set, member)
		if err != nil {
			return models.ToggleResult{}, fmt.Errorf("toggle %s: %w", set, err)
		}
		if ok {
			return models.ToggleResult{Added: false, Count: count}, nil
		}

		count, ok, err = s.lessons.AddMember(ctx, id, set, member)
		if err != nil {
			return models.ToggleResult{}, fmt.Errorf("toggle %s: %w", set, err)
		}
		if ok {
			return models.ToggleResult{Added: true, Count: count}, nil
		}

		if _, err := s.lessons.Get(ctx, id); err != nil {
			return models.ToggleResult{}, err
		}
	}
	return models.ToggleResult{}, fmt.Errorf("toggle %s on lesson %s: membership kept changing", set, id)
}

func (s *LessonService) actor(ctx context.Context, principal string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, principal)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: no account for %s", models.ErrUnauthorized, principal)
	}
	return u, err
}

// ToggleReaction likes or unlikes a lesson for userID, which must be the
// principal's own id. An empty userID means the principal.
func (s *LessonService) ToggleReaction(ctx context.Context, id, principal, userID string) (models.ToggleResult, error) {
	u, err := s.actor(ctx, principal)
	if err != nil {
		return models.ToggleResult{}, err
	}
	if userID == "" {
		userID = u.ID
	}
	if userID != u.ID {
		return models.ToggleResult{}, fmt.Errorf("%w: cannot react on behalf of another user", models.ErrForbidden)
	}
	return s.toggle(ctx, id, models.SetReactions, userID)
}

// ToggleSave saves or unsaves a lesson for userEmail, which must be the
// principal. An empty userEmail means the principal.
func (s *LessonService) ToggleSave(ctx context.Context, id, principal, userEmail string) (models.ToggleResult, error) {
	if userEmail == "" {
		userEmail = principal
	}
	if !strings.EqualFold(userEmail, principal) {
		return models.ToggleResult{}, fmt.Errorf("%w: cannot save on behalf of another user", models.ErrForbidden)
	}
	return s.toggle(ctx, id, models.SetSaves, principal)
}

func (s *LessonService) SetFeatured(ctx context.Context, id string, featured bool) (*models.Lesson, error) {
	return s.lessons.SetFlag(ctx, id, models.FlagFeatured, featured)
}

func (s *LessonService) SetReviewed(ctx context.Context, id string, reviewed bool) (*models.Lesson, error) {
	return s.lessons.SetFlag(ctx, id, models.FlagReviewed, reviewed)
}

// Delete removes a lesson. Only its author or an admin may do so.
func (s *LessonService) Delete(ctx context.Context, id, principal string) error {
	lesson, err := s.lessons.Get(ctx, id)
	if err != nil {
		return err
	}
	if lesson.Email != principal {
		u, err := s.viewer(ctx, principal)
		if err != nil {
			return err
		}
		if u == nil || !u.IsAdmin() {
			return fmt.Errorf("%w: only the author or an admin can delete a lesson", models.ErrForbidden)
		}
	}
	return s.lessons.Delete(ctx, id)
}
