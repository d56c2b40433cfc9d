// Package memory is an in-process implementation of the store contracts. It
// is safe for concurrent use and backs tests and STORE_DRIVER=memory runs.
package memory

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/life-lessons/api-go/models"
	"github.com/life-lessons/api-go/store"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// Store keeps every collection behind a single lock so that each method is
// atomic in the same way a single document update is.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	lessons []*models.Lesson
	users   []*models.User
	reports []*models.Report
}

var (
	_ store.Store       = (*Store)(nil)
	_ store.LessonStore = (*lessonStore)(nil)
	_ store.UserStore   = (*userStore)(nil)
	_ store.ReportStore = (*reportStore)(nil)
)

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) Lessons() store.LessonStore { return &lessonStore{s} }
func (s *Store) Users() store.UserStore     { return &userStore{s} }
func (s *Store) Reports() store.ReportStore { return &reportStore{s} }

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

func (s *Store) newIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%024x", id)
}

func checkID(id string) error {
	if !idPattern.MatchString(id) {
		return models.ErrInvalidID
	}
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func copyLesson(l *models.Lesson) models.Lesson {
	out := *l
	out.ReactedBy = append([]string{}, l.ReactedBy...)
	out.SavedBy = append([]string{}, l.SavedBy...)
	return out
}

// Lessons ---------------------------------------------------------------------

type lessonStore struct{ s *Store }

func (ls *lessonStore) findLocked(id string) (*models.Lesson, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	for _, l := range ls.s.lessons {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, models.ErrNotFound
}

func matches(l *models.Lesson, f models.LessonFilter) bool {
	if f.Email != "" && l.Email != f.Email {
		return false
	}
	if f.Title != "" && !containsFold(l.Title, f.Title) {
		return false
	}
	if f.Category != "" && !containsFold(l.Category, f.Category) {
		return false
	}
	if f.Emotion != "" && !containsFold(l.Emotion, f.Emotion) {
		return false
	}
	if f.Visibility != "" && l.Visibility != f.Visibility {
		return false
	}
	if f.Featured && !l.IsFeatured {
		return false
	}
	if f.SavedBy != "" && !contains(l.SavedBy, f.SavedBy) {
		return false
	}
	return true
}

func (ls *lessonStore) List(_ context.Context, f models.LessonFilter) ([]models.Lesson, error) {
	ls.s.mu.RLock()
	defer ls.s.mu.RUnlock()

	out := []models.Lesson{}
	// Walk newest insertion first so equal timestamps keep a stable order.
	for i := len(ls.s.lessons) - 1; i >= 0; i-- {
		if l := ls.s.lessons[i]; matches(l, f) {
			out = append(out, copyLesson(l))
		}
	}

	switch f.Sort {
	case models.SortRecentlyUpdated:
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
				return out[i].UpdatedAt.After(out[j].UpdatedAt)
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (ls *lessonStore) Get(_ context.Context, id string) (*models.Lesson, error) {
	ls.s.mu.RLock()
	defer ls.s.mu.RUnlock()

	l, err := ls.findLocked(id)
	if err != nil {
		return nil, err
	}
	out := copyLesson(l)
	return &out, nil
}

func (ls *lessonStore) Create(_ context.Context, lesson *models.Lesson) error {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	lesson.ID = ls.s.newIDLocked()
	stored := copyLesson(lesson)
	ls.s.lessons = append(ls.s.lessons, &stored)
	return nil
}

func (ls *lessonStore) Update(_ context.Context, id string, p models.LessonPatch) (*models.Lesson, error) {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	l, err := ls.findLocked(id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Content != nil {
		l.Content = *p.Content
	}
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.Emotion != nil {
		l.Emotion = *p.Emotion
	}
	if p.AccessLevel != nil {
		l.AccessLevel = *p.AccessLevel
	}
	if p.Visibility != nil {
		l.Visibility = *p.Visibility
	}
	if p.Image != nil {
		l.Image = *p.Image
	}
	l.UpdatedAt = p.UpdatedAt
	out := copyLesson(l)
	return &out, nil
}

func contains(set []string, member string) bool {
	for _, m := range set {
		if m == member {
			return true
		}
	}
	return false
}

func setFor(l *models.Lesson, set models.EngagementSet) (*[]string, *int, error) {
	switch set {
	case models.SetReactions:
		return &l.ReactedBy, &l.Reactions, nil
	case models.SetSaves:
		return &l.SavedBy, &l.Saves, nil
	}
	return nil, nil, fmt.Errorf("unknown engagement set %q", set)
}

func (ls *lessonStore) AddMember(_ context.Context, id string, set models.EngagementSet, member string) (int, bool, error) {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	l, err := ls.findLocked(id)
	if err == models.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	members, counter, err := setFor(l, set)
	if err != nil {
		return 0, false, err
	}
	if contains(*members, member) {
		return *counter, false, nil
	}
	*members = append(*members, member)
	*counter++
	return *counter, true, nil
}

func (ls *lessonStore) RemoveMember(_ context.Context, id string, set models.EngagementSet, member string) (int, bool, error) {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	l, err := ls.findLocked(id)
	if err == models.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	members, counter, err := setFor(l, set)
	if err != nil {
		return 0, false, err
	}
	if !contains(*members, member) {
		return *counter, false, nil
	}
	kept := (*members)[:0]
	for _, m := range *members {
		if m != member {
			kept = append(kept, m)
		}
	}
	*members = kept
	*counter--
	return *counter, true, nil
}

func (ls *lessonStore) SetFlag(_ context.Context, id string, flag models.ModerationFlag, value bool) (*models.Lesson, error) {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	l, err := ls.findLocked(id)
	if err != nil {
		return nil, err
	}
	switch flag {
	case models.FlagFeatured:
		l.IsFeatured = value
	case models.FlagReviewed:
		l.IsReviewed = value
	default:
		return nil, fmt.Errorf("%w: unknown flag %q", models.ErrInvalidInput, flag)
	}
	out := copyLesson(l)
	return &out, nil
}

func (ls *lessonStore) Delete(_ context.Context, id string) error {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	if err := checkID(id); err != nil {
		return err
	}
	for i, l := range ls.s.lessons {
		if l.ID == id {
			ls.s.lessons = append(ls.s.lessons[:i], ls.s.lessons[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (ls *lessonStore) Count(context.Context) (int64, error) {
	ls.s.mu.RLock()
	defer ls.s.mu.RUnlock()
	return int64(len(ls.s.lessons)), nil
}

// Users -----------------------------------------------------------------------

type userStore struct{ s *Store }

func (us *userStore) byEmailLocked(email string) *models.User {
	for _, u := range us.s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (us *userStore) List(context.Context) ([]models.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	out := make([]models.User, 0, len(us.s.users))
	for _, u := range us.s.users {
		out = append(out, *u)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (us *userStore) Get(_ context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	for _, u := range us.s.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (us *userStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	u := us.byEmailLocked(email)
	if u == nil {
		return nil, models.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (us *userStore) Create(_ context.Context, user *models.User) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	if us.byEmailLocked(user.Email) != nil {
		return models.ErrAlreadyExists
	}
	user.ID = us.s.newIDLocked()
	stored := *user
	us.s.users = append(us.s.users, &stored)
	return nil
}

func (us *userStore) mutate(email string, fn func(u *models.User)) (*models.User, error) {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	u := us.byEmailLocked(email)
	if u == nil {
		return nil, models.ErrNotFound
	}
	fn(u)
	out := *u
	return &out, nil
}

func (us *userStore) UpdateProfile(_ context.Context, email, name, photoURL string) (*models.User, error) {
	return us.mutate(email, func(u *models.User) {
		u.Name = name
		u.PhotoURL = photoURL
	})
}

func (us *userStore) SetRole(_ context.Context, email, role string) (*models.User, error) {
	return us.mutate(email, func(u *models.User) { u.Role = role })
}

func (us *userStore) MarkPremium(_ context.Context, email string, g models.PremiumGrant) (*models.User, error) {
	return us.mutate(email, func(u *models.User) {
		paidAt := g.PaidAt
		u.IsPremium = true
		u.PaymentStatus = models.PaymentStatusPaid
		u.PaidAt = &paidAt
		u.PaymentSessionID = g.SessionID
	})
}

func (us *userStore) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	for i, u := range us.s.users {
		if u.ID == id {
			us.s.users = append(us.s.users[:i], us.s.users[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (us *userStore) Count(context.Context) (int64, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	return int64(len(us.s.users)), nil
}

func (us *userStore) CountPremium(context.Context) (int64, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	var n int64
	for _, u := range us.s.users {
		if u.IsPremium {
			n++
		}
	}
	return n, nil
}

// Reports ---------------------------------------------------------------------

type reportStore struct{ s *Store }

func (rs *reportStore) List(context.Context) ([]models.Report, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	out := make([]models.Report, 0, len(rs.s.reports))
	for i := len(rs.s.reports) - 1; i >= 0; i-- {
		out = append(out, *rs.s.reports[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (rs *reportStore) findLocked(lessonID, reporterUserID string) *models.Report {
	for _, r := range rs.s.reports {
		if r.LessonID == lessonID && r.ReporterUserID == reporterUserID {
			return r
		}
	}
	return nil
}

func (rs *reportStore) FindByLessonAndReporter(_ context.Context, lessonID, reporterUserID string) (*models.Report, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	r := rs.findLocked(lessonID, reporterUserID)
	if r == nil {
		return nil, models.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (rs *reportStore) Create(_ context.Context, report *models.Report) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	if rs.findLocked(report.LessonID, report.ReporterUserID) != nil {
		return models.ErrAlreadyExists
	}
	report.ID = rs.s.newIDLocked()
	stored := *report
	rs.s.reports = append(rs.s.reports, &stored)
	return nil
}

func (rs *reportStore) Count(context.Context) (int64, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()
	return int64(len(rs.s.reports)), nil
}
