package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/life-lessons/api-go/models"
)

type lessonStore struct {
	db *gorm.DB
}

func (s *lessonStore) List(ctx context.Context, f models.LessonFilter) ([]models.Lesson, error) {
	q := s.db.WithContext(ctx).Model(&lessonRow{})
	if f.Email != "" {
		q = q.Where("email = ?", f.Email)
	}
	if f.Title != "" {
		q = q.Where("title ILIKE ?", likePattern(f.Title))
	}
	if f.Category != "" {
		q = q.Where("category ILIKE ?", likePattern(f.Category))
	}
	if f.Emotion != "" {
		q = q.Where("emotion ILIKE ?", likePattern(f.Emotion))
	}
	if f.Visibility != "" {
		q = q.Where("visibility = ?", f.Visibility)
	}
	if f.SavedBy != "" {
		q = q.Where("? = ANY(saved_by)", f.SavedBy)
	}
	if f.Featured {
		q = q.Where("is_featured = ?", true)
	}

	switch f.Sort {
	case models.SortRecentlyUpdated:
		q = q.Order("updated_at DESC").Order("created_at DESC")
	default:
		q = q.Order("created_at DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []lessonRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	lessons := make([]models.Lesson, 0, len(rows))
	for i := range rows {
		lessons = append(lessons, rows[i].toDomain())
	}
	return lessons, nil
}

func (s *lessonStore) Get(ctx context.Context, id string) (*models.Lesson, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var row lessonRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", uid).Error; err != nil {
		return nil, notFound(err)
	}
	lesson := row.toDomain()
	return &lesson, nil
}

func (s *lessonStore) Create(ctx context.Context, lesson *models.Lesson) error {
	row := toLessonRow(lesson)
	row.ID = uuid.New()
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert lesson: %w", err)
	}
	lesson.ID = row.ID.String()
	return nil
}

// updateReturning applies values to the rows matched by where and scans the
// updated row back. It reports false when nothing matched. UpdateColumns
// skips the automatic updated_at stamp.
func (s *lessonStore) updateReturning(ctx context.Context, values map[string]any, where string, args ...any) (*lessonRow, bool, error) {
	var row lessonRow
	res := s.db.WithContext(ctx).Model(&row).
		Clauses(clause.Returning{}).
		Where(where, args...).
		UpdateColumns(values)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &row, res.RowsAffected > 0, nil
}

func (s *lessonStore) Update(ctx context.Context, id string, p models.LessonPatch) (*models.Lesson, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	values := map[string]any{"updated_at": p.UpdatedAt}
	if p.Title != nil {
		values["title"] = *p.Title
	}
	if p.Content != nil {
		values["content"] = *p.Content
	}
	if p.Category != nil {
		values["category"] = *p.Category
	}
	if p.Emotion != nil {
		values["emotion"] = *p.Emotion
	}
	if p.AccessLevel != nil {
		values["access_level"] = *p.AccessLevel
	}
	if p.Visibility != nil {
		values["visibility"] = *p.Visibility
	}
	if p.Image != nil {
		values["image"] = *p.Image
	}

	row, ok, err := s.updateReturning(ctx, values, "id = ?", uid)
	if err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	if !ok {
		return nil, models.ErrNotFound
	}
	lesson := row.toDomain()
	return &lesson, nil
}

func engagementColumns(set models.EngagementSet) (members, counter string, err error) {
	switch set {
	case models.SetReactions:
		return "reacted_by", "reactions", nil
	case models.SetSaves:
		return "saved_by", "saves", nil
	}
	return "", "", fmt.Errorf("unknown engagement set %q", set)
}

func (s *lessonStore) AddMember(ctx context.Context, id string, set models.EngagementSet, member string) (int, bool, error) {
	uid, err := parseID(id)
	if err != nil {
		return 0, false, err
	}
	membersCol, counterCol, err := engagementColumns(set)
	if err != nil {
		return 0, false, err
	}

	row, ok, err := s.updateReturning(ctx, map[string]any{
		membersCol: gorm.Expr("array_append("+membersCol+", ?)", member),
		counterCol: gorm.Expr(counterCol + " + 1"),
	}, "id = ? AND NOT (? = ANY("+membersCol+"))", uid, member)
	if err != nil || !ok {
		return 0, false, err
	}
	return counterOf(row, set), true, nil
}

func (s *lessonStore) RemoveMember(ctx context.Context, id string, set models.EngagementSet, member string) (int, bool, error) {
	uid, err := parseID(id)
	if err != nil {
		return 0, false, err
	}
	membersCol, counterCol, err := engagementColumns(set)
	if err != nil {
		return 0, false, err
	}

	row, ok, err := s.updateReturning(ctx, map[string]any{
		membersCol: gorm.Expr("array_remove("+membersCol+", ?)", member),
		counterCol: gorm.Expr(counterCol + " - 1"),
	}, "id = ? AND ? = ANY("+membersCol+")", uid, member)
	if err != nil || !ok {
		return 0, false, err
	}
	return counterOf(row, set), true, nil
}

func counterOf(row *lessonRow, set models.EngagementSet) int {
	if set == models.SetReactions {
		return row.Reactions
	}
	return row.Saves
}

func (s *lessonStore) SetFlag(ctx context.Context, id string, flag models.ModerationFlag, value bool) (*models.Lesson, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var col string
	switch flag {
	case models.FlagFeatured:
		col = "is_featured"
	case models.FlagReviewed:
		col = "is_reviewed"
	default:
		return nil, fmt.Errorf("%w: unknown flag %q", models.ErrInvalidInput, flag)
	}

	row, ok, err := s.updateReturning(ctx, map[string]any{col: value}, "id = ?", uid)
	if err != nil {
		return nil, fmt.Errorf("set lesson flag: %w", err)
	}
	if !ok {
		return nil, models.ErrNotFound
	}
	lesson := row.toDomain()
	return &lesson, nil
}

func (s *lessonStore) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(&lessonRow{}, "id = ?", uid)
	if res.Error != nil {
		return fmt.Errorf("delete lesson: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *lessonStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&lessonRow{}).Count(&n).Error
	return n, err
}
