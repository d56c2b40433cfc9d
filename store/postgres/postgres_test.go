package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/life-lessons/api-go/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return New(db), mock
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%grief%", likePattern("grief"))
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}

func TestMalformedIDsNeverReachTheDatabase(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	_, err := s.Lessons().Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, models.ErrInvalidID)
	_, _, err = s.Lessons().AddMember(ctx, "not-a-uuid", models.SetReactions, "u1")
	assert.ErrorIs(t, err, models.ErrInvalidID)
	assert.ErrorIs(t, s.Users().Delete(ctx, "42"), models.ErrInvalidID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMemberIsOneConditionalUpdate(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE "lessons" SET .*array_append\(reacted_by.*reactions \+ 1.*WHERE .*NOT .*ANY\(reacted_by\).*RETURNING`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reactions", "reacted_by"}).
			AddRow(id.String(), 1, "{u1}"))

	count, ok, err := s.Lessons().AddMember(context.Background(), id.String(), models.SetReactions, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMemberReportsNoMatch(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE "lessons" SET .*array_remove\(saved_by.*saves - 1.*RETURNING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, ok, err := s.Lessons().RemoveMember(context.Background(), uuid.NewString(), models.SetSaves, "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsesCaseInsensitiveFilters(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "lessons" WHERE .*title ILIKE .*visibility = .*ORDER BY created_at DESC`).
		WithArgs(`%50\%%`, models.VisibilityPublic).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "title", "reacted_by", "saved_by"}).
			AddRow(id.String(), "a@example.com", "50% wiser", "{}", "{}"))

	lessons, err := s.Lessons().List(context.Background(), models.LessonFilter{
		Title:      "50%",
		Visibility: models.VisibilityPublic,
	})
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, id.String(), lessons[0].ID)
	assert.Equal(t, "50% wiser", lessons[0].Title)
	assert.Empty(t, lessons[0].ReactedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}
