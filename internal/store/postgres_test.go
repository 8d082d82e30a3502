package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premstats/premstats/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return New(sqlx.NewDb(db, "pgx"), logger), mock
}

func TestQueryRowsRunsInsideReadOnlyTx(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT home_team_name, wins FROM").
		WillReturnRows(sqlmock.NewRows([]string{"home_team_name", "wins"}).
			AddRow([]byte("Arsenal"), int64(12)).
			AddRow([]byte("Chelsea"), int64(9)))
	mock.ExpectCommit()

	rs, err := s.QueryRows(context.Background(), "SELECT home_team_name, wins FROM standings")
	require.NoError(t, err)

	assert.Equal(t, []string{"home_team_name", "wins"}, rs.Columns)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, "Arsenal", rs.Rows[0]["home_team_name"], "byte slices surface as strings")
	assert.Equal(t, int64(12), rs.Rows[0]["wins"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryRowsReleasesTxOnError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnError(errors.New(`relation "nope" does not exist`))
	mock.ExpectRollback()

	_, err := s.QueryRows(context.Background(), "SELECT * FROM nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query:")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNamedStoreUpsertReturnsStoredID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO team \("name"\) VALUES`).
		WithArgs("Arsenal").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	e, err := s.Teams().Upsert(context.Background(), "Arsenal")
	require.NoError(t, err)
	assert.Equal(t, int64(3), e.ID)
	assert.Equal(t, "Arsenal", e.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNamedStoreGetNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, "name" FROM season WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := s.Seasons().Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNamedStoreList(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, "name" FROM referee ORDER BY id LIMIT $1 OFFSET $2`)).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "M Dean").
			AddRow(int64(2), "A Taylor"))

	got, err := s.Referees().List(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, []NamedEntity{{ID: 1, Name: "M Dean"}, {ID: 2, Name: "A Taylor"}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNamedStoreUpdateMissingRow(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE team SET "name" = $1 WHERE id = $2`)).
		WithArgs("Leeds United", int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.Teams().UpdateName(context.Background(), 404, "Leeds United")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMatchScansGeneratedID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO "match"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	m := &models.Match{
		SeasonName: "English Premier League 2024/25 Season",
		Division:   "E0",
		MatchDate:  time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC),
		HomeTeam:   "Arsenal",
		AwayTeam:   "Wolverhampton Wanderers",
	}
	got, err := s.CreateMatch(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertMatchUpdatesExistingFixture(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id FROM "match"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))
	mock.ExpectExec(`UPDATE "match" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	m := &models.Match{
		SeasonName: "English Premier League 2024/25 Season",
		MatchDate:  time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC),
		HomeTeam:   "Arsenal",
		AwayTeam:   "Wolverhampton Wanderers",
	}
	got, err := s.UpsertMatch(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMatch(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "match" WHERE id`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.DeleteMatch(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMatchQueryCoversSchemaColumns(t *testing.T) {
	assert.Contains(t, insertMatchQuery, "season_name")
	assert.Contains(t, insertMatchQuery, ":avg_asian_handicap_away_odds")
	assert.NotContains(t, insertMatchQuery, "(id,", "generated id is never inserted")
	assert.Contains(t, updateMatchQuery, "WHERE id = :id")
}
