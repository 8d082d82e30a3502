package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/premstats/premstats/internal/models"
	"github.com/premstats/premstats/internal/schema"
)

// ErrNotFound is returned when an entity id does not exist.
var ErrNotFound = errors.New("not found")

// NamedEntity is a row of one of the name-keyed lookup tables
// (season, team, referee).
type NamedEntity struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// NamedStore provides CRUD over one name-keyed lookup table.
type NamedStore struct {
	s     *Store
	table string
}

func (s *Store) Seasons() NamedStore  { return NamedStore{s: s, table: "season"} }
func (s *Store) Teams() NamedStore    { return NamedStore{s: s, table: "team"} }
func (s *Store) Referees() NamedStore { return NamedStore{s: s, table: "referee"} }

func (n NamedStore) Create(ctx context.Context, name string) (*NamedEntity, error) {
	q := fmt.Sprintf(`INSERT INTO %s ("name") VALUES ($1) RETURNING id`, n.table)
	var id int64
	if err := n.s.db.QueryRowxContext(ctx, q, name).Scan(&id); err != nil {
		return nil, fmt.Errorf("create %s: %w", n.table, err)
	}
	return &NamedEntity{ID: id, Name: name}, nil
}

// Upsert inserts the name if absent and returns the stored row either way.
// Used by the loader, which replays the same seasons and teams many times.
func (n NamedStore) Upsert(ctx context.Context, name string) (*NamedEntity, error) {
	q := fmt.Sprintf(`INSERT INTO %s ("name") VALUES ($1)
		ON CONFLICT ("name") DO UPDATE SET "name" = EXCLUDED."name"
		RETURNING id`, n.table)
	var id int64
	if err := n.s.db.QueryRowxContext(ctx, q, name).Scan(&id); err != nil {
		return nil, fmt.Errorf("upsert %s: %w", n.table, err)
	}
	return &NamedEntity{ID: id, Name: name}, nil
}

func (n NamedStore) List(ctx context.Context, limit, offset int) ([]NamedEntity, error) {
	q := fmt.Sprintf(`SELECT id, "name" FROM %s ORDER BY id LIMIT $1 OFFSET $2`, n.table)
	out := []NamedEntity{}
	if err := n.s.db.SelectContext(ctx, &out, q, limit, offset); err != nil {
		return nil, fmt.Errorf("list %s: %w", n.table, err)
	}
	return out, nil
}

func (n NamedStore) Get(ctx context.Context, id int64) (*NamedEntity, error) {
	q := fmt.Sprintf(`SELECT id, "name" FROM %s WHERE id = $1`, n.table)
	var e NamedEntity
	if err := n.s.db.GetContext(ctx, &e, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", n.table, err)
	}
	return &e, nil
}

func (n NamedStore) UpdateName(ctx context.Context, id int64, name string) (*NamedEntity, error) {
	q := fmt.Sprintf(`UPDATE %s SET "name" = $1 WHERE id = $2`, n.table)
	res, err := n.s.db.ExecContext(ctx, q, name, id)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", n.table, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrNotFound
	}
	return &NamedEntity{ID: id, Name: name}, nil
}

func (n NamedStore) Delete(ctx context.Context, id int64) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, n.table)
	res, err := n.s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", n.table, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// matchColumns are the insertable match columns, taken from the schema
// source of truth so the statements below cannot drift from the DDL.
var matchColumns = func() []string {
	for _, t := range schema.Tables {
		if t.Name != "match" {
			continue
		}
		cols := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			if c.Name != "id" {
				cols = append(cols, c.Name)
			}
		}
		return cols
	}
	panic("schema: match table missing")
}()

var (
	insertMatchQuery = fmt.Sprintf(`INSERT INTO "match" (%s) VALUES (:%s) RETURNING id`,
		strings.Join(matchColumns, ", "), strings.Join(matchColumns, ", :"))
	updateMatchQuery = fmt.Sprintf(`UPDATE "match" SET %s WHERE id = :id`, matchSetClause())
)

func matchSetClause() string {
	parts := make([]string, len(matchColumns))
	for i, c := range matchColumns {
		parts[i] = fmt.Sprintf("%s = :%s", c, c)
	}
	return strings.Join(parts, ", ")
}

// CreateMatch inserts a match and returns it with its generated id.
func (s *Store) CreateMatch(ctx context.Context, m *models.Match) (*models.Match, error) {
	rows, err := s.db.NamedQueryContext(ctx, insertMatchQuery, m)
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, fmt.Errorf("create match: no id returned")
	}
	if err := rows.Scan(&m.ID); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return m, nil
}

// UpsertMatch updates the fixture identified by season, date and the two
// teams if it already exists, and inserts it otherwise.
func (s *Store) UpsertMatch(ctx context.Context, m *models.Match) (*models.Match, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`SELECT id FROM "match"
		 WHERE season_name = $1 AND match_date = $2 AND home_team_name = $3 AND away_team_name = $4`,
		m.SeasonName, m.MatchDate, m.HomeTeam, m.AwayTeam)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.CreateMatch(ctx, m)
	case err != nil:
		return nil, fmt.Errorf("upsert match lookup: %w", err)
	}

	m.ID = id
	return s.UpdateMatch(ctx, m)
}

func (s *Store) GetMatch(ctx context.Context, id int64) (*models.Match, error) {
	var m models.Match
	if err := s.db.GetContext(ctx, &m, `SELECT * FROM "match" WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get match: %w", err)
	}
	return &m, nil
}

func (s *Store) ListMatches(ctx context.Context, limit, offset int) ([]models.Match, error) {
	out := []models.Match{}
	err := s.db.SelectContext(ctx, &out,
		`SELECT * FROM "match" ORDER BY match_date DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateMatch(ctx context.Context, m *models.Match) (*models.Match, error) {
	res, err := s.db.NamedExecContext(ctx, updateMatchQuery, m)
	if err != nil {
		return nil, fmt.Errorf("update match: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *Store) DeleteMatch(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM "match" WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}
