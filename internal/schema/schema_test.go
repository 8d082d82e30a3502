package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDDLRendersEveryTable(t *testing.T) {
	ddl := DDL()

	assert.Contains(t, ddl, "CREATE TABLE public.referee (")
	assert.Contains(t, ddl, "CREATE TABLE public.season (")
	assert.Contains(t, ddl, "CREATE TABLE public.team (")
	assert.Contains(t, ddl, `CREATE TABLE public."match" (`)
	assert.Equal(t, len(Tables), strings.Count(ddl, "CREATE TABLE"))
}

func TestDDLQuotesReservedIdentifiers(t *testing.T) {
	ddl := DDL()

	assert.NotContains(t, ddl, "CREATE TABLE public.match (", "match must be quoted")
	assert.Contains(t, ddl, `"name" varchar NOT NULL`)
	assert.NotContains(t, ddl, "\n\tname varchar", "name must be quoted")
}

func TestDDLNullability(t *testing.T) {
	ddl := DDL()

	assert.Contains(t, ddl, "season_name varchar NOT NULL")
	assert.Contains(t, ddl, "referee_name varchar NULL")
	assert.Contains(t, ddl, "match_time time NULL")
	assert.Contains(t, ddl, "full_time_result varchar NOT NULL")
	assert.Contains(t, ddl, "bet365_home_win_odds float8 NULL")
	assert.Contains(t, ddl, "asian_handicap_line float8 NULL")
}

func TestDDLCarriesForeignKeys(t *testing.T) {
	ddl := DDL()

	for _, fk := range []string{
		`FOREIGN KEY (home_team_name) REFERENCES public.team("name")`,
		`FOREIGN KEY (away_team_name) REFERENCES public.team("name")`,
		`FOREIGN KEY (referee_name) REFERENCES public.referee("name")`,
		`FOREIGN KEY (season_name) REFERENCES public.season("name")`,
	} {
		assert.Contains(t, ddl, fk)
	}
}

func TestDDLIsDeterministic(t *testing.T) {
	assert.Equal(t, DDL(), DDL())
}

func TestProvisioningSQLAddsNameIndexes(t *testing.T) {
	sqlText := ProvisioningSQL()

	assert.True(t, strings.HasPrefix(sqlText, DDL()), "provisioning starts with the table DDL")
	for _, table := range []string{"referee", "season", "team"} {
		assert.Contains(t, sqlText,
			"CREATE UNIQUE INDEX IF NOT EXISTS "+table+`_name_key ON public.`+table+` ("name");`)
	}
}

func TestDescriptorEmbedsDDL(t *testing.T) {
	d := Descriptor()
	assert.True(t, strings.HasPrefix(d, "The schema is: \n"))
	assert.Contains(t, d, DDL())
}

func TestMatchColumnsUnique(t *testing.T) {
	var match *Table
	for i := range Tables {
		if Tables[i].Name == "match" {
			match = &Tables[i]
		}
	}
	require.NotNil(t, match)

	seen := make(map[string]bool, len(match.Columns))
	for _, c := range match.Columns {
		assert.False(t, seen[c.Name], "duplicate column %q", c.Name)
		seen[c.Name] = true
	}
	assert.True(t, seen["avg_asian_handicap_away_odds"])
	assert.True(t, seen["max_under_2_5_odds"])
	assert.True(t, seen["away_shots_on_target"])
}
