// Package schema is the single source of truth for the queryable database
// layout. The table definitions below drive both the DDL handed to the SQL
// generation prompt and the provisioning script, so the prompt can never
// drift from the live schema.
package schema

import (
	"fmt"
	"strings"
)

// Column describes one column of a queryable table.
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// Table describes one queryable table with its constraints.
type Table struct {
	Name        string
	Columns     []Column
	Constraints []string
}

// EarliestSeason is the first Premier League season present in the dataset.
const EarliestSeason = "1993/94"

// SeasonNameFormat is the canonical season identifier format.
const SeasonNameFormat = "English Premier League YYYY/YY Season"

// Tables lists every queryable table in prompt/provisioning order.
var Tables = []Table{
	{
		Name: "referee",
		Columns: []Column{
			{Name: "id", Type: "serial4"},
			{Name: "name", Type: "varchar"},
		},
		Constraints: []string{"CONSTRAINT referee_pkey PRIMARY KEY (id)"},
	},
	{
		Name: "season",
		Columns: []Column{
			{Name: "id", Type: "serial4"},
			{Name: "name", Type: "varchar"},
		},
		Constraints: []string{"CONSTRAINT season_pkey PRIMARY KEY (id)"},
	},
	{
		Name: "team",
		Columns: []Column{
			{Name: "id", Type: "serial4"},
			{Name: "name", Type: "varchar"},
		},
		Constraints: []string{"CONSTRAINT team_pkey PRIMARY KEY (id)"},
	},
	{
		Name:    "match",
		Columns: matchColumns(),
		Constraints: []string{
			"CONSTRAINT match_pkey PRIMARY KEY (id)",
			`CONSTRAINT match_away_team_name_fkey FOREIGN KEY (away_team_name) REFERENCES public.team("name")`,
			`CONSTRAINT match_home_team_name_fkey FOREIGN KEY (home_team_name) REFERENCES public.team("name")`,
			`CONSTRAINT match_referee_name_fkey FOREIGN KEY (referee_name) REFERENCES public.referee("name")`,
			`CONSTRAINT match_season_name_fkey FOREIGN KEY (season_name) REFERENCES public.season("name")`,
		},
	},
}

func matchColumns() []Column {
	cols := []Column{
		{Name: "id", Type: "serial4"},
		{Name: "season_name", Type: "varchar"},
		{Name: "division", Type: "varchar"},
		{Name: "match_date", Type: "date"},
		{Name: "match_time", Type: "time", Nullable: true},
		{Name: "home_team_name", Type: "varchar"},
		{Name: "away_team_name", Type: "varchar"},
		{Name: "referee_name", Type: "varchar", Nullable: true},
		{Name: "full_time_home_goals", Type: "int4"},
		{Name: "full_time_away_goals", Type: "int4"},
		{Name: "full_time_result", Type: "varchar"},
		{Name: "half_time_home_goals", Type: "int4", Nullable: true},
		{Name: "half_time_away_goals", Type: "int4", Nullable: true},
		{Name: "half_time_result", Type: "varchar", Nullable: true},
	}
	for _, stat := range []string{
		"shots", "shots_on_target", "fouls", "corners", "yellow_cards", "red_cards",
	} {
		cols = append(cols,
			Column{Name: "home_" + stat, Type: "int4", Nullable: true},
			Column{Name: "away_" + stat, Type: "int4", Nullable: true},
		)
	}
	for _, book := range []string{
		"bet365", "bet_and_win", "interwetten", "pinnacle", "william_hill", "vc_bet", "max", "avg",
	} {
		cols = append(cols,
			Column{Name: book + "_home_win_odds", Type: "float8", Nullable: true},
			Column{Name: book + "_draw_odds", Type: "float8", Nullable: true},
			Column{Name: book + "_away_win_odds", Type: "float8", Nullable: true},
		)
	}
	for _, book := range []string{"bet365", "pinnacle", "max", "avg"} {
		cols = append(cols,
			Column{Name: book + "_over_2_5_odds", Type: "float8", Nullable: true},
			Column{Name: book + "_under_2_5_odds", Type: "float8", Nullable: true},
		)
	}
	cols = append(cols, Column{Name: "asian_handicap_line", Type: "float8", Nullable: true})
	for _, book := range []string{"bet365", "pinnacle", "max", "avg"} {
		cols = append(cols,
			Column{Name: book + "_asian_handicap_home_odds", Type: "float8", Nullable: true},
			Column{Name: book + "_asian_handicap_away_odds", Type: "float8", Nullable: true},
		)
	}
	return cols
}

// DDL renders the CREATE TABLE statements for every queryable table.
// The output is deterministic: same input tables, same text.
func DDL() string {
	var b strings.Builder
	for i, t := range Tables {
		if i > 0 {
			b.WriteString("\n")
		}
		writeTable(&b, t)
	}
	return b.String()
}

func writeTable(b *strings.Builder, t Table) {
	name := t.Name
	// "match" collides with a reserved word, quote it the way pg_dump would.
	if name == "match" {
		name = `"match"`
	}
	fmt.Fprintf(b, "CREATE TABLE public.%s (\n", name)
	for _, c := range t.Columns {
		col := c.Name
		if col == "name" {
			col = `"name"`
		}
		null := "NOT NULL"
		if c.Nullable {
			null = "NULL"
		}
		fmt.Fprintf(b, "\t%s %s %s,\n", col, c.Type, null)
	}
	for i, con := range t.Constraints {
		sep := ","
		if i == len(t.Constraints)-1 {
			sep = ""
		}
		fmt.Fprintf(b, "\t%s%s\n", con, sep)
	}
	b.WriteString(");\n")
}

// uniqueIndexes back the name-keyed upserts; the names are the join keys
// used by generated SQL.
var uniqueIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS referee_name_key ON public.referee ("name");`,
	`CREATE UNIQUE INDEX IF NOT EXISTS season_name_key ON public.season ("name");`,
	`CREATE UNIQUE INDEX IF NOT EXISTS team_name_key ON public.team ("name");`,
}

// ProvisioningSQL is the full provisioning script: the table DDL plus the
// unique name indexes. scripts/schema.sql is this output checked in.
func ProvisioningSQL() string {
	var b strings.Builder
	b.WriteString(DDL())
	b.WriteString("\n")
	for _, idx := range uniqueIndexes {
		b.WriteString(idx)
		b.WriteString("\n")
	}
	return b.String()
}

// Descriptor is the full text block grounding every SQL generation prompt:
// domain vocabulary and business rules followed by the rendered DDL.
func Descriptor() string {
	var b strings.Builder
	b.WriteString("The schema is: \n")
	b.WriteString(DDL())
	return b.String()
}
