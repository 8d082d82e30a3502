// Package loader ingests football-data.co.uk season CSV files into the
// store, cleaning abbreviated team and referee names on the way in so the
// database only ever holds full canonical names.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/premstats/premstats/internal/models"
	"github.com/premstats/premstats/internal/store"
)

// teamNameCleaning maps football-data.co.uk team abbreviations to the full
// names the database keys on.
var teamNameCleaning = map[string]string{
	"Man United":    "Manchester United",
	"Man City":      "Manchester City",
	"Tottenham":     "Tottenham Hotspur",
	"Nott'm Forest": "Nottingham Forest",
}

// refereeNameCleaning expands the referee names in the CSVs to full names.
// Older season files spell the same official several ways ("G Poll",
// "G. Poll", "Poll, G."), so every observed variant is mapped.
var refereeNameCleaning = map[string]string{
	"M Oliver":            "Michael Oliver",
	"M Dean":              "Mike Dean",
	"K Friend":            "Kevin Friend",
	"G Scott":             "Graham Scott",
	"J Moss":              "Jonathan Moss",
	"C Pawson":            "Craig Pawson",
	"C Kavanagh":          "Chris Kavanagh",
	"A Marriner":          "Andre Marriner",
	"M Atkinson":          "Martin Atkinson",
	"A Taylor":            "Anthony Taylor",
	"L Mason":             "Lee Mason",
	"S Attwell":           "Stuart Attwell",
	"D Coote":             "David Coote",
	"O Langford":          "Oliver Langford",
	"P Tierney":           "Paul Tierney",
	"A Madley":            "Andy Madley",
	"P Bankes":            "Peter Bankes",
	"S Hooper":            "Simon Hooper",
	"T Robinson":          "Tim Robinson",
	"R Jones":             "Robert Jones",
	"S Scott":             "Simon Scott",
	"D England":           "Darren England",
	"M Clattenburg":       "Mark Clattenburg",
	"A Wiley":             "Alan Wiley",
	"M Halsey":            "Mark Halsey",
	"S Bennett":           "Steve Bennett",
	"C Foy":               "Chris Foy",
	"P Dowd":              "Phil Dowd",
	"M Jones":             "Mike Jones",
	"L Probert":           "Lee Probert",
	"P Walton":            "Peter Walton",
	"H Webb":              "Howard Webb",
	"St Bennett":          "Steve Bennett",
	"Mn Atkinson":         "Martin Atkinson",
	"R Madley":            "Robert Madley",
	"R East":              "Roger East",
	"N Swarbrick":         "Neil Swarbrick",
	"J Gillett":           "Jarred Gillett",
	"M Salisbury":         "Michael Salisbury",
	"J Brooks":            "John Brooks",
	"T Harrington":        "Tony Harrington",
	"M Riley":             "Mike Riley",
	"R Styles":            "Rob Styles",
	"K Stroud":            "Keith Stroud",
	"S Tanner":            "Scott Tanner",
	"U Rennie":            "Uriah Rennie",
	"M Messias":           "Matt Messias",
	"D Gallagher":         "Dermot Gallagher",
	"G Poll":              "Graham Poll",
	"B Knight":            "Barry Knight",
	"N Barry":             "Neale Barry",
	"A D'Urso":            "Andy D'Urso",
	"S Dunn":              "Steve Dunn",
	"P Crossley":          "Paul Crossley",
	"R Beeby":             "Ray Beeby",
	"D Elleray":           "David Elleray",
	"G Barber":            "Graham Barber",
	"P Durkin":            "Paul Durkin",
	"J Winter":            "Jeff Winter",
	"C Wilkes":            "Clive Wilkes",
	"D Pugh":              "David Pugh",
	"E Wolstenholme":      "Eddie Wolstenholme",
	"Rob Harris":          "Robert Harris",
	"Steve Lodge":         "Steve Lodge",
	"Peter Jones":         "Peter Jones",
	"Andy Hall":           "Andy Hall",
	"David Ellaray":       "David Elleray",
	"F Taylor":            "Frank Taylor",
	"Ian Harris":          "Ian Harris",
	"Paul Taylor":         "Paul Taylor",
	"Roy Burton":          "Roy Burton",
	"Clive Wilkes":        "Clive Wilkes",
	"Andy Yates":          "Andy Yates",
	"I Williamson":        "Ian Williamson",
	"S Barrott":           "Sam Barrott",
	"R Welch":             "Rob Welch",
	"S Allison":           "Simon Allison",
	"L Smith":             "Lee Smith",
	"S Singh":             "Sunny Singh",
	"M Donohue":           "Matt Donohue",
	"N. S. Barry":         "Neil Barry",
	"P. A. Durkin":        "Paul Durkin",
	"C. R. Wilkes":        "Clive Wilkes",
	"R. Styles":           "Rob Styles",
	"J. T. Winter":        "Jeff Winter",
	"G. P. Barber":        "Graham Barber",
	"G. Poll":             "Graham Poll",
	"D. J. Gallagher":     "Dermot Gallagher",
	"A. P. D'Urso":        "Andy D'Urso",
	"P. Jones":            "Phil Jones",
	"D. R. Elleray":       "David Elleray",
	"S. W. Dunn":          "Steve Dunn",
	"E. K. Wolstenholme":  "Eddie Wolstenholme",
	"A. G. Wiley":         "Alan Wiley",
	"B. Knight":           "Barry Knight",
	"S. G. Bennett":       "Steve Bennett",
	"U. D. Rennie":        "Uriah Rennie",
	"M. L Dean":           "Mike Dean",
	"D. Pugh":             "David Pugh",
	"M. A. Riley":         "Mike Riley",
	"M. R. Halsey":        "Mark Halsey",
	"M. D. Messias":       "Mark Messias",
	"C. J. Foy":           "Chris Foy",
	"P. Dowd":             "Phil Dowd",
	"Yates, N":            "Neale Barry",
	"Wiley, A. G.":        "Alan Wiley",
	"Elleray, D. R.":      "David Elleray",
	"Winter, J. T.":       "Jeff Winter",
	"Wolstenholme, E. K.": "Eddie Wolstenholme",
	"Dunn, S. W.":         "Steve Dunn",
	"Knight, B.":          "Barry Knight",
	"Rennie, U. D.":       "Uriah Rennie",
	"Dean, M. L":          "Mike Dean",
	"Poll, G.":            "Graham Poll",
	"Halsey, M. R.":       "Mark Halsey",
	"Dowd, P.":            "Phil Dowd",
	"Jones, P.":           "Phil Jones",
	"Styles, R.":          "Rob Styles",
	"Gallagher, D. J.":    "Dermot Gallagher",
	"D'Urso, A. P.":       "Andy D'Urso",
	"Durkin, P. A.":       "Paul Durkin",
	"Barber, G. P.":       "Graham Barber",
	"Wilkes, C. R.":       "Clive Wilkes",
	"Foy, C. J.":          "Chris Foy",
	"Messias, M. D.":      "Mark Messias",
	"D Gallagh":           "Dermot Gallagher",
	"D Gallaghe":          "Dermot Gallagher",
	"R Martin":            "Ross Martin",
	"T Bramall":           "Thomas Bramall",
	"D Bond":              "Darren Bond",
	"J Smith":             "Joshua Smith",
	"A.G. Wiley":          "Alan Wiley",
	"M. L. Dean":          "Mike Dean",
	"A Moss":              "Anthony Moss",
	"J.T. Winter":         "Jeff Winter",
	"Riley, M. A.":        "Mike Riley",
	"P.A. Durkin":         "Paul Durkin",
	"l Mason":             "Lee Mason",
	"Styles, R":           "Rob Styles",
	"Bennett, S. G.":      "Steve Bennett",
	"Barry, N. S.":        "Neil Barry",
	"Pugh, D.":            "David Pugh",
	"Dean, M. L.":         "Mike Dean",
	"Durkin, P.":          "Paul Durkin",
}

// CleanTeamName returns the full canonical team name.
func CleanTeamName(name string) string {
	if full, ok := teamNameCleaning[name]; ok {
		return full
	}
	return name
}

// CleanRefereeName returns the full canonical referee name.
func CleanRefereeName(name string) string {
	if full, ok := refereeNameCleaning[name]; ok {
		return full
	}
	return name
}

var seasonFileRe = regexp.MustCompile(`prem_(\d{2})_(\d{2})_stats`)

// SeasonNameFromFile derives the canonical season name from a stats file
// named prem_YY_YY_stats.csv, e.g. prem_99_00_stats.csv →
// "English Premier League 1999/00 Season".
func SeasonNameFromFile(path string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m := seasonFileRe.FindStringSubmatch(base)
	if m == nil {
		return "", fmt.Errorf("file name %q does not match prem_YY_YY_stats", base)
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])

	fullStart := 1900 + start
	if start < 50 {
		fullStart = 2000 + start
	}
	return fmt.Sprintf("English Premier League %d/%02d Season", fullStart, end), nil
}

// Loader upserts CSV match records through the store.
type Loader struct {
	store  *store.Store
	logger *logrus.Logger
}

func New(s *store.Store, logger *logrus.Logger) *Loader {
	if logger == nil {
		logger = logrus.New()
	}
	return &Loader{store: s, logger: logger}
}

// LoadFile ingests one season CSV file. Returns the number of matches upserted.
func (l *Loader) LoadFile(ctx context.Context, path string) (int, error) {
	seasonName, err := SeasonNameFromFile(path)
	if err != nil {
		return 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	l.logger.WithFields(logrus.Fields{"file": path, "season": seasonName}).Info("loading season file")
	return l.LoadCSV(ctx, seasonName, f)
}

// LoadCSV ingests one season's records from r. The season, every team and
// every referee are upserted before their matches so the name foreign keys
// always resolve.
func (l *Loader) LoadCSV(ctx context.Context, seasonName string, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	if _, err := l.store.Seasons().Upsert(ctx, seasonName); err != nil {
		return 0, err
	}

	count := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read record %d: %w", count+1, err)
		}

		row := record{idx: idx, fields: rec}
		m, err := parseMatch(seasonName, row)
		if err != nil {
			return count, fmt.Errorf("record %d: %w", count+1, err)
		}

		if _, err := l.store.Teams().Upsert(ctx, m.HomeTeam); err != nil {
			return count, err
		}
		if _, err := l.store.Teams().Upsert(ctx, m.AwayTeam); err != nil {
			return count, err
		}
		if m.Referee != nil {
			if _, err := l.store.Referees().Upsert(ctx, *m.Referee); err != nil {
				return count, err
			}
		}
		if _, err := l.store.UpsertMatch(ctx, m); err != nil {
			return count, err
		}
		count++
	}

	l.logger.WithFields(logrus.Fields{"season": seasonName, "matches": count}).Info("season loaded")
	return count, nil
}

// record gives named access to one CSV line. Missing columns and empty
// fields both read as "": older seasons carry fewer columns.
type record struct {
	idx    map[string]int
	fields []string
}

func (r record) get(key string) string {
	i, ok := r.idx[key]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) intPtr(key string) (*int, error) {
	s := r.get(key)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", key, err)
	}
	return &n, nil
}

func (r record) floatPtr(key string) *float64 {
	s := r.get(key)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"02/01/2006", "02/01/06"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseMatch(seasonName string, r record) (*models.Match, error) {
	date, err := parseDate(r.get("Date"))
	if err != nil {
		return nil, err
	}

	ftr := r.get("FTR")
	switch ftr {
	case models.ResultHomeWin, models.ResultAwayWin, models.ResultDraw:
	default:
		return nil, fmt.Errorf("invalid full time result %q", ftr)
	}

	fthg, err := strconv.Atoi(r.get("FTHG"))
	if err != nil {
		return nil, fmt.Errorf("column FTHG: %w", err)
	}
	ftag, err := strconv.Atoi(r.get("FTAG"))
	if err != nil {
		return nil, fmt.Errorf("column FTAG: %w", err)
	}

	m := &models.Match{
		SeasonName:        seasonName,
		Division:          r.get("Div"),
		MatchDate:         date,
		HomeTeam:          CleanTeamName(r.get("HomeTeam")),
		AwayTeam:          CleanTeamName(r.get("AwayTeam")),
		FullTimeHomeGoals: fthg,
		FullTimeAwayGoals: ftag,
		FullTimeResult:    ftr,
	}

	if t := r.get("Time"); t != "" {
		m.MatchTime = &t
	}
	if ref := r.get("Referee"); ref != "" {
		clean := CleanRefereeName(ref)
		m.Referee = &clean
	}
	if htr := r.get("HTR"); htr != "" {
		m.HalfTimeResult = &htr
	}

	var errs []error
	m.HalfTimeHomeGoals, err = r.intPtr("HTHG")
	errs = append(errs, err)
	m.HalfTimeAwayGoals, err = r.intPtr("HTAG")
	errs = append(errs, err)
	m.HomeShots, err = r.intPtr("HS")
	errs = append(errs, err)
	m.AwayShots, err = r.intPtr("AS")
	errs = append(errs, err)
	m.HomeShotsOnTarget, err = r.intPtr("HST")
	errs = append(errs, err)
	m.AwayShotsOnTarget, err = r.intPtr("AST")
	errs = append(errs, err)
	m.HomeFouls, err = r.intPtr("HF")
	errs = append(errs, err)
	m.AwayFouls, err = r.intPtr("AF")
	errs = append(errs, err)
	m.HomeCorners, err = r.intPtr("HC")
	errs = append(errs, err)
	m.AwayCorners, err = r.intPtr("AC")
	errs = append(errs, err)
	m.HomeYellowCards, err = r.intPtr("HY")
	errs = append(errs, err)
	m.AwayYellowCards, err = r.intPtr("AY")
	errs = append(errs, err)
	m.HomeRedCards, err = r.intPtr("HR")
	errs = append(errs, err)
	m.AwayRedCards, err = r.intPtr("AR")
	errs = append(errs, err)
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}

	// Betting market columns: absent or unparsable prices load as null.
	m.Bet365HomeWinOdds = r.floatPtr("B365H")
	m.Bet365DrawOdds = r.floatPtr("B365D")
	m.Bet365AwayWinOdds = r.floatPtr("B365A")
	m.BetAndWinHomeWinOdds = r.floatPtr("BWH")
	m.BetAndWinDrawOdds = r.floatPtr("BWD")
	m.BetAndWinAwayWinOdds = r.floatPtr("BWA")
	m.InterwettenHomeWinOdds = r.floatPtr("IWH")
	m.InterwettenDrawOdds = r.floatPtr("IWD")
	m.InterwettenAwayWinOdds = r.floatPtr("IWA")
	m.PinnacleHomeWinOdds = r.floatPtr("PSH")
	m.PinnacleDrawOdds = r.floatPtr("PSD")
	m.PinnacleAwayWinOdds = r.floatPtr("PSA")
	m.WilliamHillHomeWinOdds = r.floatPtr("WHH")
	m.WilliamHillDrawOdds = r.floatPtr("WHD")
	m.WilliamHillAwayWinOdds = r.floatPtr("WHA")
	m.VCBetHomeWinOdds = r.floatPtr("VCH")
	m.VCBetDrawOdds = r.floatPtr("VCD")
	m.VCBetAwayWinOdds = r.floatPtr("VCA")
	m.MaxHomeWinOdds = r.floatPtr("MaxH")
	m.MaxDrawOdds = r.floatPtr("MaxD")
	m.MaxAwayWinOdds = r.floatPtr("MaxA")
	m.AvgHomeWinOdds = r.floatPtr("AvgH")
	m.AvgDrawOdds = r.floatPtr("AvgD")
	m.AvgAwayWinOdds = r.floatPtr("AvgA")
	m.Bet365Over25Odds = r.floatPtr("B365>2.5")
	m.Bet365Under25Odds = r.floatPtr("B365<2.5")
	m.PinnacleOver25Odds = r.floatPtr("P>2.5")
	m.PinnacleUnder25Odds = r.floatPtr("P<2.5")
	m.MaxOver25Odds = r.floatPtr("Max>2.5")
	m.MaxUnder25Odds = r.floatPtr("Max<2.5")
	m.AvgOver25Odds = r.floatPtr("Avg>2.5")
	m.AvgUnder25Odds = r.floatPtr("Avg<2.5")
	m.AsianHandicapLine = r.floatPtr("AHh")
	m.Bet365AsianHandicapHomeOdds = r.floatPtr("B365AHH")
	m.Bet365AsianHandicapAwayOdds = r.floatPtr("B365AHA")
	m.PinnacleAsianHandicapHomeOdds = r.floatPtr("PAHH")
	m.PinnacleAsianHandicapAwayOdds = r.floatPtr("PAHA")
	m.MaxAsianHandicapHomeOdds = r.floatPtr("MaxAHH")
	m.MaxAsianHandicapAwayOdds = r.floatPtr("MaxAHA")
	m.AvgAsianHandicapHomeOdds = r.floatPtr("AvgAHH")
	m.AvgAsianHandicapAwayOdds = r.floatPtr("AvgAHA")

	return m, nil
}
