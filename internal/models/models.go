package models

import "time"

// Full/half time result codes.
const (
	ResultHomeWin = "H"
	ResultAwayWin = "A"
	ResultDraw    = "D"
)

// Match is one fixture row: score lines, in-match statistics and the
// betting-market prices published for it. Season, teams and referee are
// referenced by name, not surrogate id.
type Match struct {
	ID int64 `db:"id" json:"id"`

	SeasonName string    `db:"season_name" json:"season_name"`
	Division   string    `db:"division" json:"division"`
	MatchDate  time.Time `db:"match_date" json:"match_date"`
	MatchTime  *string   `db:"match_time" json:"match_time,omitempty"`
	HomeTeam   string    `db:"home_team_name" json:"home_team_name"`
	AwayTeam   string    `db:"away_team_name" json:"away_team_name"`
	Referee    *string   `db:"referee_name" json:"referee_name,omitempty"`

	FullTimeHomeGoals int     `db:"full_time_home_goals" json:"full_time_home_goals"`
	FullTimeAwayGoals int     `db:"full_time_away_goals" json:"full_time_away_goals"`
	FullTimeResult    string  `db:"full_time_result" json:"full_time_result"`
	HalfTimeHomeGoals *int    `db:"half_time_home_goals" json:"half_time_home_goals,omitempty"`
	HalfTimeAwayGoals *int    `db:"half_time_away_goals" json:"half_time_away_goals,omitempty"`
	HalfTimeResult    *string `db:"half_time_result" json:"half_time_result,omitempty"`

	HomeShots         *int `db:"home_shots" json:"home_shots,omitempty"`
	AwayShots         *int `db:"away_shots" json:"away_shots,omitempty"`
	HomeShotsOnTarget *int `db:"home_shots_on_target" json:"home_shots_on_target,omitempty"`
	AwayShotsOnTarget *int `db:"away_shots_on_target" json:"away_shots_on_target,omitempty"`
	HomeFouls         *int `db:"home_fouls" json:"home_fouls,omitempty"`
	AwayFouls         *int `db:"away_fouls" json:"away_fouls,omitempty"`
	HomeCorners       *int `db:"home_corners" json:"home_corners,omitempty"`
	AwayCorners       *int `db:"away_corners" json:"away_corners,omitempty"`
	HomeYellowCards   *int `db:"home_yellow_cards" json:"home_yellow_cards,omitempty"`
	AwayYellowCards   *int `db:"away_yellow_cards" json:"away_yellow_cards,omitempty"`
	HomeRedCards      *int `db:"home_red_cards" json:"home_red_cards,omitempty"`
	AwayRedCards      *int `db:"away_red_cards" json:"away_red_cards,omitempty"`

	// 1X2 match-result odds per bookmaker plus market max/avg.
	Bet365HomeWinOdds      *float64 `db:"bet365_home_win_odds" json:"bet365_home_win_odds,omitempty"`
	Bet365DrawOdds         *float64 `db:"bet365_draw_odds" json:"bet365_draw_odds,omitempty"`
	Bet365AwayWinOdds      *float64 `db:"bet365_away_win_odds" json:"bet365_away_win_odds,omitempty"`
	BetAndWinHomeWinOdds   *float64 `db:"bet_and_win_home_win_odds" json:"bet_and_win_home_win_odds,omitempty"`
	BetAndWinDrawOdds      *float64 `db:"bet_and_win_draw_odds" json:"bet_and_win_draw_odds,omitempty"`
	BetAndWinAwayWinOdds   *float64 `db:"bet_and_win_away_win_odds" json:"bet_and_win_away_win_odds,omitempty"`
	InterwettenHomeWinOdds *float64 `db:"interwetten_home_win_odds" json:"interwetten_home_win_odds,omitempty"`
	InterwettenDrawOdds    *float64 `db:"interwetten_draw_odds" json:"interwetten_draw_odds,omitempty"`
	InterwettenAwayWinOdds *float64 `db:"interwetten_away_win_odds" json:"interwetten_away_win_odds,omitempty"`
	PinnacleHomeWinOdds    *float64 `db:"pinnacle_home_win_odds" json:"pinnacle_home_win_odds,omitempty"`
	PinnacleDrawOdds       *float64 `db:"pinnacle_draw_odds" json:"pinnacle_draw_odds,omitempty"`
	PinnacleAwayWinOdds    *float64 `db:"pinnacle_away_win_odds" json:"pinnacle_away_win_odds,omitempty"`
	WilliamHillHomeWinOdds *float64 `db:"william_hill_home_win_odds" json:"william_hill_home_win_odds,omitempty"`
	WilliamHillDrawOdds    *float64 `db:"william_hill_draw_odds" json:"william_hill_draw_odds,omitempty"`
	WilliamHillAwayWinOdds *float64 `db:"william_hill_away_win_odds" json:"william_hill_away_win_odds,omitempty"`
	VCBetHomeWinOdds       *float64 `db:"vc_bet_home_win_odds" json:"vc_bet_home_win_odds,omitempty"`
	VCBetDrawOdds          *float64 `db:"vc_bet_draw_odds" json:"vc_bet_draw_odds,omitempty"`
	VCBetAwayWinOdds       *float64 `db:"vc_bet_away_win_odds" json:"vc_bet_away_win_odds,omitempty"`
	MaxHomeWinOdds         *float64 `db:"max_home_win_odds" json:"max_home_win_odds,omitempty"`
	MaxDrawOdds            *float64 `db:"max_draw_odds" json:"max_draw_odds,omitempty"`
	MaxAwayWinOdds         *float64 `db:"max_away_win_odds" json:"max_away_win_odds,omitempty"`
	AvgHomeWinOdds         *float64 `db:"avg_home_win_odds" json:"avg_home_win_odds,omitempty"`
	AvgDrawOdds            *float64 `db:"avg_draw_odds" json:"avg_draw_odds,omitempty"`
	AvgAwayWinOdds         *float64 `db:"avg_away_win_odds" json:"avg_away_win_odds,omitempty"`

	// Total goals over/under 2.5.
	Bet365Over25Odds    *float64 `db:"bet365_over_2_5_odds" json:"bet365_over_2_5_odds,omitempty"`
	Bet365Under25Odds   *float64 `db:"bet365_under_2_5_odds" json:"bet365_under_2_5_odds,omitempty"`
	PinnacleOver25Odds  *float64 `db:"pinnacle_over_2_5_odds" json:"pinnacle_over_2_5_odds,omitempty"`
	PinnacleUnder25Odds *float64 `db:"pinnacle_under_2_5_odds" json:"pinnacle_under_2_5_odds,omitempty"`
	MaxOver25Odds       *float64 `db:"max_over_2_5_odds" json:"max_over_2_5_odds,omitempty"`
	MaxUnder25Odds      *float64 `db:"max_under_2_5_odds" json:"max_under_2_5_odds,omitempty"`
	AvgOver25Odds       *float64 `db:"avg_over_2_5_odds" json:"avg_over_2_5_odds,omitempty"`
	AvgUnder25Odds      *float64 `db:"avg_under_2_5_odds" json:"avg_under_2_5_odds,omitempty"`

	// Asian handicap.
	AsianHandicapLine             *float64 `db:"asian_handicap_line" json:"asian_handicap_line,omitempty"`
	Bet365AsianHandicapHomeOdds   *float64 `db:"bet365_asian_handicap_home_odds" json:"bet365_asian_handicap_home_odds,omitempty"`
	Bet365AsianHandicapAwayOdds   *float64 `db:"bet365_asian_handicap_away_odds" json:"bet365_asian_handicap_away_odds,omitempty"`
	PinnacleAsianHandicapHomeOdds *float64 `db:"pinnacle_asian_handicap_home_odds" json:"pinnacle_asian_handicap_home_odds,omitempty"`
	PinnacleAsianHandicapAwayOdds *float64 `db:"pinnacle_asian_handicap_away_odds" json:"pinnacle_asian_handicap_away_odds,omitempty"`
	MaxAsianHandicapHomeOdds      *float64 `db:"max_asian_handicap_home_odds" json:"max_asian_handicap_home_odds,omitempty"`
	MaxAsianHandicapAwayOdds      *float64 `db:"max_asian_handicap_away_odds" json:"max_asian_handicap_away_odds,omitempty"`
	AvgAsianHandicapHomeOdds      *float64 `db:"avg_asian_handicap_home_odds" json:"avg_asian_handicap_home_odds,omitempty"`
	AvgAsianHandicapAwayOdds      *float64 `db:"avg_asian_handicap_away_odds" json:"avg_asian_handicap_away_odds,omitempty"`
}
