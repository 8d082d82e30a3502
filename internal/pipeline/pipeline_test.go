package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter scripts completion replies in call order and records the
// prompts it was given.
type fakeCompleter struct {
	replies []string
	errs    []error
	calls   int

	systemPrompts []string
	userPrompts   []string
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	i := f.calls
	f.calls++
	f.systemPrompts = append(f.systemPrompts, systemPrompt)
	f.userPrompts = append(f.userPrompts, userPrompt)

	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", fmt.Errorf("unexpected completion call %d", i)
}

// fakeStore scripts one query result and records the executed SQL.
type fakeStore struct {
	rs     *ResultSet
	err    error
	gotSQL []string
}

func (f *fakeStore) QueryRows(_ context.Context, sqlText string) (*ResultSet, error) {
	f.gotSQL = append(f.gotSQL, sqlText)
	if f.err != nil {
		return nil, f.err
	}
	return f.rs, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestPipeline(c *fakeCompleter, s *fakeStore) *Pipeline {
	return New(Config{
		Completer: c,
		Store:     s,
		Logger:    quietLogger(),
		Now:       func() time.Time { return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC) },
	})
}

func day(d int) time.Time {
	return time.Date(2000, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestAskAnswersQuestion(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"home_team_name", "wins"},
		Rows: []Row{
			{"home_team_name": "Manchester United", "wins": int64(18)},
		},
	}
	completer := &fakeCompleter{replies: []string{
		"```sql\nSELECT home_team_name, COUNT(*) AS wins FROM match WHERE season_name = 'English Premier League 1999/2000 Season' AND full_time_result = 'H' GROUP BY home_team_name ORDER BY wins DESC LIMIT 1\n```",
		"Manchester United won the most matches in the 1999/2000 season.",
	}}
	store := &fakeStore{rs: rs}

	ans, err := newTestPipeline(completer, store).Ask(context.Background(),
		"Which team won the most matches in the 1999/2000 season?")
	require.NoError(t, err)

	assert.Equal(t, 2, completer.calls)
	require.Len(t, store.gotSQL, 1)
	assert.Contains(t, store.gotSQL[0], "GROUP BY home_team_name")
	assert.Contains(t, store.gotSQL[0], "English Premier League 1999/2000 Season")
	assert.NotContains(t, store.gotSQL[0], "```")

	assert.Contains(t, ans.Message, "Manchester United")
	assert.Equal(t, rs.Rows, ans.Data)
	assert.False(t, ans.ShortCircuit)
}

func TestAskUnanswerableNeverExecutes(t *testing.T) {
	completer := &fakeCompleter{replies: []string{"invalid"}}
	store := &fakeStore{}

	ans, err := newTestPipeline(completer, store).Ask(context.Background(),
		"What's the capital of France?")
	assert.Nil(t, ans)
	assert.ErrorIs(t, err, ErrUnanswerable)
	assert.Empty(t, store.gotSQL, "executor must not run for an unanswerable question")
	assert.Equal(t, 1, completer.calls)
}

func TestAskDatabaseDownIsExecutionFailure(t *testing.T) {
	backendErr := errors.New(`pq: connection refused on host "db.internal:5432"`)
	completer := &fakeCompleter{replies: []string{"SELECT * FROM match"}}
	store := &fakeStore{err: backendErr}

	ans, err := newTestPipeline(completer, store).Ask(context.Background(), "list all matches")
	assert.Nil(t, ans)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageExecution, se.Stage)
	assert.ErrorIs(t, err, backendErr)
	assert.Equal(t, 1, completer.calls, "no synthesis call after execution failure")
}

func TestAskGenerationFailure(t *testing.T) {
	completer := &fakeCompleter{errs: []error{errors.New("completion timeout")}}
	store := &fakeStore{}

	_, err := newTestPipeline(completer, store).Ask(context.Background(), "anything")
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageGeneration, se.Stage)
	assert.NotErrorIs(t, err, ErrUnanswerable)
	assert.Empty(t, store.gotSQL)
}

func TestAskSynthesisFailureDegradesToReducedRows(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"id", "home_team_name", "bet365_home_win_odds"},
		Rows: []Row{
			{"id": int64(1), "home_team_name": "Arsenal", "bet365_home_win_odds": 1.5},
		},
	}
	completer := &fakeCompleter{
		replies: []string{"SELECT id, home_team_name, bet365_home_win_odds FROM match"},
		errs:    []error{nil, errors.New("completion service unavailable")},
	}
	store := &fakeStore{rs: rs}

	ans, err := newTestPipeline(completer, store).Ask(context.Background(), "who played at home?")
	require.NoError(t, err, "synthesis failure degrades, it does not fail the request")

	assert.Equal(t, SynthesisFailedMessage, ans.Message)
	require.Len(t, ans.Data, 1)
	assert.Equal(t, Row{"home_team_name": "Arsenal"}, ans.Data[0], "degraded data is the reduced rows")
}

func TestAskShortCircuitReturnsReducedRows(t *testing.T) {
	rs := &ResultSet{Columns: []string{"home_team_name", "away_team_name", "match_date"}}
	for i := 0; i < 40; i++ {
		rs.Rows = append(rs.Rows, Row{
			"home_team_name": fmt.Sprintf("Home Club %02d", i),
			"away_team_name": fmt.Sprintf("Away Club %02d", i),
			"match_date":     day(1 + i%28),
		})
	}
	completer := &fakeCompleter{replies: []string{"SELECT home_team_name, away_team_name, match_date FROM match"}}
	store := &fakeStore{rs: rs}

	ans, err := newTestPipeline(completer, store).Ask(context.Background(), "show me every match ever")
	require.NoError(t, err)

	assert.True(t, ans.ShortCircuit)
	assert.Equal(t, TooMuchDataMessage, ans.Message)
	assert.Len(t, ans.Data, 40)
	assert.Equal(t, 1, completer.calls, "no synthesis call on short-circuit")
}
