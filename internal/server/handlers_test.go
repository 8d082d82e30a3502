package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premstats/premstats/internal/pipeline"
)

type fakeAsk struct {
	ans      *pipeline.Answer
	err      error
	question string
}

func (f *fakeAsk) Ask(_ context.Context, question string) (*pipeline.Answer, error) {
	f.question = question
	if f.err != nil {
		return nil, f.err
	}
	return f.ans, nil
}

func newAskHandlers(ask *fakeAsk) *Handlers {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &Handlers{Pipeline: ask, AskTimeout: time.Second, Logger: logger}
}

func doAskStats(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/query/ask_stats", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.AskStats(e.NewContext(req, rec)))
	return rec
}

func TestAskStatsSuccess(t *testing.T) {
	ask := &fakeAsk{ans: &pipeline.Answer{
		Message: "Arsenal won 12 home games.",
		Data:    []pipeline.Row{{"home_team_name": "Arsenal", "wins": 12}},
	}}
	rec := doAskStats(t, newAskHandlers(ask), `{"message": "  How many home games did Arsenal win?  "}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "How many home games did Arsenal win?", ask.question, "question is trimmed before the pipeline")

	var resp AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Arsenal won 12 home games.", resp.Message)
	require.Len(t, resp.Data, 1)
}

func TestAskStatsUnanswerable(t *testing.T) {
	ask := &fakeAsk{err: pipeline.ErrUnanswerable}
	rec := doAskStats(t, newAskHandlers(ask), `{"message": "what is the meaning of life?"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, msgCannotUnderstand, resp.Detail)
}

func TestAskStatsBackendFailureHidesDetails(t *testing.T) {
	ask := &fakeAsk{err: errors.New(`pq: password authentication failed for user "premstats"`)}
	rec := doAskStats(t, newAskHandlers(ask), `{"message": "list all matches"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, msgServiceProblem, resp.Detail)
	assert.NotContains(t, rec.Body.String(), "password", "backend errors never reach the client")
}

func TestAskStatsValidation(t *testing.T) {
	cases := map[string]string{
		"empty message":   `{"message": "   "}`,
		"missing message": `{}`,
		"malformed json":  `{"message": `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			ask := &fakeAsk{}
			rec := doAskStats(t, newAskHandlers(ask), body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, ask.question, "pipeline must not run for invalid input")
		})
	}
}

func TestHealth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/check", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, newAskHandlers(&fakeAsk{}).Health(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thus spoke St. Alia-of-the-Knife")
}

func TestBearerToken(t *testing.T) {
	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	call := func(mw echo.MiddlewareFunc, header string) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/api/team/add", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		require.NoError(t, mw(next)(e.NewContext(req, rec)))
		return rec
	}

	guarded := bearerToken("s3cret")
	assert.Equal(t, http.StatusOK, call(guarded, "Bearer s3cret").Code)
	assert.Equal(t, http.StatusForbidden, call(guarded, "Bearer wrong").Code)
	assert.Equal(t, http.StatusForbidden, call(guarded, "s3cret").Code, "scheme prefix is required")
	assert.Equal(t, http.StatusForbidden, call(guarded, "").Code)

	open := bearerToken("")
	assert.Equal(t, http.StatusOK, call(open, "").Code, "empty configured token disables the guard")
}

func TestListParams(t *testing.T) {
	e := echo.New()
	ctx := func(query string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/api/match/list?"+query, nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	limit, offset := listParams(ctx(""))
	assert.Equal(t, 100, limit)
	assert.Equal(t, 0, offset)

	limit, offset = listParams(ctx("limit=25&skip=50"))
	assert.Equal(t, 25, limit)
	assert.Equal(t, 50, offset)

	limit, offset = listParams(ctx("limit=99999&skip=-4"))
	assert.Equal(t, 100, limit, "out-of-range limit falls back to the default")
	assert.Equal(t, 0, offset, "negative skip falls back to the default")
}
