package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/premstats/premstats/internal/cache"
	"github.com/premstats/premstats/internal/models"
	"github.com/premstats/premstats/internal/pipeline"
	"github.com/premstats/premstats/internal/store"
)

// User-facing error messages. The first means the model judged the question
// out of scope; the second covers every backend failure.
const (
	msgCannotUnderstand = "Sorry, I couldn't understand your question. Please try again."
	msgServiceProblem   = "There currently is a problem with the service. Please try again later."
)

// AskService is the query pipeline as seen by the HTTP layer.
type AskService interface {
	Ask(ctx context.Context, question string) (*pipeline.Answer, error)
}

// Handlers contains all dependencies for API endpoint handlers.
type Handlers struct {
	Pipeline   AskService         // Natural-language query pipeline
	Store      *store.Store       // Postgres entity store
	Answers    *cache.AnswerCache // Optional Redis answer cache (can be nil)
	AskTimeout time.Duration      // Per-question deadline
	Logger     *logrus.Logger
}

func (h *Handlers) err(c echo.Context, code int, detail string) error {
	return c.JSON(code, ErrorResponse{Detail: detail})
}

func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health reports liveness.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Message: "Thus spoke St. Alia-of-the-Knife"})
}

// AskStats answers a free-text question about the match database.
func (h *Handlers) AskStats(c echo.Context) error {
	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json")
	}
	question := strings.TrimSpace(req.Message)
	if question == "" {
		return h.err(c, http.StatusBadRequest, "message is required")
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), h.AskTimeout)
	defer cancel()

	if h.Answers != nil {
		if ans, err := h.Answers.Get(ctx, question); err == nil {
			return c.JSON(http.StatusOK, AskResponse{Message: ans.Message, Data: ans.Data})
		} else if !errors.Is(err, cache.ErrMiss) {
			h.Logger.WithError(err).Warn("answer cache lookup failed")
		}
	}

	ans, err := h.Pipeline.Ask(ctx, question)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnanswerable) {
			return h.err(c, http.StatusBadRequest, msgCannotUnderstand)
		}
		h.Logger.WithError(err).Error("ask_stats pipeline failed")
		return h.err(c, http.StatusBadRequest, msgServiceProblem)
	}

	if h.Answers != nil {
		if err := h.Answers.Set(ctx, question, ans); err != nil {
			h.Logger.WithError(err).Warn("answer cache store failed")
		}
	}

	return c.JSON(http.StatusOK, AskResponse{Message: ans.Message, Data: ans.Data})
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func listParams(c echo.Context) (limit, offset int) {
	limit, offset = 100, 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	if v := c.QueryParam("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// Name-keyed entity handlers, shared by season, team and referee routes.

func (h *Handlers) createNamed(ns func() store.NamedStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req NameRequest
		if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			return h.err(c, http.StatusBadRequest, "name is required")
		}
		ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		e, err := ns().Create(ctx, strings.TrimSpace(req.Name))
		if err != nil {
			h.Logger.WithError(err).Error("entity create failed")
			return h.err(c, http.StatusBadRequest, msgServiceProblem)
		}
		return c.JSON(http.StatusCreated, e)
	}
}

func (h *Handlers) upsertNamed(ns func() store.NamedStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req NameRequest
		if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			return h.err(c, http.StatusBadRequest, "name is required")
		}
		ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		e, err := ns().Upsert(ctx, strings.TrimSpace(req.Name))
		if err != nil {
			h.Logger.WithError(err).Error("entity upsert failed")
			return h.err(c, http.StatusBadRequest, msgServiceProblem)
		}
		return c.JSON(http.StatusCreated, e)
	}
}

func (h *Handlers) listNamed(ns func() store.NamedStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, offset := listParams(c)
		ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		items, err := ns().List(ctx, limit, offset)
		if err != nil {
			h.Logger.WithError(err).Error("entity list failed")
			return h.err(c, http.StatusBadRequest, msgServiceProblem)
		}
		return c.JSON(http.StatusOK, items)
	}
}

func (h *Handlers) getNamed(ns func() store.NamedStore, label string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid id")
		}
		ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		e, err := ns().Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return h.err(c, http.StatusNotFound, label+" not found")
		}
		if err != nil {
			h.Logger.WithError(err).Error("entity get failed")
			return h.err(c, http.StatusBadRequest, msgServiceProblem)
		}
		return c.JSON(http.StatusOK, e)
	}
}

func (h *Handlers) updateNamed(ns func() store.NamedStore, label string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid id")
		}
		var req NameRequest
		if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			return h.err(c, http.StatusBadRequest, "name is required")
		}
		ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		e, err := ns().UpdateName(ctx, id, strings.TrimSpace(req.Name))
		if errors.Is(err, store.ErrNotFound) {
			return h.err(c, http.StatusNotFound, label+" not found")
		}
		if err != nil {
			h.Logger.WithError(err).Error("entity update failed")
			return h.err(c, http.StatusBadRequest, msgServiceProblem)
		}
		return c.JSON(http.StatusOK, e)
	}
}

func (h *Handlers) deleteNamed(ns func() store.NamedStore, label string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid id")
		}
		ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		err = ns().Delete(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return h.err(c, http.StatusNotFound, label+" not found")
		}
		if err != nil {
			h.Logger.WithError(err).Error("entity delete failed")
			return h.err(c, http.StatusBadRequest, msgServiceProblem)
		}
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	}
}

// Match handlers.

func (h *Handlers) bindMatch(c echo.Context) (*models.Match, error) {
	var m models.Match
	if err := c.Bind(&m); err != nil {
		return nil, err
	}
	if m.SeasonName == "" || m.HomeTeam == "" || m.AwayTeam == "" {
		return nil, errors.New("season_name, home_team_name and away_team_name are required")
	}
	switch m.FullTimeResult {
	case models.ResultHomeWin, models.ResultAwayWin, models.ResultDraw:
	default:
		return nil, errors.New(`full_time_result must be "H", "A" or "D"`)
	}
	return &m, nil
}

func (h *Handlers) MatchCreate(c echo.Context) error {
	m, err := h.bindMatch(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, err.Error())
	}
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Store.CreateMatch(ctx, m)
	if err != nil {
		h.Logger.WithError(err).Error("match create failed")
		return h.err(c, http.StatusBadRequest, msgServiceProblem)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *Handlers) MatchUpsert(c echo.Context) error {
	m, err := h.bindMatch(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, err.Error())
	}
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Store.UpsertMatch(ctx, m)
	if err != nil {
		h.Logger.WithError(err).Error("match upsert failed")
		return h.err(c, http.StatusBadRequest, msgServiceProblem)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *Handlers) MatchList(c echo.Context) error {
	limit, offset := listParams(c)
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Store.ListMatches(ctx, limit, offset)
	if err != nil {
		h.Logger.WithError(err).Error("match list failed")
		return h.err(c, http.StatusBadRequest, msgServiceProblem)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handlers) MatchGet(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Store.GetMatch(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return h.err(c, http.StatusNotFound, "match not found")
	}
	if err != nil {
		h.Logger.WithError(err).Error("match get failed")
		return h.err(c, http.StatusBadRequest, msgServiceProblem)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handlers) MatchUpdate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid id")
	}
	m, err := h.bindMatch(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, err.Error())
	}
	m.ID = id

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Store.UpdateMatch(ctx, m)
	if errors.Is(err, store.ErrNotFound) {
		return h.err(c, http.StatusNotFound, "match not found")
	}
	if err != nil {
		h.Logger.WithError(err).Error("match update failed")
		return h.err(c, http.StatusBadRequest, msgServiceProblem)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handlers) MatchDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Store.DeleteMatch(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return h.err(c, http.StatusNotFound, "match not found")
	}
	if err != nil {
		h.Logger.WithError(err).Error("match delete failed")
		return h.err(c, http.StatusBadRequest, msgServiceProblem)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
