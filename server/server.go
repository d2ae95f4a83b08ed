// Package server exposes the assistant over HTTP: the interpret API,
// preference management, usage stats, health, and Prometheus metrics.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"natasha/assistant"
	"natasha/internal/profile"
	"natasha/metrics"
	"natasha/store"
)

type Server struct {
	e         *echo.Echo
	profile   *profile.Profile
	assistant *assistant.Assistant
	store     *store.Store
	metrics   *metrics.Collector
}

func NewServer(profile *profile.Profile, asst *assistant.Assistant, st *store.Store, collector *metrics.Collector) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		e:         e,
		profile:   profile,
		assistant: asst,
		store:     st,
		metrics:   collector,
	}

	e.GET("/healthz", s.healthz)

	apiGroup := e.Group("/api/v1")
	apiGroup.POST("/interpret", s.interpret)
	apiGroup.GET("/preferences/:key", s.getPreference)
	apiGroup.PUT("/preferences/:key", s.setPreference)
	apiGroup.GET("/usage", s.listUsage)

	if collector != nil {
		e.GET("/metrics", echo.WrapHandler(collector.Handler()))
	}

	return s
}

// Start begins serving and blocks until the listener fails or ctx is
// cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.e.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down http server", "error", err)
		}
	}()

	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

func (s *Server) healthz(c echo.Context) error {
	return c.String(http.StatusOK, "Service ready.")
}

type interpretRequest struct {
	Text string `json:"text"`
}

type interpretResponse struct {
	RequestID string `json:"request_id"`
	*assistant.Result
}

// interpret runs one utterance through the pipeline and returns the
// structured result. The response text is also queued for delivery.
func (s *Server) interpret(c echo.Context) error {
	var req interpretRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	result := s.assistant.ProcessInput(c.Request().Context(), req.Text)
	if result == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	return c.JSON(http.StatusOK, interpretResponse{
		RequestID: shortuuid.New(),
		Result:    result,
	})
}

type preferenceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) getPreference(c echo.Context) error {
	key := c.Param("key")
	value, found, err := s.store.GetPreference(c.Request().Context(), key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read preference")
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "preference not set")
	}
	return c.JSON(http.StatusOK, preferenceResponse{Key: key, Value: value})
}

func (s *Server) setPreference(c echo.Context) error {
	key := c.Param("key")
	var req preferenceResponse
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	// The quiet-hours value is validated up front so a bad window is
	// rejected instead of silently disabling suppression.
	if key == store.PreferenceQuietHours && req.Value != "" {
		if _, err := store.ParseQuietWindow(req.Value); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	if err := s.store.SetPreference(c.Request().Context(), key, req.Value); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save preference")
	}
	return c.JSON(http.StatusOK, preferenceResponse{Key: key, Value: req.Value})
}

func (s *Server) listUsage(c echo.Context) error {
	find := &store.FindUsage{}
	if name := c.QueryParam("name"); name != "" {
		find.Name = &name
	}
	if since := c.QueryParam("since"); since != "" {
		find.SinceDay = &since
	}

	stats, err := s.store.ListUsage(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list usage")
	}
	if stats == nil {
		stats = []*store.UsageStat{}
	}
	return c.JSON(http.StatusOK, stats)
}
