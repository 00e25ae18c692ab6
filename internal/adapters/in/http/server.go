// Package http is the inbound HTTP adapter: push ingestion of observations
// and the read-only reporting endpoints.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"orderwatch/internal/core/application/usecases/commands"
	"orderwatch/internal/core/application/usecases/queries"
	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/pkg/errs"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ReconcileResponse reports what one pushed observation changed.
type ReconcileResponse struct {
	ExternalID   string `json:"external_id"`
	Status       string `json:"status"`
	Category     string `json:"category"`
	Created      bool   `json:"created"`
	Transitioned bool   `json:"transitioned"`
	Ambiguous    bool   `json:"ambiguous"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	reconciler commands.ReconcileOrderCommandHandler

	// Query handlers
	bottlenecks   queries.GetBottlenecksQueryHandler
	cancellations queries.GetCancellationReasonsQueryHandler
	durations     queries.GetOrderDurationQueryHandler
	timelines     queries.GetOrderTimelineQueryHandler

	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewServer creates a new HTTP server. Report dates are read in location.
func NewServer(
	reconciler commands.ReconcileOrderCommandHandler,
	bottlenecks queries.GetBottlenecksQueryHandler,
	cancellations queries.GetCancellationReasonsQueryHandler,
	durations queries.GetOrderDurationQueryHandler,
	timelines queries.GetOrderTimelineQueryHandler,
	location *time.Location,
	logger *slog.Logger,
) *Server {
	return &Server{
		reconciler:    reconciler,
		bottlenecks:   bottlenecks,
		cancellations: cancellations,
		durations:     durations,
		timelines:     timelines,
		location:      location,
		logger:        logger.With("component", "http"),
		now:           time.Now,
	}
}

// Register mounts the API routes on e.
func (s *Server) Register(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/observations", s.PostObservation)
	api.GET("/analysis/bottlenecks", s.GetBottlenecks)
	api.GET("/analysis/cancellations", s.GetCancellationReasons)
	api.GET("/analysis/orders/:external_id/duration", s.GetOrderDuration)
	api.GET("/analysis/orders/:external_id/timeline", s.GetOrderTimeline)
}

// reportParams reads the filter shared by the aggregate reports.
func reportParams(ctx echo.Context) queries.ReportParams {
	return queries.ReportParams{
		StartDate: ctx.QueryParam("start_date"),
		EndDate:   ctx.QueryParam("end_date"),
		StoreName: ctx.QueryParam("store_name"),
		Search:    ctx.QueryParam("search"),
	}
}

// PostObservation handles POST /api/v1/observations - reconciles one record.
func (s *Server) PostObservation(ctx echo.Context) error {
	var obs order.Observation
	if err := ctx.Bind(&obs); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewReconcileOrderCommand(obs, s.now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid observation: " + err.Error(),
		})
	}

	res, err := s.reconciler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "push reconciliation failed", "external_id", obs.ExternalID, "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to reconcile observation",
		})
	}

	return ctx.JSON(http.StatusOK, ReconcileResponse{
		ExternalID:   res.ExternalID,
		Status:       res.Status.String(),
		Category:     res.Category.String(),
		Created:      res.Created,
		Transitioned: res.Transitioned,
		Ambiguous:    res.Ambiguous,
	})
}

// GetBottlenecks handles GET /api/v1/analysis/bottlenecks.
// Query parameters: start_date, end_date (YYYY-MM-DD), store_name, search.
func (s *Server) GetBottlenecks(ctx echo.Context) error {
	query, err := queries.NewGetBottlenecksQuery(reportParams(ctx), s.location)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid filter: " + err.Error(),
		})
	}

	report, err := s.bottlenecks.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "bottleneck report failed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to compute bottlenecks",
		})
	}

	return ctx.JSON(http.StatusOK, report)
}

// GetOrderDuration handles GET /api/v1/analysis/orders/:external_id/duration.
func (s *Server) GetOrderDuration(ctx echo.Context) error {
	query, err := queries.NewGetOrderDurationQuery(ctx.Param("external_id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	res, err := s.durations.Handle(ctx.Request().Context(), query)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	case err != nil:
		s.logger.ErrorContext(ctx.Request().Context(), "duration lookup failed", "external_id", query.ExternalID(), "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to compute duration",
		})
	}

	return ctx.JSON(http.StatusOK, res)
}

// GetCancellationReasons handles GET /api/v1/analysis/cancellations.
// It takes the same query parameters as GetBottlenecks.
func (s *Server) GetCancellationReasons(ctx echo.Context) error {
	query, err := queries.NewGetCancellationReasonsQuery(reportParams(ctx), s.location)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid filter: " + err.Error(),
		})
	}

	reasons, err := s.cancellations.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "cancellation report failed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to count cancellation reasons",
		})
	}

	return ctx.JSON(http.StatusOK, reasons)
}

// GetOrderTimeline handles GET /api/v1/analysis/orders/:external_id/timeline.
func (s *Server) GetOrderTimeline(ctx echo.Context) error {
	query, err := queries.NewGetOrderTimelineQuery(ctx.Param("external_id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	res, err := s.timelines.Handle(ctx.Request().Context(), query)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	case err != nil:
		s.logger.ErrorContext(ctx.Request().Context(), "timeline lookup failed", "external_id", query.ExternalID(), "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to load timeline",
		})
	}

	return ctx.JSON(http.StatusOK, res)
}
