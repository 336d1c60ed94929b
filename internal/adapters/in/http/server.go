// Package http exposes the lifecycle engine over REST. Handlers translate
// between the wire shapes and the command/query layer; every state change
// still goes through the engine, never through direct writes.
package http

import (
	"errors"
	"net/http"

	"loadflow/internal/core/application/usecases/commands"
	"loadflow/internal/core/application/usecases/queries"
	"loadflow/internal/core/domain/model/audit"
	"loadflow/internal/core/domain/model/convoy"
	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/domain/model/load"
	"loadflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createLoadHandler        commands.CreateLoadCommandHandler
	attemptTransitionHandler commands.AttemptTransitionCommandHandler
	recordDocumentHandler    commands.RecordDocumentCommandHandler
	createConvoyHandler      commands.CreateConvoyCommandHandler
	advanceConvoyHandler     commands.AdvanceConvoyCommandHandler
	reportSeparationHandler  commands.ReportSeparationCommandHandler

	getLoadHandler                 queries.GetLoadQueryHandler
	getAvailableTransitionsHandler queries.GetAvailableTransitionsQueryHandler
	getAuditTrailHandler           queries.GetAuditTrailQueryHandler
	getConvoyHandler               queries.GetConvoyQueryHandler

	catalog *load.Catalog
}

// NewServer creates an HTTP server with the required command and query
// handlers.
func NewServer(
	createLoadHandler commands.CreateLoadCommandHandler,
	attemptTransitionHandler commands.AttemptTransitionCommandHandler,
	recordDocumentHandler commands.RecordDocumentCommandHandler,
	createConvoyHandler commands.CreateConvoyCommandHandler,
	advanceConvoyHandler commands.AdvanceConvoyCommandHandler,
	reportSeparationHandler commands.ReportSeparationCommandHandler,
	getLoadHandler queries.GetLoadQueryHandler,
	getAvailableTransitionsHandler queries.GetAvailableTransitionsQueryHandler,
	getAuditTrailHandler queries.GetAuditTrailQueryHandler,
	getConvoyHandler queries.GetConvoyQueryHandler,
	catalog *load.Catalog,
) *Server {
	return &Server{
		createLoadHandler:              createLoadHandler,
		attemptTransitionHandler:       attemptTransitionHandler,
		recordDocumentHandler:          recordDocumentHandler,
		createConvoyHandler:            createConvoyHandler,
		advanceConvoyHandler:           advanceConvoyHandler,
		reportSeparationHandler:        reportSeparationHandler,
		getLoadHandler:                 getLoadHandler,
		getAvailableTransitionsHandler: getAvailableTransitionsHandler,
		getAuditTrailHandler:           getAuditTrailHandler,
		getConvoyHandler:               getConvoyHandler,
		catalog:                        catalog,
	}
}

// RegisterRoutes wires the API onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")
	v1.POST("/loads", s.CreateLoad)
	v1.GET("/loads/:id", s.GetLoad)
	v1.GET("/loads/:id/transitions", s.GetAvailableTransitions)
	v1.POST("/loads/:id/transitions", s.AttemptTransition)
	v1.POST("/loads/:id/documents", s.RecordDocument)
	v1.GET("/loads/:id/audit", s.GetLoadAudit)
	v1.GET("/states", s.ListStates)

	v1.POST("/convoys", s.CreateConvoy)
	v1.GET("/convoys/:id", s.GetConvoy)
	v1.POST("/convoys/:id/status", s.AdvanceConvoy)
	v1.POST("/convoys/:id/distances", s.ReportSeparation)
	v1.GET("/convoys/:id/audit", s.GetConvoyAudit)
}

// Error is the uniform error body.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type createLoadRequest struct {
	ShipperID string `json:"shipper_id"`
}

// CreateLoad handles POST /api/v1/loads.
func (s *Server) CreateLoad(ctx echo.Context) error {
	var req createLoadRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	shipperID, err := kernel.UUIDFromString(req.ShipperID)
	if err != nil {
		return badRequest(ctx, "invalid shipper_id")
	}

	loadID := kernel.NewUUID()
	cmd, err := commands.NewCreateLoadCommand(loadID, shipperID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err := s.createLoadHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{
		"id":    loadID.String(),
		"state": load.Draft.String(),
	})
}

// GetLoad handles GET /api/v1/loads/:id.
func (s *Server) GetLoad(ctx echo.Context) error {
	loadID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid load id")
	}

	query, err := queries.NewGetLoadQuery(loadID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	snapshot, err := s.getLoadHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, snapshot)
}

// GetAvailableTransitions handles GET /api/v1/loads/:id/transitions?role=R.
func (s *Server) GetAvailableTransitions(ctx echo.Context) error {
	loadID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid load id")
	}
	role, err := load.RoleFromString(ctx.QueryParam("role"))
	if err != nil {
		return badRequest(ctx, "invalid role")
	}

	query, err := queries.NewGetAvailableTransitionsQuery(loadID, role)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	available, err := s.getAvailableTransitionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, available)
}

type attemptTransitionRequest struct {
	TransitionID string            `json:"transition_id"`
	ActorID      string            `json:"actor_id"`
	ActorRole    string            `json:"actor_role"`
	Event        map[string]string `json:"event"`
}

// AttemptTransition handles POST /api/v1/loads/:id/transitions.
func (s *Server) AttemptTransition(ctx echo.Context) error {
	loadID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid load id")
	}

	var req attemptTransitionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "invalid actor_id")
	}
	role, err := load.RoleFromString(req.ActorRole)
	if err != nil {
		return badRequest(ctx, "invalid actor_role")
	}

	cmd, err := commands.NewAttemptTransitionCommand(
		loadID, req.TransitionID, load.Actor{ID: actorID, Role: role}, req.Event)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.attemptTransitionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{
		"transition_id": result.TransitionID,
		"from":          result.From.String(),
		"to":            result.To.String(),
		"occurred_at":   result.OccurredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

type recordDocumentRequest struct {
	Kind string `json:"kind"`
}

// RecordDocument handles POST /api/v1/loads/:id/documents.
func (s *Server) RecordDocument(ctx echo.Context) error {
	loadID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid load id")
	}
	var req recordDocumentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewRecordDocumentCommand(loadID, load.DocumentKind(req.Kind))
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err := s.recordDocumentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetLoadAudit handles GET /api/v1/loads/:id/audit.
func (s *Server) GetLoadAudit(ctx echo.Context) error {
	return s.auditTrail(ctx, audit.EntityLoad)
}

// GetConvoyAudit handles GET /api/v1/convoys/:id/audit.
func (s *Server) GetConvoyAudit(ctx echo.Context) error {
	return s.auditTrail(ctx, audit.EntityConvoy)
}

func (s *Server) auditTrail(ctx echo.Context, kind audit.EntityKind) error {
	entityID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid entity id")
	}

	query, err := queries.NewGetAuditTrailQuery(kind, entityID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	trail, err := s.getAuditTrailHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, trail)
}

type stateInfo struct {
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Final          bool     `json:"final"`
	CargoException bool     `json:"cargo_exception"`
	AllowedRoles   []string `json:"allowed_roles,omitempty"`
	RequiresGPS    bool     `json:"requires_gps"`
}

// ListStates handles GET /api/v1/states.
func (s *Server) ListStates(ctx echo.Context) error {
	states := load.AllStates()
	infos := make([]stateInfo, 0, len(states))
	for _, state := range states {
		info := stateInfo{
			Name:           state.String(),
			Category:       state.Category().String(),
			Final:          state.IsFinal(),
			CargoException: state.IsCargoException(),
		}
		if m, ok := load.Metadata(state); ok {
			for _, r := range m.AllowedRoles.Members() {
				info.AllowedRoles = append(info.AllowedRoles, r.String())
			}
			info.RequiresGPS = m.RequiresGPS
		}
		infos = append(infos, info)
	}
	return ctx.JSON(http.StatusOK, infos)
}

type createConvoyRequest struct {
	LoadID       string `json:"load_id"`
	LeadEscortID string `json:"lead_escort_id"`
	RearEscortID string `json:"rear_escort_id"`
}

// CreateConvoy handles POST /api/v1/convoys.
func (s *Server) CreateConvoy(ctx echo.Context) error {
	var req createConvoyRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	loadID, err := kernel.UUIDFromString(req.LoadID)
	if err != nil {
		return badRequest(ctx, "invalid load_id")
	}
	leadEscortID, err := kernel.UUIDFromString(req.LeadEscortID)
	if err != nil {
		return badRequest(ctx, "invalid lead_escort_id")
	}
	var rearEscortID *kernel.UUID
	if req.RearEscortID != "" {
		rear, rErr := kernel.UUIDFromString(req.RearEscortID)
		if rErr != nil {
			return badRequest(ctx, "invalid rear_escort_id")
		}
		rearEscortID = &rear
	}

	convoyID := kernel.NewUUID()
	cmd, err := commands.NewCreateConvoyCommand(convoyID, loadID, leadEscortID, rearEscortID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err := s.createConvoyHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{
		"id":     convoyID.String(),
		"status": convoy.EscortRequested.String(),
	})
}

// GetConvoy handles GET /api/v1/convoys/:id.
func (s *Server) GetConvoy(ctx echo.Context) error {
	convoyID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid convoy id")
	}

	query, err := queries.NewGetConvoyQuery(convoyID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	snapshot, err := s.getConvoyHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, snapshot)
}

type advanceConvoyRequest struct {
	Target    string `json:"target"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
}

// AdvanceConvoy handles POST /api/v1/convoys/:id/status.
func (s *Server) AdvanceConvoy(ctx echo.Context) error {
	convoyID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid convoy id")
	}
	var req advanceConvoyRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	target, err := convoy.StatusFromString(req.Target)
	if err != nil {
		return badRequest(ctx, "invalid target status")
	}
	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "invalid actor_id")
	}
	role, err := load.RoleFromString(req.ActorRole)
	if err != nil {
		return badRequest(ctx, "invalid actor_role")
	}

	cmd, err := commands.NewAdvanceConvoyCommand(convoyID, target, load.Actor{ID: actorID, Role: role})
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err := s.advanceConvoyHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

type reportSeparationRequest struct {
	LeadM float64 `json:"lead_m"`
	RearM float64 `json:"rear_m"`
}

// ReportSeparation handles POST /api/v1/convoys/:id/distances.
func (s *Server) ReportSeparation(ctx echo.Context) error {
	convoyID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid convoy id")
	}
	var req reportSeparationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewReportSeparationCommand(convoyID, req.LeadM, req.RearM)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err := s.reportSeparationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

// writeError maps engine and persistence errors onto HTTP statuses.
func writeError(ctx echo.Context, err error) error {
	var status int
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, commands.ErrTransitionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, commands.ErrUnauthorizedActor):
		status = http.StatusForbidden
	case errors.Is(err, commands.ErrGuardFailed):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, commands.ErrInvalidTransition),
		errors.Is(err, commands.ErrConcurrentModification),
		errors.Is(err, convoy.ErrStatusNotAllowed),
		errors.Is(err, convoy.ErrConvoyIsTerminal):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	return ctx.JSON(status, Error{Code: status, Message: err.Error()})
}
