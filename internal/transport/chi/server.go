package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/momcircle/matchd/internal/domain"
	"github.com/momcircle/matchd/internal/domain/interaction"
	dommm "github.com/momcircle/matchd/internal/domain/magicmatch"
	domrank "github.com/momcircle/matchd/internal/domain/ranking"
	healthuc "github.com/momcircle/matchd/internal/usecase/health"
)

const maxBodyBytes = 16 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Ranker ranks candidates for a viewer.
type Ranker interface {
	Rank(
		ctx context.Context, viewerID string, mode domrank.SortMode, limit int,
	) ([]domrank.CandidateScore, domrank.SortMode, error)
}

// MagicMatcher runs Magic Match and serves cached justifications.
type MagicMatcher interface {
	Select(ctx context.Context, viewerID string) (dommm.Result, error)
	CachedPick(viewerID, candidateID string) (dommm.Result, bool)
}

// ActionRecorder records interest actions.
type ActionRecorder interface {
	RecordAction(
		ctx context.Context, from, to string, choice interaction.Choice, origin interaction.Origin,
	) (interaction.Outcome, error)
}

// HealthChecker reports dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server implements ServerInterface.
type Server struct {
	ranking       Ranker
	magic         MagicMatcher
	actions       ActionRecorder
	health        HealthChecker
	validate      *validator.Validate
	logger        *zap.Logger
	defaultLimit  int
	maxLimit      int
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	ranking Ranker,
	magic MagicMatcher,
	actions ActionRecorder,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ranking:      ranking,
		magic:        magic,
		actions:      actions,
		health:       health,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       logger,
		defaultLimit: 20,
		maxLimit:     100,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrProviderError, http.StatusBadGateway, ErrorCodeProviderError),
		sentinelHandler(domain.ErrMalformedPick, http.StatusBadGateway, ErrorCodeProviderError),
	}
	return s
}

// WithPagination sets the default and maximum candidate list size.
func (s *Server) WithPagination(defaultLimit, maxLimit int) *Server {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	return s
}

// ListCandidates handles GET /v1/users/{userID}/candidates.
func (s *Server) ListCandidates(w http.ResponseWriter, r *http.Request, userID string, params ListCandidatesParams) {
	var sortParam string
	if params.Sort != nil {
		sortParam = *params.Sort
	}
	mode, err := domrank.ParseSortMode(sortParam)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	limit := s.defaultLimit
	if params.Limit != nil {
		if *params.Limit <= 0 || *params.Limit > s.maxLimit {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("limit must be between 1 and %d", s.maxLimit))
			return
		}
		limit = *params.Limit
	}

	ranked, applied, err := s.ranking.Rank(r.Context(), userID, mode, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]CandidateItem, len(ranked))
	for i := range ranked {
		items[i] = candidateToItem(&ranked[i])
	}
	writeJSON(w, http.StatusOK, CandidateListResponse{Sort: string(applied), Items: items})
}

// RunMagicMatch handles POST /v1/users/{userID}/magic-match.
func (s *Server) RunMagicMatch(w http.ResponseWriter, r *http.Request, userID string) {
	res, err := s.magic.Select(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if res.RateLimited {
		w.Header().Set("X-Match-Rate-Limited", "true")
	}
	writeJSON(w, http.StatusOK, magicMatchToResponse(&res))
}

// GetMagicMatchReason handles GET /v1/users/{userID}/magic-match/{candidateID}.
func (s *Server) GetMagicMatchReason(w http.ResponseWriter, _ *http.Request, userID, candidateID string) {
	res, ok := s.magic.CachedPick(userID, candidateID)
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "no magic match reason for this pair")
		return
	}
	writeJSON(w, http.StatusOK, magicMatchToResponse(&res))
}

// RecordAction handles POST /v1/users/{userID}/actions.
func (s *Server) RecordAction(w http.ResponseWriter, r *http.Request, userID string) {
	var req ActionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, validationMessage(err))
		return
	}

	out, err := s.actions.RecordAction(r.Context(), userID, req.ToUser,
		interaction.Choice(req.Choice), interaction.Origin(req.Origin))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	status := http.StatusOK
	if out.Kind == interaction.MutualMatch {
		status = http.StatusCreated
	}
	writeJSON(w, status, outcomeToResponse(&out))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// BindErrorHandler renders parameter binding failures as a JSON 400.
func BindErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// validationMessage lists the failing fields without echoing values.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		parts[i] = fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag())
	}
	return strings.Join(parts, "; ")
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Invalid input keeps its detail: it only ever describes the caller's own arguments.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrProviderError,
		domain.ErrMalformedPick,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
