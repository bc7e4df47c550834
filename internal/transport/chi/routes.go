package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is the set of HTTP operations served by the router.
type ServerInterface interface {
	// ListCandidates handles GET /v1/users/{userID}/candidates.
	ListCandidates(w http.ResponseWriter, r *http.Request, userID string, params ListCandidatesParams)
	// RunMagicMatch handles POST /v1/users/{userID}/magic-match.
	RunMagicMatch(w http.ResponseWriter, r *http.Request, userID string)
	// GetMagicMatchReason handles GET /v1/users/{userID}/magic-match/{candidateID}.
	GetMagicMatchReason(w http.ResponseWriter, r *http.Request, userID, candidateID string)
	// RecordAction handles POST /v1/users/{userID}/actions.
	RecordAction(w http.ResponseWriter, r *http.Request, userID string)
	// HealthCheck handles GET /health.
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// Metrics handles GET /metrics.
	Metrics(w http.ResponseWriter, r *http.Request)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions mounts si on options.BaseRouter (a new router when nil).
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	onErr := options.ErrorHandlerFunc
	if onErr == nil {
		onErr = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	b := binder{si: si, onErr: onErr}

	r.Get("/health", si.HealthCheck)
	r.Get("/metrics", si.Metrics)
	r.Route("/v1/users/{userID}", func(r chi.Router) {
		r.Get("/candidates", b.listCandidates)
		r.Post("/magic-match", b.runMagicMatch)
		r.Get("/magic-match/{candidateID}", b.getMagicMatchReason)
		r.Post("/actions", b.recordAction)
	})
	return r
}

// binder decodes path and query parameters before calling the server.
type binder struct {
	si    ServerInterface
	onErr func(w http.ResponseWriter, r *http.Request, err error)
}

func (b binder) listCandidates(w http.ResponseWriter, r *http.Request) {
	userID, ok := b.pathParam(w, r, "userID")
	if !ok {
		return
	}
	var params ListCandidatesParams
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "sort", query, &params.Sort); err != nil {
		b.onErr(w, r, fmt.Errorf("invalid format for parameter sort: %w", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		b.onErr(w, r, fmt.Errorf("invalid format for parameter limit: %w", err))
		return
	}
	b.si.ListCandidates(w, r, userID, params)
}

func (b binder) runMagicMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := b.pathParam(w, r, "userID")
	if !ok {
		return
	}
	b.si.RunMagicMatch(w, r, userID)
}

func (b binder) getMagicMatchReason(w http.ResponseWriter, r *http.Request) {
	userID, ok := b.pathParam(w, r, "userID")
	if !ok {
		return
	}
	candidateID, ok := b.pathParam(w, r, "candidateID")
	if !ok {
		return
	}
	b.si.GetMagicMatchReason(w, r, userID, candidateID)
}

func (b binder) recordAction(w http.ResponseWriter, r *http.Request) {
	userID, ok := b.pathParam(w, r, "userID")
	if !ok {
		return
	}
	b.si.RecordAction(w, r, userID)
}

func (b binder) pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		b.onErr(w, r, fmt.Errorf("invalid format for parameter %s: %w", name, err))
		return "", false
	}
	return v, true
}
