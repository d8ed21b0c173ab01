// Package api exposes the assessment service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/assess-cli/internal/assess"
	"github.com/sells-group/assess-cli/internal/config"
	"github.com/sells-group/assess-cli/internal/metrics"
	"github.com/sells-group/assess-cli/internal/model"
	"github.com/sells-group/assess-cli/internal/rules"
	"github.com/sells-group/assess-cli/pkg/ytj"
)

const (
	maxBodyBytes        = 1 << 20
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

// Assessor is the part of assess.Service the API depends on.
type Assessor interface {
	Assess(ctx context.Context, input model.ProjectInput) (*assess.Assessment, error)
	BaseConfig() rules.Config
}

// Handler serves the API routes.
type Handler struct {
	assessor  Assessor
	companies ytj.Client
	validator *Validator
}

// NewHandler wires the API dependencies. companies may be nil, in which
// case the company lookup routes answer 503.
func NewHandler(a Assessor, companies ytj.Client, v *Validator) *Handler {
	if v == nil {
		v = NewValidator(0, 0)
	}
	return &Handler{assessor: a, companies: companies, validator: v}
}

// NewRouter mounts h under /api alongside /health and /metrics.
func NewRouter(h *Handler, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(newClientLimiter(cfg.RateLimit, cfg.RateBurst).middleware)
		}
		r.Post("/assess", h.Assess)
		r.Get("/config", h.Config)
		r.Get("/companies/by-business-id", h.CompanyByBusinessID)
		r.Get("/companies/autocomplete", h.Autocomplete)
	})
	return r
}

// Assess handles POST /api/assess.
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	var input model.ProjectInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validator.Check(&input); err != nil {
		writeProblem(w, err)
		return
	}

	out, err := h.assessor.Assess(r.Context(), input)
	if err != nil {
		writeProblem(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Config handles GET /api/config with the rule configuration the service
// starts from.
func (h *Handler) Config(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rules.NewOutput(h.assessor.BaseConfig(), nil))
}

type companiesResponse struct {
	Companies []ytj.Company `json:"companies"`
}

// CompanyByBusinessID handles GET /api/companies/by-business-id. The
// response lists zero or one company.
func (h *Handler) CompanyByBusinessID(w http.ResponseWriter, r *http.Request) {
	if h.companies == nil {
		writeError(w, http.StatusServiceUnavailable, "company lookup is not configured")
		return
	}
	id := model.NormalizeBusinessID(r.URL.Query().Get("businessId"))
	if !model.ValidBusinessID(id) {
		writeError(w, http.StatusBadRequest, "businessId: is not a valid business id")
		return
	}

	c, err := h.companies.ByBusinessID(r.Context(), id)
	if err != nil {
		zap.L().Error("api: company lookup failed", zap.String("business_id", id), zap.Error(err))
		writeError(w, http.StatusBadGateway, "company registry unavailable")
		return
	}
	resp := companiesResponse{Companies: []ytj.Company{}}
	if c != nil {
		resp.Companies = append(resp.Companies, *c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Autocomplete handles GET /api/companies/autocomplete.
func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	if h.companies == nil {
		writeError(w, http.StatusServiceUnavailable, "company lookup is not configured")
		return
	}
	q := r.URL.Query()
	partial := strings.TrimSpace(q.Get("partialName"))
	if partial == "" {
		writeError(w, http.StatusBadRequest, "partialName: is required")
		return
	}
	limit := defaultSuggestLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxSuggestLimit {
			writeError(w, http.StatusBadRequest, "limit: must be an integer between 1 and "+strconv.Itoa(maxSuggestLimit))
			return
		}
		limit = n
	}

	list, err := h.companies.Autocomplete(r.Context(), partial, limit)
	if err != nil {
		zap.L().Error("api: autocomplete failed", zap.String("partial_name", partial), zap.Error(err))
		writeError(w, http.StatusBadGateway, "company registry unavailable")
		return
	}
	if list == nil {
		list = []ytj.Company{}
	}
	writeJSON(w, http.StatusOK, companiesResponse{Companies: list})
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// writeProblem maps service errors onto status codes.
func writeProblem(w http.ResponseWriter, err error) {
	var verr *ValidationError
	var uerr *assess.UpstreamError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request", Details: verr.Details})
	case eris.Is(err, rules.ErrInvalidConfig), eris.Is(err, assess.ErrEmptyConsortium):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &uerr):
		zap.L().Error("api: upstream failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, "qualitative assessment failed: "+uerr.Err.Error())
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request canceled")
	default:
		zap.L().Error("api: assessment failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("api: write response", zap.Error(err))
	}
}
