// Package api provides HTTP handlers for the contract generation API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/artpar/contractor/internal/core/contract"
	"github.com/artpar/contractor/internal/shell/pipeline"
	"github.com/artpar/contractor/internal/shell/render"
	"github.com/artpar/contractor/internal/shell/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// =============================================================================
// Handler
// =============================================================================

// Renderer abstracts the PDF renderer for the handler.
type Renderer interface {
	Render(doc render.Document) (*render.Result, error)
	OutputDir() string
}

// Handler provides HTTP handlers for the API.
type Handler struct {
	store       store.TemplateStore
	transformer pipeline.Transformer
	renderer    Renderer
	logger      *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.TemplateStore, t pipeline.Transformer, r Renderer, l *slog.Logger) *Handler {
	if l == nil {
		l = slog.Default()
	}
	if t == nil {
		t = pipeline.NewPassthrough()
	}
	return &Handler{
		store:       s,
		transformer: t,
		renderer:    r,
		logger:      l,
	}
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestIDHeader)

	// Health endpoints
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)

	// Contract endpoints
	r.Post("/create-contract", h.handleCreateContract)
	r.Get("/contracts/{filename}", h.handleGetContract)
	r.Get("/templates", h.handleListTemplates)

	return r
}

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if _, err := h.store.List(r.Context()); err != nil {
		checks["store"] = "failed"
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Checks: checks,
		})
		return
	}
	checks["store"] = "ok"

	if err := os.MkdirAll(h.renderer.OutputDir(), 0o755); err != nil {
		checks["output_dir"] = "failed"
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Checks: checks,
		})
		return
	}
	checks["output_dir"] = "ok"

	h.writeJSON(w, http.StatusOK, ReadyResponse{
		Status: "ready",
		Checks: checks,
	})
}

// =============================================================================
// Contract Handlers
// =============================================================================

func (h *Handler) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	var req CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	kind := contract.NormalizeKind(req.TemplateType)

	// Validation needs only the field declaration, not section bodies.
	reqs, err := h.store.Requirements(r.Context(), kind)
	if err != nil && !store.IsNotFound(err) {
		h.logger.Error("failed to load template requirements", "kind", kind, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load template", "internal_error")
		return
	}

	result := contract.Validate(req.TemplateType, reqs, req.Variables)
	if !result.TemplateFound {
		h.writeError(w, http.StatusBadRequest, "unknown template type: "+req.TemplateType, "template_not_found")
		return
	}
	if !result.IsValid {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:         "missing required variables: " + strings.Join(result.MissingFields, ", "),
			Code:          "missing_required_fields",
			MissingFields: result.MissingFields,
		})
		return
	}

	def, err := h.store.Load(r.Context(), kind)
	if err != nil {
		h.logger.Error("failed to load template", "kind", kind, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load template", "internal_error")
		return
	}

	draft := contract.BuildDraft(def, req.Variables, req.Customizations)

	language := req.Language
	if language == "" {
		language = pipeline.DefaultLanguage
	}

	final, err := h.transformer.Transform(r.Context(), draft, language)
	if err != nil {
		h.logger.Error("contract pipeline failed", "kind", kind, "error", err)
		h.writeError(w, http.StatusInternalServerError, "contract pipeline failed", "pipeline_failure")
		return
	}

	recipient := contract.RecipientName(kind, req.Variables)

	res, err := h.renderer.Render(render.Document{
		Kind:      kind,
		Recipient: recipient,
		Content:   final,
	})
	if err != nil {
		h.logger.Error("failed to render contract", "kind", kind, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to generate PDF", "render_failure")
		return
	}

	h.writeJSON(w, http.StatusOK, CreateContractResponse{
		Status: "success",
		Contract: ContractInfo{
			Type:        kind,
			Recipient:   recipient,
			FileURL:     "/contracts/" + res.Filename,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (h *Handler) handleGetContract(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	// Reject anything that could escape the output directory.
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		h.writeError(w, http.StatusNotFound, "contract not found", "contract_not_found")
		return
	}

	path := filepath.Join(h.renderer.OutputDir(), filename)
	if _, err := os.Stat(path); err != nil {
		h.writeError(w, http.StatusNotFound, "contract not found", "contract_not_found")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeFile(w, r, path)
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	defs, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list templates", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list templates", "internal_error")
		return
	}

	resp := ListTemplatesResponse{
		Templates: make([]TemplateInfo, 0, len(defs)),
		Total:     len(defs),
	}
	for _, def := range defs {
		resp.Templates = append(resp.Templates, TemplateInfo{
			Kind:           def.Kind,
			RequiredFields: def.RequiredFields,
			OptionalFields: def.OptionalFields,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Response Helpers
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
