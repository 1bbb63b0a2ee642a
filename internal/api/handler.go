package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/surakshapay/vigil/internal/detector"
	"github.com/surakshapay/vigil/internal/domain"
	"github.com/surakshapay/vigil/internal/intent"
	"github.com/surakshapay/vigil/internal/repository"
	"github.com/surakshapay/vigil/internal/rules"
)

const intentCacheTTL = 5 * time.Minute

// Handler holds dependencies for API handlers.
type Handler struct {
	repo      domain.Repository
	cache     domain.Cache
	bus       domain.EventBus
	detector  *detector.Detector
	extractor *intent.Extractor
	engine    *rules.Engine
	version   string
}

// NewHandler creates a new API handler.
func NewHandler(repo domain.Repository, cache domain.Cache, bus domain.EventBus, det *detector.Detector, extractor *intent.Extractor, engine *rules.Engine, version string) *Handler {
	return &Handler{
		repo:      repo,
		cache:     cache,
		bus:       bus,
		detector:  det,
		extractor: extractor,
		engine:    engine,
		version:   version,
	}
}

// DetectFraudRequest is the request body for POST /detect-fraud.
// Amount is decoded leniently: numbers and numeric strings are both
// accepted, anything else scores as zero.
type DetectFraudRequest struct {
	UserID        string `json:"user_id"`
	Amount        any    `json:"amount"`
	Description   string `json:"description"`
	RecipientName string `json:"recipient_name"`
	VoiceCommand  string `json:"voice_command"`
}

// DetectFraud handles POST /detect-fraud requests.
func (h *Handler) DetectFraud(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "No data provided",
		})
		return
	}

	// A body that decodes to nothing (empty, "null", "{}") carries no
	// transaction and is rejected, not scored as all-zero.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "No data provided",
		})
		return
	}

	var req DetectFraudRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "No data provided",
		})
		return
	}

	tx := &domain.Transaction{
		UserID:        req.UserID,
		Amount:        coerceAmount(req.Amount),
		Description:   req.Description,
		RecipientName: req.RecipientName,
		VoiceCommand:  req.VoiceCommand,
	}

	assessment := h.detector.Assess(ctx, tx)

	// Audit trail, best effort
	if h.repo != nil {
		if err := h.repo.SaveTransaction(ctx, tx); err != nil {
			slog.Error("failed to save transaction", "error", err)
		}
		if err := h.repo.SaveAssessment(ctx, assessment); err != nil {
			slog.Error("failed to save assessment", "assessment_id", assessment.ID, "error", err)
		}
	}

	if h.bus != nil {
		payload, err := json.Marshal(assessment)
		if err == nil {
			if err := h.bus.Publish(ctx, domain.TopicAssessment, payload); err != nil {
				slog.Error("failed to publish assessment", "error", err)
			}
			if assessment.IsFraud {
				if err := h.bus.Publish(ctx, domain.TopicAlert, payload); err != nil {
					slog.Error("failed to publish alert", "error", err)
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, assessment)
}

// coerceAmount accepts JSON numbers and numeric strings. Anything
// else is logged and treated as zero.
func coerceAmount(v any) float64 {
	switch a := v.(type) {
	case nil:
		return 0
	case float64:
		return a
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			slog.Warn("unparseable amount in request", "amount", a)
			return 0
		}
		return f
	default:
		slog.Warn("unsupported amount type in request", "amount", v)
		return 0
	}
}

// ProcessVoiceRequest is the request body for POST /process-voice.
type ProcessVoiceRequest struct {
	Command string `json:"command"`
	UserID  string `json:"user_id"`
}

// ProcessVoice handles POST /process-voice requests.
func (h *Handler) ProcessVoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ProcessVoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Command == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "No command provided",
		})
		return
	}

	// The ledger and the cache key use the normalized form; extraction
	// sees the raw command so recipient names keep their casing.
	normalized := strings.ToLower(req.Command)

	// Log the voice command against the user's activity ledger
	if req.UserID != "" {
		h.detector.RecordVoiceCommand(req.UserID, normalized)
	}

	if h.cache != nil {
		if cached, err := h.cache.GetIntent(ctx, normalized); err == nil && cached != nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	result := h.extractor.Extract(req.Command)

	if h.cache != nil {
		if err := h.cache.SetIntent(ctx, normalized, result, intentCacheTTL); err != nil {
			slog.Warn("failed to cache intent", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	// Check repository health
	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	// Check cache health
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":    status,
		"service":   "vigil",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

// GetAssessment retrieves an assessment by ID.
func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assessmentID := chi.URLParam(r, "id")

	if assessmentID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "assessment id is required",
		})
		return
	}

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	a, err := h.repo.GetAssessment(ctx, assessmentID)
	if err != nil {
		if err != repository.ErrNotFound {
			slog.Error("failed to get assessment", "id", assessmentID, "error", err)
		}
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "assessment not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// ListRules returns all loaded custom rules from the engine.
// Rules are loaded from the database at startup and can be reloaded via POST /rules/reload.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	loadedRules := h.engine.GetLoadedRules()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rules":  loadedRules,
		"count":  len(loadedRules),
		"source": "database",
	})
}

// GetRule retrieves a custom rule by ID from the loaded engine rules.
func (h *Handler) GetRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "id")

	if ruleID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "rule id is required",
		})
		return
	}

	for _, rule := range h.engine.GetLoadedRules() {
		if rule.ID == ruleID {
			writeJSON(w, http.StatusOK, rule)
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "rule not found",
	})
}

// CreateRuleRequest is the request body for creating a custom rule.
type CreateRuleRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Expression  string `json:"expression"`
	Indicator   string `json:"indicator,omitempty"`
	Weight      int    `json:"weight"`
	Enabled     bool   `json:"enabled"`
}

// CreateRule creates a new custom rule and saves it to the database.
// After saving, call POST /rules/reload to hot-reload into the engine.
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	// Validate
	if req.ID == "" || req.Name == "" || req.Expression == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "id, name, and expression are required",
		})
		return
	}
	if req.Weight <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "weight must be positive",
		})
		return
	}

	rule := &domain.CustomRule{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Version:     "1",
		Expression:  req.Expression,
		Indicator:   req.Indicator,
		Weight:      req.Weight,
		Enabled:     req.Enabled,
	}

	// Validate CEL expression before persisting
	if err := h.engine.ValidateRule(rule); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid CEL expression: " + err.Error(),
		})
		return
	}

	if h.repo != nil {
		if err := h.repo.SaveCustomRule(ctx, rule); err != nil {
			slog.Error("failed to save custom rule", "id", rule.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to save rule",
			})
			return
		}
	}

	slog.Info("custom rule created", "id", rule.ID, "name", rule.Name)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"rule":    rule,
		"message": "Rule created. Call POST /rules/reload to apply changes.",
	})
}

// ReloadRules reloads all custom rules from the database into the engine.
// This enables hot-reloading without server restart.
func (h *Handler) ReloadRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	dbRules, err := h.repo.ListCustomRules(ctx)
	if err != nil {
		slog.Error("failed to list rules from database", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load rules from database",
		})
		return
	}

	if err := h.engine.ReloadRules(dbRules); err != nil {
		slog.Error("failed to reload rules into engine", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to reload rules: " + err.Error(),
		})
		return
	}

	slog.Info("custom rules reloaded from database", "count", len(dbRules))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "rules reloaded successfully",
		"count":   len(dbRules),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
