package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/rulesengine"
)

type RuleHandler struct {
	ruleRepo *repository.RuleRepository
	rules    *rulesengine.Engine
}

func NewRuleHandler(ruleRepo *repository.RuleRepository, rules *rulesengine.Engine) *RuleHandler {
	return &RuleHandler{ruleRepo: ruleRepo, rules: rules}
}

func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	sectorID, err := uuid.Parse(r.URL.Query().Get("sector_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "sector_id query param required")
		return
	}
	asOf := time.Now().UTC()
	if asOfStr := r.URL.Query().Get("as_of"); asOfStr != "" {
		parsed, err := time.Parse(time.RFC3339, asOfStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid as_of timestamp")
			return
		}
		asOf = parsed
	}
	activeOnly := r.URL.Query().Get("active_only") != "false"

	rules, err := h.rules.FetchRules(r.Context(), sectorID, asOf, activeOnly)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rules)
}

func (h *RuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid rule id")
		return
	}
	rule, err := h.ruleRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rule)
}

type createRuleRequest struct {
	model.Rule
	AutoGenerateCode bool `json:"auto_generate_code"`
}

func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rule := req.Rule
	if req.AutoGenerateCode || rule.Code == "" {
		code, err := rulesengine.EnsureUniqueCode(r.Context(), h.ruleRepo, rule.Title, rule.Kind, rule.SectorID)
		if err != nil {
			respondEngineError(w, err)
			return
		}
		rule.Code = code
	}
	if err := h.ruleRepo.Create(r.Context(), &rule); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rule)
}

func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid rule id")
		return
	}
	rule, err := h.ruleRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if err := middleware.DecodeJSONBody(r, rule); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rule.ID = id
	if err := h.ruleRepo.Update(r.Context(), rule); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rule)
}

type reorderRequest struct {
	SectorID *uuid.UUID         `json:"sector_id"`
	Kind     model.RuleKind     `json:"kind"`
	Rigidity model.RuleRigidity `json:"rigidity"`
	RuleIDs  []uuid.UUID        `json:"rule_ids"`
}

func (h *RuleHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.rules.Reorder(r.Context(), req.SectorID, req.Kind, req.Rigidity, req.RuleIDs); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}

func (h *RuleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	sectorID, err := uuid.Parse(r.URL.Query().Get("sector_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "sector_id query param required")
		return
	}
	var values rulesengine.CandidateValues
	if err := middleware.DecodeJSONBody(r, &values); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	violations, err := h.rules.Validate(r.Context(), sectorID, values)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"violations": violations})
}

func (h *RuleHandler) GetConstraints(w http.ResponseWriter, r *http.Request) {
	sectorID, err := uuid.Parse(r.URL.Query().Get("sector_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "sector_id query param required")
		return
	}
	asOf := time.Now().UTC()
	if asOfStr := r.URL.Query().Get("as_of"); asOfStr != "" {
		parsed, err := time.Parse(time.RFC3339, asOfStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid as_of timestamp")
			return
		}
		asOf = parsed
	}
	constraints, err := h.rules.GetConstraints(r.Context(), sectorID, asOf)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, constraints)
}
