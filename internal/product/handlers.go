package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/api"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/catalog"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/customization"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/events"
)

type Handlers struct {
	Products *Repository
	Catalog  *catalog.Repository
	Events   *events.Repository
	Bulk     *customization.BulkAssigner
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Products.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	writeJSON(w, map[string]any{"items": items})
}

func (h Handlers) GetCustomization(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	cfg, err := h.Products.Load(r.Context(), productID)
	if err != nil {
		if errors.Is(err, customization.ErrProductNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "unknown product")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	writeJSON(w, cfg)
}

type previewResponse struct {
	Corrected               customization.ProductConfig `json:"corrected"`
	Errors                  []customization.Issue       `json:"errors"`
	Warnings                []customization.Issue       `json:"warnings"`
	Changes                 customization.ChangeSet     `json:"changes"`
	HasChanges              bool                        `json:"hasChanges"`
	HasRequiredGroupRemoval bool                        `json:"hasRequiredGroupRemoval"`
}

// Preview is the dry-run the edit form calls before submit: auto-corrects the
// draft, validates it, and diffs it against the stored snapshot. Nothing is
// persisted.
func (h Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	var draft customization.ProductConfig
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	draft.ProductID = productID

	original, err := h.Products.Load(r.Context(), productID)
	if err != nil {
		if errors.Is(err, customization.ErrProductNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "unknown product")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	cat, err := h.Catalog.Load(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	corrected := customization.AutoCorrect(draft)
	res := customization.Validate(corrected, cat)
	changes := customization.Diff(original, corrected, cat)

	writeJSON(w, previewResponse{
		Corrected:               corrected,
		Errors:                  res.Errors,
		Warnings:                res.Warnings,
		Changes:                 changes,
		HasChanges:              changes.HasChanges(),
		HasRequiredGroupRemoval: changes.HasRequiredGroupRemoval(),
	})
}

type putRequest struct {
	Config customization.ProductConfig `json:"config"`

	// ConfirmWarnings acknowledges validation warnings; without it a config
	// with warnings is rejected so nothing is silently waved through.
	ConfirmWarnings bool `json:"confirmWarnings"`

	// ConfirmRequiredGroupRemoval acknowledges the removal of a required
	// option group, the one edit that can leave live orders without a valid
	// default configuration.
	ConfirmRequiredGroupRemoval bool `json:"confirmRequiredGroupRemoval"`
}

// Put validates, diffs, and persists an edited configuration.
func (h Handlers) Put(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	var req putRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	req.Config.ProductID = productID

	original, err := h.Products.Load(r.Context(), productID)
	if err != nil {
		if errors.Is(err, customization.ErrProductNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "unknown product")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	cat, err := h.Catalog.Load(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	corrected := customization.AutoCorrect(req.Config)
	res := customization.Validate(corrected, cat)
	if !res.Valid() {
		api.WriteErrorDetails(w, http.StatusBadRequest, "VALIDATION_FAILED", res.ErrorMessage(), res)
		return
	}

	changes := customization.Diff(original, corrected, cat)
	if changes.HasRequiredGroupRemoval() && !req.ConfirmRequiredGroupRemoval {
		api.WriteErrorDetails(w, http.StatusConflict, "CONFIRM_REQUIRED",
			"removing a required option group needs explicit confirmation", changes)
		return
	}
	if len(res.Warnings) > 0 && !req.ConfirmWarnings {
		api.WriteErrorDetails(w, http.StatusConflict, "CONFIRM_REQUIRED",
			"configuration has warnings that need confirmation", res)
		return
	}

	// The change event commits in the same transaction as the config write, so
	// a successful response always implies the history entry exists.
	if changes.HasChanges() {
		summary := fmt.Sprintf("configuration updated (%d change(s))", changeCount(changes))
		err = h.Products.SubmitWithEvent(r.Context(), corrected, events.TypeConfigUpdated, summary, actorEmail(r), changes)
	} else {
		err = h.Products.Submit(r.Context(), corrected)
	}
	if err != nil {
		if errors.Is(err, customization.ErrProductNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "unknown product")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	writeJSON(w, map[string]any{"config": corrected, "changes": changes})
}

type bulkAssignRequest struct {
	ProductIDs []string                      `json:"productIds"`
	Assignment customization.GroupAssignment `json:"assignment"`
}

type bulkAssignResponse struct {
	OperationID string                      `json:"operationId"`
	Succeeded   []string                    `json:"succeeded"`
	Failed      []customization.BulkFailure `json:"failed"`
}

// BulkAssign applies one option-group assignment to many products. Partial
// failure is the expected shape here: the response always reports per-product
// outcomes and the request itself succeeds.
func (h Handlers) BulkAssign(w http.ResponseWriter, r *http.Request) {
	var req bulkAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if len(req.ProductIDs) == 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "productIds must not be empty")
		return
	}

	cat, err := h.Catalog.Load(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	// A bad assignment would fail every product identically; reject it once up
	// front instead of reporting N copies of the same error.
	if _, ok := cat.Group(req.Assignment.GroupID); !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED",
			fmt.Sprintf("unknown option group %q", req.Assignment.GroupID))
		return
	}

	result := h.Bulk.Assign(r.Context(), cat, req.ProductIDs, req.Assignment)

	operationID := uuid.NewString()
	actor := actorEmail(r)
	summary := fmt.Sprintf("bulk assign %q (operation %s)", req.Assignment.GroupID, operationID)
	for _, productID := range result.Succeeded {
		_ = h.Events.Record(r.Context(), productID, events.TypeBulkAssign, summary, actor, req.Assignment)
	}

	writeJSON(w, bulkAssignResponse{
		OperationID: operationID,
		Succeeded:   result.Succeeded,
		Failed:      result.Failed,
	})
}

func (h Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	items, err := h.Events.ListByProduct(r.Context(), productID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	writeJSON(w, map[string]any{"items": items})
}

func (h Handlers) GetCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := h.Catalog.Load(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	writeJSON(w, cat)
}

func actorEmail(r *http.Request) string {
	if a := api.AdminFromContext(r.Context()); a != nil {
		return a.Email
	}
	return ""
}

func changeCount(cs customization.ChangeSet) int {
	return len(cs.Fields) + len(cs.Groups) + len(cs.Containers) + len(cs.Sizes)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
