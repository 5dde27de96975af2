package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gestio-app/gestio-backend-go/internal/domain/code"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/middleware"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/response"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/cache"
	"github.com/go-chi/chi/v5"
)

type CodeHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Redeem(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListUsages(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type CodeHandlerImpl struct {
	codeService code.CodeService
	cacheStore  *cache.Store
}

func NewCodeHandler(codeService code.CodeService, cacheStore *cache.Store) CodeHandler {
	return &CodeHandlerImpl{
		codeService: codeService,
		cacheStore:  cacheStore,
	}
}

// Generate implements CodeHandler.
func (h *CodeHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req code.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Generate code decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	generated, err := h.codeService.Generate(r.Context(), middleware.CompanyID(r), middleware.AccountID(r), req)
	if err != nil {
		slog.Error("Generate code service error", "error", err)
		response.HandleError(w, err)
		return
	}

	h.cacheStore.InvalidatePrefix("/api/v1/codes")
	slog.Info("Invitation code generated", "code", generated.Code)
	response.Created(w, "Invitation code generated", generated)
}

// Redeem implements CodeHandler.
func (h *CodeHandlerImpl) Redeem(w http.ResponseWriter, r *http.Request) {
	var req code.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Redeem decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	redeemed, err := h.codeService.Redeem(r.Context(), middleware.AccountID(r), req, code.Tracking{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		slog.Error("Redeem service error", "error", err)
		response.HandleError(w, err)
		return
	}

	h.cacheStore.InvalidatePrefix("/api/v1/codes")
	h.cacheStore.InvalidatePrefix("/api/v1/accounts")
	slog.Info("Invitation code redeemed", "company_id", redeemed.Company.ID)
	response.SuccessWithMessage(w, "Invitation code redeemed", redeemed)
}

// List implements CodeHandler.
func (h *CodeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.codeService.ListByCompany(r.Context(), middleware.CompanyID(r))
	if err != nil {
		slog.Error("List codes service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, codes)
}

// ListUsages implements CodeHandler.
func (h *CodeHandlerImpl) ListUsages(w http.ResponseWriter, r *http.Request) {
	usages, err := h.codeService.ListUsages(r.Context(), middleware.CompanyID(r), chi.URLParam(r, "code"))
	if err != nil {
		slog.Error("List code usages service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, usages)
}

// Deactivate implements CodeHandler.
func (h *CodeHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	codeStr := chi.URLParam(r, "code")
	if err := h.codeService.Deactivate(r.Context(), middleware.CompanyID(r), codeStr); err != nil {
		slog.Error("Deactivate code service error", "error", err)
		response.HandleError(w, err)
		return
	}

	h.cacheStore.InvalidatePrefix("/api/v1/codes")
	slog.Info("Invitation code deactivated", "code", codeStr)
	response.SuccessWithMessage(w, "Invitation code deactivated", nil)
}
