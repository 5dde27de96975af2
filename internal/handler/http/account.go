package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/middleware"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/response"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/cache"
)

type AccountHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	ListLinked(w http.ResponseWriter, r *http.Request)
	Switch(w http.ResponseWriter, r *http.Request)
	CreateLinked(w http.ResponseWriter, r *http.Request)
}

type AccountHandlerImpl struct {
	accountService account.AccountService
	cacheStore     *cache.Store
}

func NewAccountHandler(accountService account.AccountService, cacheStore *cache.Store) AccountHandler {
	return &AccountHandlerImpl{
		accountService: accountService,
		cacheStore:     cacheStore,
	}
}

// Me implements AccountHandler.
func (h *AccountHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	projection, err := h.accountService.GetProfile(r.Context(), middleware.AccountID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, projection)
}

// UpdateProfile implements AccountHandler.
func (h *AccountHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req account.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateProfile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	projection, err := h.accountService.UpdateProfile(r.Context(), middleware.AccountID(r), req)
	if err != nil {
		slog.Error("UpdateProfile service error", "error", err)
		response.HandleError(w, err)
		return
	}

	h.cacheStore.InvalidatePrefix("/api/v1/accounts")
	response.SuccessWithMessage(w, "Profile updated", projection)
}

// ListLinked implements AccountHandler.
func (h *AccountHandlerImpl) ListLinked(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.accountService.ListLinkedAccounts(r.Context(), middleware.AccountID(r))
	if err != nil {
		slog.Error("ListLinked service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, summaries)
}

// Switch implements AccountHandler.
func (h *AccountHandlerImpl) Switch(w http.ResponseWriter, r *http.Request) {
	var req account.SwitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Switch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	switchResponse, err := h.accountService.SwitchAccount(r.Context(), middleware.AccountID(r), req, account.SessionTracking{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		slog.Error("Switch service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Account switched", "target_account_id", req.TargetAccountID)
	response.Success(w, switchResponse)
}

// CreateLinked implements AccountHandler.
func (h *AccountHandlerImpl) CreateLinked(w http.ResponseWriter, r *http.Request) {
	var req account.CreateLinkedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateLinked decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.accountService.CreateLinkedAccount(r.Context(), middleware.AccountID(r), req)
	if err != nil {
		slog.Error("CreateLinked service error", "error", err)
		response.HandleError(w, err)
		return
	}

	h.cacheStore.InvalidatePrefix("/api/v1/accounts")
	slog.Info("Linked account created", "username", req.Username)
	response.Created(w, "Linked account created", summary)
}
