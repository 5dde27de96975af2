package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gestio-app/gestio-backend-go/internal/domain/company"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/middleware"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/response"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/cache"
)

type CompanyHandler interface {
	GetMy(w http.ResponseWriter, r *http.Request)
	UpdateMy(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
	cacheStore     *cache.Store
}

func NewCompanyHandler(companyService company.CompanyService, cacheStore *cache.Store) CompanyHandler {
	return &CompanyHandlerImpl{
		companyService: companyService,
		cacheStore:     cacheStore,
	}
}

// GetMy implements CompanyHandler.
func (h *CompanyHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	companyResponse, err := h.companyService.Get(r.Context(), middleware.CompanyID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, companyResponse)
}

// UpdateMy implements CompanyHandler.
func (h *CompanyHandlerImpl) UpdateMy(w http.ResponseWriter, r *http.Request) {
	var req company.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.companyService.Update(r.Context(), middleware.CompanyID(r), req)
	if err != nil {
		slog.Error("Update company service error", "error", err)
		response.HandleError(w, err)
		return
	}

	h.cacheStore.InvalidatePrefix("/api/v1/companies")
	slog.Info("Company updated", "company_id", updated.ID)
	response.SuccessWithMessage(w, "Company updated", updated)
}
