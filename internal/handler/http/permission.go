package http

import (
	"net/http"

	"github.com/gestio-app/gestio-backend-go/internal/domain/access"
	"github.com/gestio-app/gestio-backend-go/internal/domain/permission"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/middleware"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PermissionHandler interface {
	Catalog(w http.ResponseWriter, r *http.Request)
	MyEffective(w http.ResponseWriter, r *http.Request)
	CheckAccess(w http.ResponseWriter, r *http.Request)
}

type PermissionHandlerImpl struct {
	permissionRepository permission.PermissionRepository
	accessService        access.AccessService
}

func NewPermissionHandler(permissionRepository permission.PermissionRepository, accessService access.AccessService) PermissionHandler {
	return &PermissionHandlerImpl{
		permissionRepository: permissionRepository,
		accessService:        accessService,
	}
}

// Catalog implements PermissionHandler.
func (h *PermissionHandlerImpl) Catalog(w http.ResponseWriter, r *http.Request) {
	perms, err := h.permissionRepository.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]permission.Response, 0, len(perms))
	for _, p := range perms {
		responses = append(responses, permission.ToResponse(p))
	}
	response.Success(w, responses)
}

// MyEffective implements PermissionHandler. Returns the caller's
// resolved permission codes for its current role.
func (h *PermissionHandlerImpl) MyEffective(w http.ResponseWriter, r *http.Request) {
	decision, err := h.accessService.CheckAccess(r.Context(), access.Check{
		AccountID: middleware.AccountID(r),
		CompanyID: middleware.CompanyID(r),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, decision)
}

// CheckAccess implements PermissionHandler. Lets a client ask whether
// the caller would pass a given permission or category gate, without
// touching the guarded resource.
func (h *PermissionHandlerImpl) CheckAccess(w http.ResponseWriter, r *http.Request) {
	check := access.Check{
		AccountID: middleware.AccountID(r),
		CompanyID: middleware.CompanyID(r),
	}
	if codeParam := chi.URLParam(r, "code"); codeParam != "" {
		check.RequiredCodes = []string{codeParam}
	}
	if categoryParam := r.URL.Query().Get("category"); categoryParam != "" {
		if !permission.ValidCategory(categoryParam) {
			response.HandleError(w, permission.ErrInvalidCategory)
			return
		}
		category := permission.Category(categoryParam)
		check.Category = &category
	}

	decision, err := h.accessService.CheckAccess(r.Context(), check)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, decision)
}
