package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/middleware"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/response"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/cache"
	"github.com/go-chi/chi/v5"
)

type RoleHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	UpdatePermissions(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type RoleHandlerImpl struct {
	roleService role.RoleService
	cacheStore  *cache.Store
}

func NewRoleHandler(roleService role.RoleService, cacheStore *cache.Store) RoleHandler {
	return &RoleHandlerImpl{
		roleService: roleService,
		cacheStore:  cacheStore,
	}
}

// List implements RoleHandler.
func (h *RoleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.ListByCompany(r.Context(), middleware.CompanyID(r))
	if err != nil {
		slog.Error("List roles service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, roles)
}

// Get implements RoleHandler.
func (h *RoleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	roleResponse, err := h.roleService.Get(r.Context(), middleware.CompanyID(r), chi.URLParam(r, "roleID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, roleResponse)
}

// Create implements RoleHandler.
func (h *RoleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req role.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create role decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.roleService.Create(r.Context(), middleware.CompanyID(r), req)
	if err != nil {
		slog.Error("Create role service error", "error", err)
		response.HandleError(w, err)
		return
	}

	h.cacheStore.InvalidatePrefix("/api/v1/roles")
	slog.Info("Role created", "role_id", created.ID, "name", created.Name)
	response.Created(w, "Role created", created)
}

// Update implements RoleHandler.
func (h *RoleHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req role.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update role decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.roleService.Update(r.Context(), middleware.CompanyID(r), chi.URLParam(r, "roleID"), req)
	if err != nil {
		slog.Error("Update role service error", "error", err)
		response.HandleError(w, err)
		return
	}

	h.cacheStore.InvalidatePrefix("/api/v1/roles")
	slog.Info("Role updated", "role_id", updated.ID)
	response.SuccessWithMessage(w, "Role updated", updated)
}

// UpdatePermissions implements RoleHandler.
func (h *RoleHandlerImpl) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	var req role.UpdatePermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update role permissions decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.roleService.UpdatePermissions(r.Context(), middleware.CompanyID(r), chi.URLParam(r, "roleID"), req)
	if err != nil {
		slog.Error("Update role permissions service error", "error", err)
		response.HandleError(w, err)
		return
	}

	h.cacheStore.InvalidatePrefix("/api/v1/roles")
	slog.Info("Role permissions updated", "role_id", updated.ID)
	response.SuccessWithMessage(w, "Role permissions updated", updated)
}

// Delete implements RoleHandler.
func (h *RoleHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	roleID := chi.URLParam(r, "roleID")
	if err := h.roleService.Delete(r.Context(), middleware.CompanyID(r), roleID); err != nil {
		slog.Error("Delete role service error", "error", err)
		response.HandleError(w, err)
		return
	}

	h.cacheStore.InvalidatePrefix("/api/v1/roles")
	slog.Info("Role deleted", "role_id", roleID)
	response.SuccessWithMessage(w, "Role deleted", nil)
}
