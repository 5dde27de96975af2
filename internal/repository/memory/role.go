package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
	"github.com/google/uuid"
)

type RoleRepository struct {
	mu    sync.Mutex
	roles map[string]role.Role

	// Assignments maps role id to its membership reference count; tests
	// set it to exercise the deletion guard.
	Assignments map[string]int
}

func NewRoleRepository() *RoleRepository {
	return &RoleRepository{
		roles:       make(map[string]role.Role),
		Assignments: make(map[string]int),
	}
}

func (r *RoleRepository) Seed(newRole role.Role) role.Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	if newRole.ID == "" {
		newRole.ID = uuid.New().String()
	}
	r.roles[newRole.ID] = newRole
	return newRole
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found, ok := r.roles[id]
	if !ok {
		return role.Role{}, role.ErrRoleNotFound
	}
	return found, nil
}

func (r *RoleRepository) GetDefaultByCompany(ctx context.Context, companyID string) (role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, candidate := range r.roles {
		if candidate.CompanyID == companyID && candidate.IsDefault {
			return candidate, nil
		}
	}
	return role.Role{}, role.ErrNoDefaultRole
}

func (r *RoleRepository) ListByCompany(ctx context.Context, companyID string) ([]role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []role.Role
	for _, candidate := range r.roles {
		if candidate.CompanyID == companyID {
			result = append(result, candidate)
		}
	}
	return result, nil
}

func (r *RoleRepository) Create(ctx context.Context, newRole role.Role) (role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.roles {
		if existing.CompanyID == newRole.CompanyID && existing.Name == newRole.Name {
			return role.Role{}, role.ErrRoleNameExists
		}
	}
	newRole.ID = uuid.New().String()
	newRole.CreatedAt = time.Now()
	newRole.UpdatedAt = newRole.CreatedAt
	r.roles[newRole.ID] = newRole
	return newRole, nil
}

func (r *RoleRepository) Update(ctx context.Context, updated role.Role) (role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[updated.ID]; !ok {
		return role.Role{}, role.ErrRoleNotFound
	}
	updated.UpdatedAt = time.Now()
	r.roles[updated.ID] = updated
	return updated, nil
}

func (r *RoleRepository) UpdatePermissions(ctx context.Context, id string, base []string, overrides map[string]bool) (role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found, ok := r.roles[id]
	if !ok {
		return role.Role{}, role.ErrRoleNotFound
	}
	found.BasePermissions = base
	found.Overrides = overrides
	found.UpdatedAt = time.Now()
	r.roles[id] = found
	return found, nil
}

func (r *RoleRepository) CountAssignments(ctx context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Assignments[id], nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[id]; !ok {
		return role.ErrRoleNotFound
	}
	delete(r.roles, id)
	return nil
}
