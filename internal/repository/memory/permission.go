package memory

import (
	"context"
	"sync"

	"github.com/gestio-app/gestio-backend-go/internal/domain/permission"
	"github.com/google/uuid"
)

type PermissionRepository struct {
	mu    sync.Mutex
	perms map[string]permission.Permission
}

func NewPermissionRepository() *PermissionRepository {
	return &PermissionRepository{perms: make(map[string]permission.Permission)}
}

func (r *PermissionRepository) List(ctx context.Context) ([]permission.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]permission.Permission, 0, len(r.perms))
	for _, p := range r.perms {
		result = append(result, p)
	}
	return result, nil
}

func (r *PermissionRepository) GetByCode(ctx context.Context, codeStr string) (permission.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.perms[codeStr]
	if !ok {
		return permission.Permission{}, permission.ErrPermissionNotFound
	}
	return p, nil
}

func (r *PermissionRepository) SeedMissing(ctx context.Context, defaults []permission.Permission) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted := 0
	for _, p := range defaults {
		if _, ok := r.perms[p.Code]; ok {
			continue
		}
		p.ID = uuid.New().String()
		r.perms[p.Code] = p
		inserted++
	}
	return inserted, nil
}
