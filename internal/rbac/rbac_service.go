package rbac

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	rbacerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/rbac/errors"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPolicyTTL = 30 * time.Second

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy(ctx context.Context) error
	Enforce(req EnforceRequest) (bool, error)
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	AssignRole(ctx context.Context, req AssignRoleRequest) error
}

type service struct {
	repo      Repository
	enforcer  *casbin.Enforcer
	mu        sync.Mutex
	loadedAt  time.Time
	policyTTL time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:      repo,
		enforcer:  enforcer,
		policyTTL: defaultPolicyTTL,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) LoadPolicy(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPolicyUnlocked(ctx)
}

func (s *service) loadPolicyUnlocked(ctx context.Context) error {
	employeeRoles, err := s.repo.GetEmployeeRoles(ctx)
	if err != nil {
		return err
	}
	rolePerms, err := s.repo.GetRolePermissions(ctx)
	if err != nil {
		return err
	}

	s.enforcer.ClearPolicy()

	for _, er := range employeeRoles {
		if _, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.RoleID); err != nil {
			return err
		}
	}
	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.loadedAt = s.now()
	s.logger.Debug("rbac policy loaded",
		zap.Int("employee_roles", len(employeeRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)
	return nil
}

// Enforce reloads the policy when it is older than the TTL, so role changes
// made elsewhere show up without a restart.
func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadedAt.IsZero() || s.now().Sub(s.loadedAt) > s.policyTTL {
		if err := s.loadPolicyUnlocked(context.Background()); err != nil {
			s.logger.Error("rbac policy reload failed", zap.Error(err))
			return false, rbacerrors.ErrPolicyUnavailable
		}
	}

	allowed, err := s.enforcer.Enforce(req.EmployeeID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("employee_id", req.EmployeeID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	rolePerms, err := s.repo.GetRolePermissions(ctx)
	if err != nil {
		return nil, err
	}

	byRole := make(map[string][]string, len(roles))
	for _, rp := range rolePerms {
		byRole[rp.RoleID] = append(byRole[rp.RoleID], rp.Resource+":"+rp.Action)
	}

	resp := make([]RoleResponse, len(roles))
	for i, r := range roles {
		perms := byRole[r.ID]
		sort.Strings(perms)
		resp[i] = RoleResponse{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Permissions: perms,
		}
	}
	return resp, nil
}

func (s *service) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		resp[i] = PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		}
	}
	return resp, nil
}

func (s *service) AssignRole(ctx context.Context, req AssignRoleRequest) error {
	role, err := s.repo.GetRoleByName(ctx, req.RoleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rbacerrors.ErrRoleNotFound.WithDetails(map[string]any{"role_name": req.RoleName})
		}
		return err
	}

	if err := s.repo.AssignRole(ctx, req.EmployeeID, role.ID); err != nil {
		s.logger.Error("assign role failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return err
	}

	// Force the next Enforce to see the new grant.
	s.mu.Lock()
	s.loadedAt = time.Time{}
	s.mu.Unlock()

	s.logger.Info("role assigned",
		zap.String("employee_id", req.EmployeeID),
		zap.String("role", role.Name),
	)
	return nil
}
