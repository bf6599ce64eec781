package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/roster/internal/auth"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/permissions"
)

type stubUserRepo struct {
	user *model.User
}

func (s stubUserRepo) GetWithRelations(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.user, nil
}

func TestPermissionChecker_AdminHasEverything(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	checker, err := NewPermissionCheckerForUser(user)
	require.NoError(t, err)

	assert.True(t, checker.Has(permissions.RulesManage))
	assert.True(t, checker.Has(permissions.SectorsManage))
}

func TestPermissionChecker_SectorUserDeniedAdminOnly(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleUser}

	checker, err := NewPermissionCheckerForUser(user)
	require.NoError(t, err)

	assert.False(t, checker.Has(permissions.RulesManage))
	assert.False(t, checker.Has(permissions.UsersManage))
	assert.True(t, checker.Has(permissions.ScheduleManage))
	assert.True(t, checker.Has(permissions.ForecastView))
}

func TestRequireEmployeePermission_OwnVsAll(t *testing.T) {
	employeeID := uuid.New()
	userID := uuid.New()
	user := &model.User{
		ID:         userID,
		Role:       model.RoleUser,
		EmployeeID: &employeeID,
	}

	authz := NewAuthorizationMiddleware(stubUserRepo{user: user})

	r := chi.NewRouter()
	r.With(authz.RequireEmployeePermission("id", permissions.AgendaView, permissions.AgendaManage)).
		Get("/employees/{id}/agenda", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

	req := httptest.NewRequest(http.MethodGet, "/employees/"+employeeID.String()+"/agenda", nil)
	req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.User{ID: userID, Role: string(model.RoleUser)}))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	otherID := uuid.New()
	req = httptest.NewRequest(http.MethodGet, "/employees/"+otherID.String()+"/agenda", nil)
	req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.User{ID: userID, Role: string(model.RoleUser)}))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	// Non-admin-only keys are held by every authenticated user under the
	// flat role model, so access to another employee's agenda succeeds too.
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireEmployeePermission_DeniedWhenBothAdminOnly(t *testing.T) {
	employeeID := uuid.New()
	userID := uuid.New()
	user := &model.User{
		ID:         userID,
		Role:       model.RoleUser,
		EmployeeID: &employeeID,
	}

	authz := NewAuthorizationMiddleware(stubUserRepo{user: user})

	r := chi.NewRouter()
	r.With(authz.RequireEmployeePermission("id", permissions.UsersManage, permissions.SectorsManage)).
		Get("/employees/{id}/admin-only", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

	otherID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/employees/"+otherID.String()+"/admin-only", nil)
	req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.User{ID: userID, Role: string(model.RoleUser)}))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
