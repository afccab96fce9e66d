package registration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/middleware"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/registration"
	registrationerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/registration/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistrationService struct {
	CreateFn          func(ctx context.Context, req registration.CreateRegistrationRequest) (registration.RegistrationResponse, error)
	UpdateFn          func(ctx context.Context, id string, req registration.UpdateRegistrationRequest) (registration.RegistrationResponse, error)
	DeactivateFn      func(ctx context.Context, id string) error
	GetByIDFn         func(ctx context.Context, actorID string, canReadAll bool, id string) (registration.RegistrationResponse, error)
	GetAllFn          func(ctx context.Context, actorID string, canReadAll bool) ([]registration.RegistrationResponse, error)
	ListForEmployeeFn func(ctx context.Context, actorID, employeeID string, canReadAll bool) ([]registration.RegistrationResponse, error)
}

func (f *fakeRegistrationService) Create(ctx context.Context, req registration.CreateRegistrationRequest) (registration.RegistrationResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeRegistrationService) Update(ctx context.Context, id string, req registration.UpdateRegistrationRequest) (registration.RegistrationResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeRegistrationService) Deactivate(ctx context.Context, id string) error {
	return f.DeactivateFn(ctx, id)
}
func (f *fakeRegistrationService) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (registration.RegistrationResponse, error) {
	return f.GetByIDFn(ctx, actorID, canReadAll, id)
}
func (f *fakeRegistrationService) GetAll(ctx context.Context, actorID string, canReadAll bool) ([]registration.RegistrationResponse, error) {
	return f.GetAllFn(ctx, actorID, canReadAll)
}
func (f *fakeRegistrationService) ListForEmployee(ctx context.Context, actorID, employeeID string, canReadAll bool) ([]registration.RegistrationResponse, error) {
	return f.ListForEmployeeFn(ctx, actorID, employeeID, canReadAll)
}

type apiEnvelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

func setupRouter(actorID string, canReadAll bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(middleware.ContextEmployeeID), actorID)
		c.Set(middleware.CapReadAll, canReadAll)
		c.Next()
	})
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRegistrationHandler_GetAllPassesScope(t *testing.T) {
	svc := &fakeRegistrationService{
		GetAllFn: func(ctx context.Context, actorID string, canReadAll bool) ([]registration.RegistrationResponse, error) {
			assert.Equal(t, "emp-1", actorID)
			assert.False(t, canReadAll)
			return []registration.RegistrationResponse{{RegistrationID: "REG000001"}}, nil
		},
	}
	r := setupRouter("emp-1", false)
	r.GET("/registrations", registration.NewHandler(svc).GetAll)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/registrations", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "REG000001")
}

func TestRegistrationHandler_ListForEmployeeForbidden(t *testing.T) {
	svc := &fakeRegistrationService{
		ListForEmployeeFn: func(ctx context.Context, actorID, employeeID string, canReadAll bool) ([]registration.RegistrationResponse, error) {
			assert.Equal(t, "emp-2", employeeID)
			return nil, registrationerrors.ErrRegistrationForbidden
		},
	}
	r := setupRouter("emp-1", false)
	r.GET("/employees/:id/registrations", registration.NewHandler(svc).ListForEmployee)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/emp-2/registrations", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, w).Error.Code)
}

func TestRegistrationHandler_Create(t *testing.T) {
	t.Run("conflict maps to 409 with details", func(t *testing.T) {
		svc := &fakeRegistrationService{
			CreateFn: func(ctx context.Context, req registration.CreateRegistrationRequest) (registration.RegistrationResponse, error) {
				assert.Equal(t, []string{"WEDNESDAY", "FRIDAY"}, req.Days)
				return registration.RegistrationResponse{}, registrationerrors.ErrRegistrationConflict.WithDetails(map[string]any{
					"registration_id": "REG000001",
				})
			},
		}
		r := setupRouter("emp-1", true)
		r.POST("/registrations", registration.NewHandler(svc).Create)

		body := `{"employee_id":"7f1e1c39-7c0b-4b43-9d7a-2f8b4b0e9f11","slot_id":"WKS_AFTERNOON_01","effective_from":"2025-02-01","days":["WEDNESDAY","FRIDAY"]}`
		req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decode(t, w)
		assert.Equal(t, "REGISTRATION_CONFLICT", env.Error.Code)
		assert.Equal(t, map[string]any{"registration_id": "REG000001"}, env.Error.Details)
	})

	t.Run("invalid employee id fails binding", func(t *testing.T) {
		r := setupRouter("emp-1", true)
		r.POST("/registrations", registration.NewHandler(&fakeRegistrationService{}).Create)

		body := `{"employee_id":"abc","slot_id":"WKS_MORNING_01","effective_from":"2025-02-01","days":["MONDAY"]}`
		req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)
	})
}

func TestRegistrationHandler_UpdateKeepsNullPresence(t *testing.T) {
	svc := &fakeRegistrationService{
		UpdateFn: func(ctx context.Context, id string, req registration.UpdateRegistrationRequest) (registration.RegistrationResponse, error) {
			assert.Equal(t, "REG000003", id)
			assert.True(t, req.EffectiveTo.Set)
			assert.True(t, req.EffectiveTo.Null)
			assert.False(t, req.Days.Set)
			return registration.RegistrationResponse{RegistrationID: id}, nil
		},
	}
	r := setupRouter("emp-1", true)
	r.PATCH("/registrations/:id", registration.NewHandler(svc).Update)

	req := httptest.NewRequest(http.MethodPatch, "/registrations/REG000003", strings.NewReader(`{"effective_to":null}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
