package overtime_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DenTeeth/PDCMS-BE-sub005/internal/middleware"
	"github.com/DenTeeth/PDCMS-BE-sub005/internal/overtime"
	overtimeerrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/overtime/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeOvertimeService struct {
	overtime.Service
	CreateFn  func(ctx context.Context, actorID string, canManageAll bool, req overtime.CreateOvertimeRequest) (overtime.OvertimeResponse, error)
	ApproveFn func(ctx context.Context, actorID, id string) (overtime.OvertimeResponse, error)
}

func (f *fakeOvertimeService) Create(ctx context.Context, actorID string, canManageAll bool, req overtime.CreateOvertimeRequest) (overtime.OvertimeResponse, error) {
	return f.CreateFn(ctx, actorID, canManageAll, req)
}

func (f *fakeOvertimeService) Approve(ctx context.Context, actorID, id string) (overtime.OvertimeResponse, error) {
	return f.ApproveFn(ctx, actorID, id)
}

func newTestRouter(actorID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(middleware.ContextEmployeeID), actorID)
		c.Next()
	})
	return r
}

func TestOvertimeHandler_CreateDuplicate(t *testing.T) {
	svc := &fakeOvertimeService{
		CreateFn: func(ctx context.Context, actorID string, canManageAll bool, req overtime.CreateOvertimeRequest) (overtime.OvertimeResponse, error) {
			assert.Equal(t, "emp-1", actorID)
			assert.False(t, canManageAll)
			return overtime.OvertimeResponse{}, overtimeerrors.ErrDuplicateOvertimeRequest
		},
	}
	r := newTestRouter("emp-1")
	r.POST("/overtime-requests", overtime.NewHandler(svc).Create)

	body := `{"work_date":"2025-03-08","slot_id":"WKS_NIGHT_01"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/overtime-requests", strings.NewReader(body)))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_OVERTIME_REQUEST")
}

func TestOvertimeHandler_CreateMissingSlot(t *testing.T) {
	r := newTestRouter("emp-1")
	r.POST("/overtime-requests", overtime.NewHandler(&fakeOvertimeService{}).Create)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/overtime-requests", strings.NewReader(`{"work_date":"2025-03-08"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestOvertimeHandler_Approve(t *testing.T) {
	svc := &fakeOvertimeService{
		ApproveFn: func(ctx context.Context, actorID, id string) (overtime.OvertimeResponse, error) {
			assert.Equal(t, "mgr-1", actorID)
			return overtime.OvertimeResponse{ID: id, Status: "APPROVED"}, nil
		},
	}
	r := newTestRouter("mgr-1")
	r.POST("/overtime-requests/:id/approve", overtime.NewHandler(svc).Approve)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/overtime-requests/ot-1/approve", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"APPROVED"`)
}
