package approval_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/approval"
	"go-leave/internal/guard"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeApprovalService struct {
	decideFn  func(ctx context.Context, p guard.Principal, req approval.DecideRequest) (approval.ApprovalResponse, error)
	getAllFn  func(ctx context.Context, p guard.Principal) ([]approval.ApprovalResponse, error)
	getByIDFn func(ctx context.Context, p guard.Principal, id int64) (approval.ApprovalResponse, error)
}

func (f *fakeApprovalService) Decide(ctx context.Context, p guard.Principal, req approval.DecideRequest) (approval.ApprovalResponse, error) {
	return f.decideFn(ctx, p, req)
}

func (f *fakeApprovalService) GetAll(ctx context.Context, p guard.Principal) ([]approval.ApprovalResponse, error) {
	return f.getAllFn(ctx, p)
}

func (f *fakeApprovalService) GetByID(ctx context.Context, p guard.Principal, id int64) (approval.ApprovalResponse, error) {
	return f.getByIDFn(ctx, p, id)
}

type fakePendingLister struct {
	listPendingFn func(ctx context.Context, p guard.Principal) ([]leave.LeaveResponse, error)
}

func (f *fakePendingLister) ListPending(ctx context.Context, p guard.Principal) ([]leave.LeaveResponse, error) {
	return f.listPendingFn(ctx, p)
}

func newApprovalRouter(h *approval.Handler, p guard.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(guard.GinKey, p)
		c.Next()
	})
	r.POST("/approvals", h.Decide)
	r.GET("/approvals/pending", h.GetPending)
	return r
}

func TestApprovalHandler_Decide(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeApprovalService{
			decideFn: func(ctx context.Context, p guard.Principal, req approval.DecideRequest) (approval.ApprovalResponse, error) {
				assert.Equal(t, int64(20), p.ID)
				assert.Equal(t, int64(5), req.LeaveID)
				assert.Equal(t, approval.DecisionApproved, req.Decision)
				return approval.ApprovalResponse{ID: 7, LeaveID: 5, ApprovedBy: 20, Decision: req.Decision}, nil
			},
		}
		h := approval.NewHandler(svc, &fakePendingLister{})
		r := newApprovalRouter(h, managerPrincipal)

		req := httptest.NewRequest(http.MethodPost, "/approvals",
			strings.NewReader(`{"leave_id":5,"decision":"approved"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var resp approval.ApprovalResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, int64(7), resp.ID)
	})

	t.Run("negative missing decision fails validation", func(t *testing.T) {
		h := approval.NewHandler(&fakeApprovalService{}, &fakePendingLister{})
		r := newApprovalRouter(h, managerPrincipal)

		req := httptest.NewRequest(http.MethodPost, "/approvals",
			strings.NewReader(`{"leave_id":5}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
	})

	t.Run("negative already decided maps to conflict", func(t *testing.T) {
		svc := &fakeApprovalService{
			decideFn: func(ctx context.Context, p guard.Principal, req approval.DecideRequest) (approval.ApprovalResponse, error) {
				return approval.ApprovalResponse{}, leaveerrors.ErrAlreadyDecided
			},
		}
		h := approval.NewHandler(svc, &fakePendingLister{})
		r := newApprovalRouter(h, managerPrincipal)

		req := httptest.NewRequest(http.MethodPost, "/approvals",
			strings.NewReader(`{"leave_id":5,"decision":"rejected"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "ALREADY_DECIDED", env.Error.Code)
	})
}

func TestApprovalHandler_GetPending(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		pending := &fakePendingLister{
			listPendingFn: func(ctx context.Context, p guard.Principal) ([]leave.LeaveResponse, error) {
				return []leave.LeaveResponse{
					{ID: 1, EmployeeID: 10, Status: leave.StatusPending},
				}, nil
			},
		}
		h := approval.NewHandler(&fakeApprovalService{}, pending)
		r := newApprovalRouter(h, managerPrincipal)

		req := httptest.NewRequest(http.MethodGet, "/approvals/pending", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var resp []leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Len(t, resp, 1)
	})
}
