package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tweetfeed/internal/model"
	"github.com/d60-Lab/tweetfeed/internal/service"
)

type mockFeedService struct{ mock.Mock }

func (m *mockFeedService) List(ctx context.Context) ([]*model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *mockFeedService) Get(ctx context.Context, postID uint) (*model.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *mockFeedService) Create(ctx context.Context, username, content string) (*model.Post, error) {
	args := m.Called(ctx, username, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *mockFeedService) ToggleLike(ctx context.Context, postID uint, username string) (*model.Post, error) {
	args := m.Called(ctx, postID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func setupRouter(t *testing.T, svc service.FeedService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())
	h := NewHandler(svc, nil)
	r := gin.New()
	r.GET("/api/tweets", h.ListTweets)
	r.POST("/api/tweets", h.CreateTweet)
	r.PUT("/api/tweets", h.ToggleLike)
	r.GET("/api/tweets/:id/render", h.RenderTweet)
	return r
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListTweets_StoreFailureIs500(t *testing.T) {
	svc := new(mockFeedService)
	svc.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	w := send(setupRouter(t, svc), http.MethodGet, "/api/tweets", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	svc.AssertExpectations(t)
}

func TestCreateTweet_PassesFieldsThrough(t *testing.T) {
	svc := new(mockFeedService)
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.On("Create", mock.Anything, "alice", "hello").
		Return(&model.Post{ID: 1, Username: "alice", Content: "hello", CreatedAt: now, Likes: []model.Like{}}, nil)

	w := send(setupRouter(t, svc), http.MethodPost, "/api/tweets", `{"content":"hello","username":"alice"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"username":"alice","content":"hello","createdAt":"2024-03-01T08:00:00Z","likes":[]}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestCreateTweet_ServiceValidationIs400(t *testing.T) {
	svc := new(mockFeedService)
	svc.On("Create", mock.Anything, "alice", "x").Return(nil, fmt.Errorf("%w: too long", service.ErrInvalidInput))

	w := send(setupRouter(t, svc), http.MethodPost, "/api/tweets", `{"content":"x","username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "too long")
}

func TestCreateTweet_BindingRejectsBeforeService(t *testing.T) {
	svc := new(mockFeedService)
	w := send(setupRouter(t, svc), http.MethodPost, "/api/tweets", `{"content":"  ","username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleLike_Mapping(t *testing.T) {
	svc := new(mockFeedService)
	svc.On("ToggleLike", mock.Anything, uint(5), "bob").Return(nil, fmt.Errorf("%w: id 5", service.ErrPostNotFound))
	svc.On("ToggleLike", mock.Anything, uint(6), "bob").Return(&model.Post{ID: 6, Likes: []model.Like{{ID: 1, Username: "bob"}}}, nil)

	r := setupRouter(t, svc)
	w := send(r, http.MethodPut, "/api/tweets", `{"id":5,"username":"bob"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(r, http.MethodPut, "/api/tweets", `{"id":6,"username":"bob"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"likes":[{"id":1,"username":"bob"}]`)
}

func TestRenderTweet_BadID(t *testing.T) {
	svc := new(mockFeedService)
	r := setupRouter(t, svc)
	for _, id := range []string{"0", "-1", "x"} {
		w := send(r, http.MethodGet, "/api/tweets/"+id+"/render", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
