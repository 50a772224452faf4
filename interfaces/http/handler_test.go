package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"crowdfund-service/domain/dto"
	"crowdfund-service/domain/model"
	"crowdfund-service/infrastructure/configuration"
	httpHandler "crowdfund-service/interfaces/http"
	"crowdfund-service/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProjectUsecase struct {
	mock.Mock
}

func (m *MockProjectUsecase) CreateProject(ctx context.Context, req dto.CreateProjectRequest, user *model.AuthUser) (*model.Project, error) {
	args := m.Called(ctx, req, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectUsecase) ListProjects(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectUsecase) GetProject(ctx context.Context, idParam string) (*model.Project, error) {
	args := m.Called(ctx, idParam)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

type MockPostUsecase struct {
	mock.Mock
}

func (m *MockPostUsecase) CreatePost(ctx context.Context, req dto.CreatePostRequest, user *model.AuthUser) (*model.Post, error) {
	args := m.Called(ctx, req, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostUsecase) ListPosts(ctx context.Context) ([]model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

type MockContentUsecase struct {
	mock.Mock
}

func (m *MockContentUsecase) Generate(ctx context.Context, prompt, language string) (string, error) {
	args := m.Called(ctx, prompt, language)
	return args.String(0), args.Error(1)
}

type fixture struct {
	router   *gin.Engine
	projects *MockProjectUsecase
	posts    *MockPostUsecase
	content  *MockContentUsecase
	pingErr  error
}

func newFixture(t *testing.T) *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{
		projects: new(MockProjectUsecase),
		posts:    new(MockPostUsecase),
		content:  new(MockContentUsecase),
	}
	cfg := &configuration.Config{}
	cfg.App.MaxUploadMB = 1
	cfg.App.UploadDir = t.TempDir()
	cfg.Cors.AllowOrigins = []string{"http://localhost:5173"}

	f.router = server.InitiateRouter(cfg, server.Handlers{
		Project: httpHandler.NewProjectHandler(f.projects, cfg.App.UploadDir),
		Post:    httpHandler.NewPostHandler(f.posts, cfg.App.UploadDir),
		Content: httpHandler.NewContentHandler(f.content),
		Health: httpHandler.NewHealthHandler(httpHandler.PingerFunc(func(context.Context) error {
			return f.pingErr
		})),
	})
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func multipartRequest(t *testing.T, path string, fields map[string]string, fileField string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, "cover.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeMsg(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var msg dto.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	return msg.Msg
}

func TestCreateProject(t *testing.T) {
	f := newFixture(t)
	var spooled string
	f.projects.On("CreateProject", mock.Anything, mock.MatchedBy(func(req dto.CreateProjectRequest) bool {
		spooled = req.ImagePath
		b, err := os.ReadFile(req.ImagePath)
		return err == nil && string(b) == "png-bytes" &&
			req.Title == "Solar Pump" &&
			req.AmountRaised != nil && *req.AmountRaised == 250.5 &&
			req.Contributors != nil && *req.Contributors == 3 &&
			req.Upvotes == nil && req.MinimumDonation == nil &&
			req.Milestones == `[{"title":"m1"}]`
	}), (*model.AuthUser)(nil)).Return(&model.Project{Id: 4, Title: "Solar Pump"}, nil)

	w := f.do(multipartRequest(t, "/project/new-project", map[string]string{
		"title":        "Solar Pump",
		"amountRaised": "250.5",
		"contributors": "3",
		"upvotes":      "",
		"milestones":   `[{"title":"m1"}]`,
	}, "image"))

	require.Equal(t, http.StatusCreated, w.Code)
	var res struct {
		Msg     string        `json:"msg"`
		Project model.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Project created successfully", res.Msg)
	assert.Equal(t, int64(4), res.Project.Id)

	_, err := os.Stat(spooled)
	assert.True(t, os.IsNotExist(err), "temp upload should be removed")
}

func TestCreateProject_MissingImage(t *testing.T) {
	f := newFixture(t)
	w := f.do(multipartRequest(t, "/project/new-project", map[string]string{"title": "x"}, ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Image file is required", decodeMsg(t, w))
	f.projects.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProject_InvalidNumber(t *testing.T) {
	for _, field := range []string{"amountRaised", "minimumDonation", "contributors", "upvotes"} {
		t.Run(field, func(t *testing.T) {
			f := newFixture(t)
			w := f.do(multipartRequest(t, "/project/new-project", map[string]string{field: "lots"}, "image"))

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "Server error", decodeMsg(t, w))
			f.projects.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateProject_InvalidNumberWithoutImage(t *testing.T) {
	f := newFixture(t)
	w := f.do(multipartRequest(t, "/project/new-project", map[string]string{"amountRaised": "lots"}, ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Image file is required", decodeMsg(t, w))
}

func oversizedRequest(t *testing.T, path string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("description", "big"))
	part, err := w.CreateFormFile("image", "huge.png")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), 2<<20))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestCreateProject_ImageTooLarge(t *testing.T) {
	f := newFixture(t)
	w := f.do(oversizedRequest(t, "/project/new-project"))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "Image file is too large", decodeMsg(t, w))
	f.projects.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePost_ImageTooLarge(t *testing.T) {
	f := newFixture(t)
	w := f.do(oversizedRequest(t, "/post/new-post"))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "Image file is too large", decodeMsg(t, w))
	f.posts.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProject_ServerError(t *testing.T) {
	f := newFixture(t)
	f.projects.On("CreateProject", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("persistence failure: insert"))

	w := f.do(multipartRequest(t, "/project/new-project", map[string]string{"title": "x"}, "image"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", decodeMsg(t, w))
}

func TestGetAllProjects(t *testing.T) {
	f := newFixture(t)
	f.projects.On("ListProjects", mock.Anything).Return([]model.Project{}, nil).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/project", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	f.projects.On("ListProjects", mock.Anything).Return(nil, model.ErrPersistence).Once()
	w = f.do(httptest.NewRequest(http.MethodGet, "/project", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", decodeMsg(t, w))
}

func TestGetProjectByID(t *testing.T) {
	f := newFixture(t)
	f.projects.On("GetProject", mock.Anything, "2").Return(&model.Project{Id: 2, Title: "B"}, nil)
	f.projects.On("GetProject", mock.Anything, "abc").Return(nil, model.ErrMalformedInput)
	f.projects.On("GetProject", mock.Anything, "99").Return(nil, model.ErrNotFound)
	f.projects.On("GetProject", mock.Anything, "5").Return(nil, model.ErrPersistence)

	w := f.do(httptest.NewRequest(http.MethodGet, "/project/2", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var p model.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "B", p.Title)

	w = f.do(httptest.NewRequest(http.MethodGet, "/project/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid project ID", decodeMsg(t, w))

	w = f.do(httptest.NewRequest(http.MethodGet, "/project/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Project not found", decodeMsg(t, w))

	w = f.do(httptest.NewRequest(http.MethodGet, "/project/5", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	f.posts.On("CreatePost", mock.Anything, mock.MatchedBy(func(req dto.CreatePostRequest) bool {
		return req.Description == "Halfway there" && req.ImagePath != ""
	}), (*model.AuthUser)(nil)).Return(&model.Post{Description: "Halfway there"}, nil)

	w := f.do(multipartRequest(t, "/post/new-post", map[string]string{"description": "Halfway there"}, "image"))
	require.Equal(t, http.StatusCreated, w.Code)
	var res dto.CreatePostResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Post created successfully", res.Msg)
	assert.Equal(t, "Halfway there", res.Post.Description)
}

func TestCreatePost_MissingDescription(t *testing.T) {
	f := newFixture(t)
	w := f.do(multipartRequest(t, "/post/new-post", map[string]string{}, "image"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.posts.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAllPosts(t *testing.T) {
	f := newFixture(t)
	f.posts.On("ListPosts", mock.Anything).Return([]model.Post{{Description: "a"}}, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/post", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var posts []model.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	assert.Len(t, posts, 1)
}

func TestGenerateContent(t *testing.T) {
	f := newFixture(t)
	f.content.On("Generate", mock.Anything, "garden", "").Return("Grow with us", nil)
	f.content.On("Generate", mock.Anything, "fail", "en").Return("", model.ErrUpstream)

	req := httptest.NewRequest(http.MethodPost, "/generate-content", bytes.NewBufferString(`{"prompt":"garden"}`))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"generatedText":"Grow with us"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/generate-content", bytes.NewBufferString(`{"prompt":"fail","language":"en"}`))
	req.Header.Set("Content-Type", "application/json")
	w = f.do(req)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Failed to generate content", decodeMsg(t, w))

	req = httptest.NewRequest(http.MethodPost, "/generate-content", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = f.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	w := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	f.pingErr = errors.New("no reachable servers")
	w = f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORS(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/project", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := f.do(req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
