package usecase_test

import (
	"context"

	"crowdfund-service/domain/model"

	"github.com/stretchr/testify/mock"
)

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindMostRecent(ctx context.Context) (*model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) Insert(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

type MockSequence struct {
	mock.Mock
}

func (m *MockSequence) Next(ctx context.Context, name string, floor int64) (int64, error) {
	args := m.Called(ctx, name, floor)
	return args.Get(0).(int64), args.Error(1)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, localPath string) (*model.UploadedImage, error) {
	args := m.Called(ctx, localPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadedImage), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishProjectEvent(ctx context.Context, event model.ProjectEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Insert(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) FindAll(ctx context.Context) ([]model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) Generate(ctx context.Context, prompt, language string) (string, error) {
	args := m.Called(ctx, prompt, language)
	return args.String(0), args.Error(1)
}
