package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quillforge/quillforge/src/models"
)

// MockProvider implements models.Provider
type MockProvider struct {
	mock.Mock
	ProviderName string
}

func (m *MockProvider) Name() string {
	return m.ProviderName
}

func (m *MockProvider) Complete(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompletionResponse), args.Error(1)
}

func (m *MockProvider) Capabilities() models.ModelCapabilities {
	args := m.Called()
	return args.Get(0).(models.ModelCapabilities)
}

func (m *MockProvider) Health() models.HealthStatus {
	args := m.Called()
	return args.Get(0).(models.HealthStatus)
}

func (m *MockProvider) UsageStats() models.UsageStats {
	args := m.Called()
	return args.Get(0).(models.UsageStats)
}

// MockCache implements models.CacheStore
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (*models.CompletionResponse, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompletionResponse), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, response *models.CompletionResponse) error {
	args := m.Called(ctx, key, response)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
