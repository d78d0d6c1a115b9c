package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mealwise/mealwise-backend/internal/models"
	"github.com/mealwise/mealwise-backend/internal/types"
)

// MockEmbeddingClient is a mock implementation of EmbeddingClientInterface
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockCompletionClient is a mock implementation of CompletionClientInterface
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, systemPrompt, userMessage string, temperature float64) (string, error) {
	args := m.Called(ctx, systemPrompt, userMessage, temperature)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionClient) Name() string {
	return "mock"
}

// MockWebAnswer is a mock implementation of WebAnswerInterface
type MockWebAnswer struct {
	mock.Mock
}

func (m *MockWebAnswer) Answer(ctx context.Context, prompt string) (*types.WebAnswer, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WebAnswer), args.Error(1)
}

// MockRouteStore is a mock implementation of RouteStoreInterface
type MockRouteStore struct {
	mock.Mock
}

func (m *MockRouteStore) ListRoutes(ctx context.Context) ([]models.IntentRoute, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.IntentRoute), args.Error(1)
}

// MockNutritionProvider is a mock implementation of NutritionProvider
type MockNutritionProvider struct {
	mock.Mock
	ProviderName string
}

func (m *MockNutritionProvider) Name() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock_provider"
}

func (m *MockNutritionProvider) Resolve(ctx context.Context, item types.NormalizedItem) (*types.MacroResult, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MacroResult), args.Error(1)
}

// MockMacroLookup is a mock implementation of MacroLookupInterface
type MockMacroLookup struct {
	mock.Mock
}

func (m *MockMacroLookup) Lookup(ctx context.Context, items []types.NormalizedItem) types.LookupResult {
	args := m.Called(ctx, items)
	return args.Get(0).(types.LookupResult)
}

// MockMealCommit is a mock implementation of MealCommitInterface
type MockMealCommit struct {
	mock.Mock
}

func (m *MockMealCommit) Commit(ctx context.Context, view *types.VerificationView, userID uuid.UUID, edits []types.MacroResult) (string, error) {
	args := m.Called(ctx, view, userID, edits)
	return args.String(0), args.Error(1)
}

// MockNormalizer is a mock implementation of NormalizerInterface
type MockNormalizer struct {
	mock.Mock
}

func (m *MockNormalizer) Normalize(ctx context.Context, message string) []types.NormalizedItem {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]types.NormalizedItem)
}

// MockTokenValidator is a mock implementation of middleware.TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}
