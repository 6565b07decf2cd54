package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

// MockBillingDocumentRepo is a mock implementation of repository.BillingDocumentRepository.
type MockBillingDocumentRepo struct {
	mock.Mock
}

func (m *MockBillingDocumentRepo) Insert(ctx context.Context, doc *entity.BillingDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockBillingDocumentRepo) FindByID(ctx context.Context, id string) (*entity.BillingDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BillingDocument), args.Error(1)
}

func (m *MockBillingDocumentRepo) FindMany(ctx context.Context, filter repository.BillingDocumentFilter, limit int) ([]*entity.BillingDocument, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.BillingDocument), args.Error(1)
}

func (m *MockBillingDocumentRepo) UpdateFields(ctx context.Context, id string, fields repository.Fields) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockBillingDocumentRepo) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillingDocumentRepo) Count(ctx context.Context, filter repository.BillingDocumentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillingDocumentRepo) CountBy(ctx context.Context, field string) (map[string]int64, error) {
	args := m.Called(ctx, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockBillingDocumentRepo) SumTotalAmount(ctx context.Context, filter repository.BillingDocumentFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
