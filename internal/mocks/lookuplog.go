package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"ulascansenturk/weather-lookup/internal/db/lookuplog"
)

type MockRepository struct {
	mock.Mock
}

func NewMockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepository) LogLookup(ctx context.Context, record lookuplog.LookupRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository) GetRecentLookup(ctx context.Context, locationKey string) (*lookuplog.LookupRecord, error) {
	args := m.Called(ctx, locationKey)
	var record *lookuplog.LookupRecord
	if v := args.Get(0); v != nil {
		record = v.(*lookuplog.LookupRecord)
	}
	return record, args.Error(1)
}
