package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"ulascansenturk/weather-lookup/internal/db/lookuplog"
	"ulascansenturk/weather-lookup/internal/providers"
	"ulascansenturk/weather-lookup/internal/service"
)

type MockLookupService struct {
	mock.Mock
}

func NewMockLookupService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLookupService {
	m := &MockLookupService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLookupService) Lookup(ctx context.Context, req service.LookupRequest) (service.LookupResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(service.LookupResult), args.Error(1)
}

func (m *MockLookupService) RecentLookup(ctx context.Context, query providers.LocationQuery) (*lookuplog.LookupRecord, error) {
	args := m.Called(ctx, query)
	var record *lookuplog.LookupRecord
	if v := args.Get(0); v != nil {
		record = v.(*lookuplog.LookupRecord)
	}
	return record, args.Error(1)
}
