package mocks

import (
	context "context"

	models "github.com/UnknownOlympus/labelmap/internal/models"
	mock "github.com/stretchr/testify/mock"
)

// RecordSink is a testify mock of the RecordSink interface.
type RecordSink struct {
	mock.Mock
}

// UpsertBaseRecord provides a mock function with given fields: ctx, record
func (_m *RecordSink) UpsertBaseRecord(ctx context.Context, record models.CentroidRecord) error {
	ret := _m.Called(ctx, record)

	if len(ret) == 0 {
		panic("no return value specified for UpsertBaseRecord")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, models.CentroidRecord) error); ok {
		r0 = rf(ctx, record)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewRecordSink creates a new instance of RecordSink. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewRecordSink(t interface {
	mock.TestingT
	Cleanup(func())
}) *RecordSink {
	mock := &RecordSink{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
