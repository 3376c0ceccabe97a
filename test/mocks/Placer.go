package mocks

import (
	context "context"

	layout "github.com/UnknownOlympus/labelmap/internal/layout"
	mock "github.com/stretchr/testify/mock"
)

// Placer is a testify mock of the Placer interface.
type Placer struct {
	mock.Mock
}

// Place provides a mock function with given fields: ctx, items, fixed
func (_m *Placer) Place(ctx context.Context, items []layout.Item, fixed []layout.Item) (*layout.Result, error) {
	ret := _m.Called(ctx, items, fixed)

	if len(ret) == 0 {
		panic("no return value specified for Place")
	}

	var r0 *layout.Result
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, []layout.Item, []layout.Item) (*layout.Result, error)); ok {
		return rf(ctx, items, fixed)
	}
	if rf, ok := ret.Get(0).(func(context.Context, []layout.Item, []layout.Item) *layout.Result); ok {
		r0 = rf(ctx, items, fixed)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*layout.Result)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, []layout.Item, []layout.Item) error); ok {
		r1 = rf(ctx, items, fixed)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewPlacer creates a new instance of Placer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewPlacer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Placer {
	mock := &Placer{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
