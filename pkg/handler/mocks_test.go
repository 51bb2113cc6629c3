package handler

import (
	"context"

	"github.com/savaki/ga-webhook/pkg/models"
)

// MockViewStore mocks the ViewStore interface for testing
type MockViewStore struct {
	InsertViewFunc func(ctx context.Context, rec *models.NavRecord) error
	Inserted       []*models.NavRecord
}

// Verify MockViewStore implements ViewStore
var _ ViewStore = (*MockViewStore)(nil)

func (m *MockViewStore) InsertView(ctx context.Context, rec *models.NavRecord) error {
	m.Inserted = append(m.Inserted, rec)
	if m.InsertViewFunc != nil {
		return m.InsertViewFunc(ctx, rec)
	}
	return nil
}

// MockMethodCaller mocks the MethodCaller interface for testing
type MockMethodCaller struct {
	CallFunc func(ctx context.Context, method, arg string) (string, error)
	Calls    []MethodCall
}

// MethodCall records one call made through MockMethodCaller
type MethodCall struct {
	Method string
	Arg    string
}

// Verify MockMethodCaller implements MethodCaller
var _ MethodCaller = (*MockMethodCaller)(nil)

func (m *MockMethodCaller) Call(ctx context.Context, method, arg string) (string, error) {
	m.Calls = append(m.Calls, MethodCall{Method: method, Arg: arg})
	if m.CallFunc != nil {
		return m.CallFunc(ctx, method, arg)
	}
	return "arn:aws:states:us-east-1:123456789012:execution:methods:test", nil
}
