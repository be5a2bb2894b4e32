// Package mocks provides gomock implementations of the session ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	storage := mocks.NewMockSessionStorage(ctrl)
//	storage.EXPECT().Set(gomock.Any(), "admin_token", "tok").Return(nil)
package mocks

// MockSessionStorage: Get, Set, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_storage_mock.go github.com/target/mmk-backoffice/internal/ports SessionStorage

// MockNavigator: Navigate
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=navigator_mock.go github.com/target/mmk-backoffice/internal/ports Navigator
