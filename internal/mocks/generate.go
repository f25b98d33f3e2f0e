// Package mocks provides mock implementations for testing the factgate services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the core interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockCheckRepository(ctrl)
//	mockRepo.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(check, nil)
package mocks

// Generate mock for CheckRepository interface from internal/core package.
// This creates MockCheckRepository with methods for all CheckRepository interface methods:
// FindByID, UpdateWithChanges
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=check_repository_mock.go github.com/factgate/factgate/internal/core CheckRepository

// Generate mock for NotificationSender interface from internal/core package.
// This creates MockNotificationSender with methods for all NotificationSender interface methods:
// SendNewlyAssessed, SendCommunityNoteDownvote, SendCategoryChange
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notification_sender_mock.go github.com/factgate/factgate/internal/core NotificationSender

// Generate mock for EventPublisher interface from internal/core package.
// This creates MockEventPublisher with methods for all EventPublisher interface methods:
// PublishCheckEvent
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=event_publisher_mock.go github.com/factgate/factgate/internal/core EventPublisher

// Generate mock for ArtifactStore interface from internal/core package.
// This creates MockArtifactStore with methods for all ArtifactStore interface methods:
// Put, Get
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=artifact_store_mock.go github.com/factgate/factgate/internal/core ArtifactStore
