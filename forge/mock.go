package forge

import "context"

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	CreateReleaseFunc func(ctx context.Context, opts ReleaseOptions) (*PublishedRelease, error)

	// Created records the options of every CreateRelease call.
	Created []ReleaseOptions
}

// CreateRelease implements Provider.
func (m *MockProvider) CreateRelease(ctx context.Context, opts ReleaseOptions) (*PublishedRelease, error) {
	m.Created = append(m.Created, opts)
	if m.CreateReleaseFunc != nil {
		return m.CreateReleaseFunc(ctx, opts)
	}
	return &PublishedRelease{ID: 1, URL: "https://example.com/releases/1"}, nil
}
