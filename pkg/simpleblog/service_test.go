package simpleblog_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
	"github.com/tendant/simple-blog/pkg/simpleblog/repo/memory"
)

// newTestService builds a service over a fresh in-memory store.
func newTestService(t *testing.T, opts ...simpleblog.Option) simpleblog.Service {
	t.Helper()
	opts = append([]simpleblog.Option{simpleblog.WithStore(memory.NewStore())}, opts...)
	svc, err := simpleblog.New(opts...)
	require.NoError(t, err)
	return svc
}

func registerProfile(t *testing.T, svc simpleblog.Service, identity, name string) *simpleblog.Profile {
	t.Helper()
	profile, err := svc.RegisterProfile(context.Background(), simpleblog.RegisterProfileRequest{
		IdentityName: identity,
		AuthorName:   name,
	})
	require.NoError(t, err)
	return profile
}

// countingNotifier records every send for assertions about the publish
// notification edge.
type countingNotifier struct {
	mu    sync.Mutex
	calls []notification
}

type notification struct {
	title      string
	recipients []string
}

func (n *countingNotifier) Notify(ctx context.Context, title, description string, recipients []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{title: title, recipients: recipients})
	return nil
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []simpleblog.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []simpleblog.Option{},
			expectError: true,
		},
		{
			name: "with store should succeed",
			options: []simpleblog.Option{
				simpleblog.WithStore(memory.NewStore()),
			},
			expectError: false,
		},
		{
			name: "with store and notifier should succeed",
			options: []simpleblog.Option{
				simpleblog.WithStore(memory.NewStore()),
				simpleblog.WithNotifier(simpleblog.NewNoopNotifier()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := simpleblog.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}
