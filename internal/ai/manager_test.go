// internal/ai/manager_test.go

package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unavailableProvider struct{ MockProvider }

func (p *unavailableProvider) Name() string    { return "unconfigured" }
func (p *unavailableProvider) Available() bool { return false }

func TestManagerUsesFirstAvailableProvider(t *testing.T) {
	first := NewMockProvider("first answer")
	second := NewMockProvider("second answer")
	m := NewManager([]Provider{first, second}, time.Second)

	completion := m.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, CallOptions{})

	require.NotNil(t, completion)
	assert.Equal(t, "first answer", completion.Content)
	assert.Equal(t, 1, first.Calls)
	assert.Zero(t, second.Calls)
}

func TestManagerSkipsUnavailableProviders(t *testing.T) {
	skipped := &unavailableProvider{}
	working := NewMockProvider("from second")
	m := NewManager([]Provider{skipped, working}, time.Second)

	completion := m.Chat(context.Background(), nil, CallOptions{})

	assert.Equal(t, "from second", completion.Content)
	assert.Zero(t, skipped.Calls)
}

func TestManagerFallsThroughOnErrors(t *testing.T) {
	broken := NewMockProvider("")
	broken.Err = errors.New("rate limited")
	working := NewMockProvider("recovered")
	m := NewManager([]Provider{broken, working}, time.Second)

	completion := m.Chat(context.Background(), nil, CallOptions{})

	assert.Equal(t, "recovered", completion.Content)
	assert.Equal(t, 1, broken.Calls)
	assert.Equal(t, 1, working.Calls)
}

func TestManagerNeverReturnsNil(t *testing.T) {
	t.Run("empty provider list", func(t *testing.T) {
		m := NewManager(nil, time.Second)

		completion := m.Chat(context.Background(), nil, CallOptions{})

		require.NotNil(t, completion)
		assert.Equal(t, "mock", completion.Provider)
		assert.NotEmpty(t, completion.Content)
	})

	t.Run("every provider failing", func(t *testing.T) {
		broken := NewMockProvider("")
		broken.Err = errors.New("down")
		m := NewManager([]Provider{broken}, time.Second)

		completion := m.Chat(context.Background(), nil, CallOptions{})

		require.NotNil(t, completion)
		assert.Equal(t, "mock", completion.Provider)
	})
}

func TestManagerProviderNames(t *testing.T) {
	m := NewManager([]Provider{
		NewDeepSeekProvider("key", time.Second),
		NewTencentProvider("", time.Second),
		NewAIMLAPIProvider("key", time.Second),
	}, time.Second)

	assert.Equal(t, []string{"deepseek", "tencent", "aimlapi"}, m.ProviderNames())
}

func TestChatProviderAvailability(t *testing.T) {
	assert.True(t, NewDeepSeekProvider("key", time.Second).Available())
	assert.False(t, NewDeepSeekProvider("", time.Second).Available())
}
