// internal/ai/manager.go

package ai

import (
	"context"
	"log"
	"time"
)

const fallbackAdvice = "Stay consistent with your training this week. Aim for " +
	"three balanced sessions mixing cardio and strength work, keep your protein " +
	"intake steady, and prioritise sleep for recovery."

// Manager tries each configured provider in order and falls back to a
// canned answer when all of them fail. Chat never returns an error: AI
// advice is a best-effort feature and callers always get content.
type Manager struct {
	providers   []Provider
	callTimeout time.Duration
	fallback    *MockProvider
}

// NewManager creates a provider-fallback manager. The provider order is
// fixed at construction; unavailable providers are skipped at call time.
func NewManager(providers []Provider, callTimeout time.Duration) *Manager {
	return &Manager{
		providers:   providers,
		callTimeout: callTimeout,
		fallback:    NewMockProvider(fallbackAdvice),
	}
}

// Chat runs the completion against the first provider that answers. Each
// attempt gets its own deadline so one hanging backend cannot consume the
// whole request budget.
func (m *Manager) Chat(ctx context.Context, messages []ChatMessage, opts CallOptions) *Completion {
	for _, p := range m.providers {
		if !p.Available() {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, m.callTimeout)
		completion, err := p.Call(callCtx, messages, opts)
		cancel()

		if err != nil {
			log.Printf("ai: provider %s failed: %v", p.Name(), err)
			RecordProviderCall(p.Name(), false)
			continue
		}
		RecordProviderCall(p.Name(), true)
		return completion
	}

	RecordFallback()
	completion, _ := m.fallback.Call(ctx, messages, opts)
	return completion
}

// ProviderNames lists the configured chain, available or not
func (m *Manager) ProviderNames() []string {
	names := make([]string, 0, len(m.providers))
	for _, p := range m.providers {
		names = append(names, p.Name())
	}
	return names
}
