package mock

import "context"

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via a function field.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns the fixed DefaultAnswer.
	GenerateFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

	callCount   int
	lastPrompt  string
	lastMaxToks int
}

// DefaultAnswer is the canned answer returned when no behavior is injected.
const DefaultAnswer = "This is a mock answer grounded in the provided context."

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate records the call and returns the injected or default answer.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.callCount++
	m.lastPrompt = prompt
	m.lastMaxToks = maxTokens

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, maxTokens)
	}
	return DefaultAnswer, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastPrompt returns the prompt from the most recent Generate call.
func (m *MockGenerator) LastPrompt() string {
	return m.lastPrompt
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.lastPrompt = ""
	m.lastMaxToks = 0
	m.GenerateFunc = nil
}
