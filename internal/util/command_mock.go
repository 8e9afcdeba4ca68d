package util

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// MockCommandRunner implements CommandRunner for testing.
// Records all command invocations and returns pre-configured results.
// Safe for concurrent use, since the scheduler runs commands from its own goroutine.
type MockCommandRunner struct {
	mu sync.Mutex

	// commands maps "name arg1 arg2 ..." to MockResult.
	commands map[string]MockResult

	// handler, when set, answers every command not registered via Expect.
	handler func(call CommandCall) ([]byte, error)

	// defaultError is returned for unexpected commands.
	defaultError error

	// Calls records all command invocations in order.
	Calls []CommandCall
}

// MockResult holds the pre-configured output and error for a command.
type MockResult struct {
	Output []byte
	Err    error
}

// CommandCall records a single command invocation.
type CommandCall struct {
	Name string
	Args []string
	Key  string // "name arg1 arg2 ..."
}

// NewMockCommandRunner creates a mock that fails on unexpected commands.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		commands:     make(map[string]MockResult),
		defaultError: fmt.Errorf("unexpected command"),
	}
}

// Expect registers a command and its expected result.
// cmd format: "name arg1 arg2 ..." (space-separated).
func (m *MockCommandRunner) Expect(cmd string, output []byte, err error) *MockCommandRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands[cmd] = MockResult{Output: output, Err: err}
	return m
}

// ExpectSuccess is shorthand for Expect(cmd, output, nil).
func (m *MockCommandRunner) ExpectSuccess(cmd string, output []byte) *MockCommandRunner {
	return m.Expect(cmd, output, nil)
}

// ExpectFailure is shorthand for Expect(cmd, output, err).
func (m *MockCommandRunner) ExpectFailure(cmd string, output []byte, err error) *MockCommandRunner {
	return m.Expect(cmd, output, err)
}

// HandleWith answers unregistered commands with fn instead of failing.
func (m *MockCommandRunner) HandleWith(fn func(call CommandCall) ([]byte, error)) *MockCommandRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = fn
	return m
}

// AllowUnexpected makes unexpected commands return empty output and nil error.
func (m *MockCommandRunner) AllowUnexpected() *MockCommandRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultError = nil
	return m
}

// Run implements CommandRunner.
func (m *MockCommandRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	key := name
	if len(args) > 0 {
		key = name + " " + strings.Join(args, " ")
	}
	call := CommandCall{Name: name, Args: args, Key: key}

	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	result, ok := m.commands[key]
	handler := m.handler
	defaultError := m.defaultError
	m.mu.Unlock()

	if ok {
		return result.Output, result.Err
	}
	if handler != nil {
		return handler(call)
	}
	if defaultError != nil {
		return nil, fmt.Errorf("%w: %s", defaultError, key)
	}
	return nil, nil
}

// Called returns true if the command was called at least once.
func (m *MockCommandRunner) Called(cmd string) bool {
	return m.CallCount(cmd) > 0
}

// CallCount returns how many times the command was called.
func (m *MockCommandRunner) CallCount(cmd string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.Calls {
		if call.Key == cmd {
			count++
		}
	}
	return count
}

// AssertCalled fails the test if the command was not called.
func (m *MockCommandRunner) AssertCalled(t *testing.T, cmd string) {
	t.Helper()
	if !m.Called(cmd) {
		t.Errorf("expected command to be called: %s", cmd)
		t.Errorf("actual calls: %v", m.CallKeys())
	}
}

// AssertNotCalled fails the test if the command was called.
func (m *MockCommandRunner) AssertNotCalled(t *testing.T, cmd string) {
	t.Helper()
	if m.Called(cmd) {
		t.Errorf("expected command NOT to be called: %s", cmd)
	}
}

// CallKeys returns all called command keys for debugging.
func (m *MockCommandRunner) CallKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.Calls))
	for i, call := range m.Calls {
		keys[i] = call.Key
	}
	return keys
}
