package executor

import (
	"context"
	"errors"
	"io"
	"time"
)

// mockProcessRunner is a scripted ProcessRunner for tests.
type mockProcessRunner struct {
	// runFunc provides custom behaviour per call.
	runFunc func(ctx context.Context, path string, args []string, stdin []byte) (stdout, stderr []byte, err error)

	// delay simulates slow process execution.
	delay time.Duration

	calls    int
	lastArgs []string
	stdin    []byte
}

func (m *mockProcessRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	m.calls++
	m.lastArgs = args
	m.stdin = nil
	if stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, nil, err
		}
		m.stdin = data
	}

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}

	if m.runFunc != nil {
		return m.runFunc(ctx, path, args, m.stdin)
	}
	return []byte("{}"), nil, nil
}

// jsonPluginRunner answers --plugin-info as a json-stdio plugin and echoes
// output for a plain run.
func jsonPluginRunner(output string) *mockProcessRunner {
	return &mockProcessRunner{
		runFunc: func(_ context.Context, _ string, args []string, _ []byte) ([]byte, []byte, error) {
			if len(args) > 0 && args[0] == "--plugin-info" {
				return []byte(`{"name":"mock","version":"1.0.0","protocol_version":"0.1.0","plugin_protocol":"json-stdio"}`), nil, nil
			}
			return []byte(output), []byte("rendered\n"), nil
		},
	}
}

// failingRunner fails every call with msg on stderr.
func failingRunner(msg string) *mockProcessRunner {
	return &mockProcessRunner{
		runFunc: func(context.Context, string, []string, []byte) ([]byte, []byte, error) {
			return nil, []byte(msg), errors.New("exit status 2")
		},
	}
}
