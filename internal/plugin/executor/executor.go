// Package executor runs exporter plugins regardless of their underlying
// protocol (go-plugin RPC or JSON-stdio).
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/pixelpalette/internal/plugin/protocol"
)

// JSONOutputFile is the file name given to a json-stdio plugin's stdout.
const JSONOutputFile = "output.txt"

// PluginExecutor provides a unified interface for executing plugins.
type PluginExecutor struct {
	path         string
	info         protocol.PluginInfo
	protocolType protocol.PluginType
	runner       ProcessRunner
	logger       hclog.Logger

	client    *plugin.Client
	rpcClient *protocol.ExporterPluginRPCClient
}

// New creates a new PluginExecutor by detecting the plugin's protocol.
func New(ctx context.Context, pluginPath string, logger hclog.Logger) (*PluginExecutor, error) {
	return NewWithRunner(ctx, pluginPath, logger, NewRealProcessRunner())
}

// NewWithRunner creates a PluginExecutor whose json-stdio calls and protocol
// detection go through runner.
func NewWithRunner(ctx context.Context, pluginPath string, logger hclog.Logger, runner ProcessRunner) (*PluginExecutor, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	query := func(ctx context.Context, path string) ([]byte, error) {
		stdout, stderr, err := runner.Run(ctx, path, []string{"--plugin-info"}, nil)
		if err != nil {
			return nil, commandError(err, stderr)
		}
		return stdout, nil
	}

	result, err := protocol.Detect(ctx, pluginPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to detect plugin protocol: %w", err)
	}

	logger.Debug("detected plugin",
		"path", pluginPath,
		"name", result.PluginInfo.Name,
		"version", result.PluginInfo.Version,
		"protocol", result.Type)

	return &PluginExecutor{
		path:         pluginPath,
		info:         result.PluginInfo,
		protocolType: result.Type,
		runner:       runner,
		logger:       logger,
	}, nil
}

// Info returns the metadata the plugin reported for --plugin-info.
func (e *PluginExecutor) Info() protocol.PluginInfo {
	return e.info
}

// Type returns the protocol the plugin speaks.
func (e *PluginExecutor) Type() protocol.PluginType {
	return e.protocolType
}

// Export runs the plugin against palette and returns the files it produced,
// keyed by relative path.
func (e *PluginExecutor) Export(ctx context.Context, palette protocol.PaletteData) (map[string][]byte, error) {
	switch e.protocolType {
	case protocol.PluginTypeGoPlugin:
		return e.exportGoPlugin(ctx, palette)
	case protocol.PluginTypeJSON:
		return e.exportJSON(ctx, palette)
	default:
		return nil, fmt.Errorf("unsupported protocol type: %s", e.protocolType)
	}
}

// Close cleans up any resources held by the executor.
func (e *PluginExecutor) Close() {
	if e.client != nil {
		e.client.Kill()
		e.client = nil
		e.rpcClient = nil
	}
}

// --- Go-Plugin RPC implementation ---

func (e *PluginExecutor) getRPCClient() (*protocol.ExporterPluginRPCClient, error) {
	if e.rpcClient != nil {
		return e.rpcClient, nil
	}

	e.client = plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: protocol.Handshake,
		Plugins: map[string]plugin.Plugin{
			protocol.ExporterPluginName: &protocol.ExporterPluginRPC{},
		},
		Cmd:              exec.Command(e.path), // #nosec G204 - plugin path chosen by the user
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
		Logger:           e.logger.Named("plugin"),
	})

	rpcClient, err := e.client.Client()
	if err != nil {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(protocol.ExporterPluginName)
	if err != nil {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	client, ok := raw.(*protocol.ExporterPluginRPCClient)
	if !ok {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("plugin dispensed unexpected type %T", raw)
	}
	e.rpcClient = client

	return client, nil
}

func (e *PluginExecutor) exportGoPlugin(ctx context.Context, palette protocol.PaletteData) (map[string][]byte, error) {
	client, err := e.getRPCClient()
	if err != nil {
		return nil, err
	}
	return client.Export(ctx, palette)
}

// --- JSON-stdio implementation ---

func (e *PluginExecutor) exportJSON(ctx context.Context, palette protocol.PaletteData) (map[string][]byte, error) {
	paletteJSON, err := json.Marshal(palette)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal palette: %w", err)
	}

	stdout, stderr, err := e.runner.Run(ctx, e.path, nil, bytes.NewReader(paletteJSON))
	if err != nil {
		return nil, fmt.Errorf("plugin execution failed: %w", commandError(err, stderr))
	}
	if len(stderr) > 0 {
		e.logger.Debug("plugin stderr", "path", e.path, "stderr", string(bytes.TrimSpace(stderr)))
	}

	// Stdout becomes a single virtual file.
	result := make(map[string][]byte)
	if len(stdout) > 0 {
		result[JSONOutputFile] = stdout
	}
	return result, nil
}

// commandError folds a failed command's stderr into its error.
func commandError(err error, stderr []byte) error {
	msg := bytes.TrimSpace(stderr)
	if len(msg) == 0 {
		return err
	}
	return fmt.Errorf("%w: %s", err, msg)
}
