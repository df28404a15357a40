package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// InfoTimeout bounds how long a plugin may take to answer --plugin-info.
const InfoTimeout = 5 * time.Second

// DetectorResult contains information about a detected plugin protocol.
type DetectorResult struct {
	// Type indicates which protocol the plugin uses.
	Type PluginType

	// SupportsGoPlugin indicates if the plugin binary has go-plugin support.
	SupportsGoPlugin bool

	// PluginInfo contains metadata from --plugin-info.
	PluginInfo PluginInfo
}

// QueryFunc runs a plugin with --plugin-info and returns its stdout.
type QueryFunc func(ctx context.Context, pluginPath string) ([]byte, error)

// DetectProtocol detects which protocol a plugin uses by querying it.
func DetectProtocol(ctx context.Context, pluginPath string) (*DetectorResult, error) {
	return Detect(ctx, pluginPath, queryExec)
}

// Detect queries a plugin through query and parses its answer.
func Detect(ctx context.Context, pluginPath string, query QueryFunc) (*DetectorResult, error) {
	ctx, cancel := context.WithTimeout(ctx, InfoTimeout)
	defer cancel()

	output, err := query(ctx, pluginPath)
	if err != nil {
		return nil, fmt.Errorf("failed to query plugin: %w", err)
	}
	return ParseInfo(output)
}

// ParseInfo parses a --plugin-info answer and checks its protocol version.
func ParseInfo(output []byte) (*DetectorResult, error) {
	var info PluginInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("failed to parse plugin info: %w", err)
	}

	if info.ProtocolVersion != "" {
		if ok, err := IsCompatible(info.ProtocolVersion); !ok {
			return nil, fmt.Errorf("plugin %q: %w", info.Name, err)
		}
	}

	result := &DetectorResult{
		PluginInfo: info,
	}

	switch PluginType(info.PluginProtocol) {
	case PluginTypeGoPlugin:
		result.Type = PluginTypeGoPlugin
		result.SupportsGoPlugin = true
	case PluginTypeJSON, "":
		// Empty defaults to json-stdio.
		result.Type = PluginTypeJSON
	default:
		return nil, fmt.Errorf("unknown plugin_protocol: %s", info.PluginProtocol)
	}

	return result, nil
}

func queryExec(ctx context.Context, pluginPath string) ([]byte, error) {
	return exec.CommandContext(ctx, pluginPath, "--plugin-info").Output() // #nosec G204 - plugin path chosen by the user
}
