package plugin

import (
	"context"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// ExporterPluginRPC implements the go-plugin Plugin interface for exporter plugins.
type ExporterPluginRPC struct {
	plugin.Plugin
	Impl ExporterPlugin
}

// Server returns an RPC server for this plugin.
func (p *ExporterPluginRPC) Server(*plugin.MuxBroker) (any, error) {
	return &ExporterPluginRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *ExporterPluginRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &ExporterPluginRPCClient{client: c}, nil
}

// ExporterPluginRPCServer is the RPC server implementation for exporter plugins.
type ExporterPluginRPCServer struct {
	Impl ExporterPlugin
}

// Export implements the RPC method for palette export.
func (s *ExporterPluginRPCServer) Export(palette PaletteData, resp *map[string][]byte) error {
	result, err := s.Impl.Export(context.Background(), palette)
	if err != nil {
		return err
	}
	*resp = result
	return nil
}

// GetMetadata implements the RPC method for fetching plugin metadata.
func (s *ExporterPluginRPCServer) GetMetadata(_ any, resp *PluginInfo) error {
	*resp = s.Impl.GetMetadata()
	return nil
}

// ExporterPluginRPCClient is the RPC client implementation for exporter plugins.
type ExporterPluginRPCClient struct {
	client *rpc.Client
}

// Export calls the remote Export method.
func (c *ExporterPluginRPCClient) Export(_ context.Context, palette PaletteData) (map[string][]byte, error) {
	var result map[string][]byte
	if err := c.client.Call("Plugin.Export", palette, &result); err != nil {
		return nil, &RPCError{Message: err.Error()}
	}
	return result, nil
}

// GetMetadata calls the remote GetMetadata method.
func (c *ExporterPluginRPCClient) GetMetadata() PluginInfo {
	var info PluginInfo
	if err := c.client.Call("Plugin.GetMetadata", new(any), &info); err != nil {
		return PluginInfo{}
	}
	return info
}

// RPCError represents an error returned from an RPC call.
type RPCError struct {
	Message string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Message
}
