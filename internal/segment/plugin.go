package segment

import (
	"context"
	"fmt"
	"image"
	"os/exec"
	"sync"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/seasonal/internal/sampler"
	"github.com/jmylchreest/seasonal/pkg/plugin"
)

// Plugin runs segmentation in an external go-plugin process. The process is
// started on first use and kept until Close.
type Plugin struct {
	path   string
	logger hclog.Logger

	mu     sync.Mutex
	client *goplugin.Client
	rpc    *plugin.SegmenterRPCClient
}

// NewPlugin creates a segmenter backed by the plugin binary at path.
func NewPlugin(path string, logger hclog.Logger) *Plugin {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Plugin{path: path, logger: logger.Named("plugin")}
}

func (p *Plugin) connect() (*plugin.SegmenterRPCClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rpc != nil {
		return p.rpc, nil
	}

	p.client = goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  plugin.Handshake,
		Plugins:          plugin.PluginMap(nil),
		Cmd:              exec.Command(p.path), // #nosec G204 - Plugin path is user-configured
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           p.logger,
	})

	rpcClient, err := p.client.Client()
	if err != nil {
		p.client.Kill()
		p.client = nil
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(plugin.PluginName)
	if err != nil {
		p.client.Kill()
		p.client = nil
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	client, ok := raw.(*plugin.SegmenterRPCClient)
	if !ok {
		p.client.Kill()
		p.client = nil
		return nil, fmt.Errorf("plugin returned unexpected type %T", raw)
	}

	info := client.GetMetadata()
	p.logger.Debug("segmenter plugin started", "path", p.path, "name", info.Name, "version", info.Version)
	p.rpc = client
	return client, nil
}

// Segment sends img to the plugin and returns the masks it produced.
func (p *Plugin) Segment(ctx context.Context, img image.Image) (sampler.Masks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := p.connect()
	if err != nil {
		return nil, err
	}

	type result struct {
		masks map[string]*image.Gray
		err   error
	}
	done := make(chan result, 1)
	go func() {
		masks, err := client.Segment(img)
		done <- result{masks: masks, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("segmenter plugin %s: %w", p.path, res.err)
		}
		return FromNamed(res.masks)
	}
}

// Close stops the plugin process.
func (p *Plugin) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		p.client.Kill()
		p.client = nil
		p.rpc = nil
	}
}
