package plugin

import (
	"fmt"
	"image"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// SegmenterRPC implements the go-plugin Plugin interface for segmenters.
type SegmenterRPC struct {
	plugin.Plugin
	Impl Segmenter
}

// Server returns an RPC server for this plugin.
func (p *SegmenterRPC) Server(*plugin.MuxBroker) (any, error) {
	return &SegmenterRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *SegmenterRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &SegmenterRPCClient{client: c}, nil
}

// SegmenterRPCServer is the RPC server side of a segmenter.
type SegmenterRPCServer struct {
	Impl Segmenter
}

// Segment implements the RPC method for segmentation. Segmenter failures are
// returned in the response so the host can tell them apart from transport errors.
func (s *SegmenterRPCServer) Segment(req SegmentRequest, resp *SegmentResponse) error {
	img, err := DecodeImage(req.Image)
	if err != nil {
		return err
	}

	masks, err := s.Impl.Segment(img)
	if err != nil {
		resp.Error = err.Error()
		return nil
	}

	resp.Masks = make(map[string][]byte, len(masks))
	for name, mask := range masks {
		data, err := EncodePNG(mask)
		if err != nil {
			return fmt.Errorf("mask %s: %w", name, err)
		}
		resp.Masks[name] = data
	}
	return nil
}

// GetMetadata implements the RPC method for fetching plugin metadata.
func (s *SegmenterRPCServer) GetMetadata(_ any, resp *PluginInfo) error {
	*resp = s.Impl.GetMetadata()
	return nil
}

// SegmenterRPCClient is the host side of a segmenter.
type SegmenterRPCClient struct {
	client *rpc.Client
}

// NewSegmenterRPCClient wraps an established net/rpc connection.
func NewSegmenterRPCClient(c *rpc.Client) *SegmenterRPCClient {
	return &SegmenterRPCClient{client: c}
}

// Segment calls the remote Segment method.
func (c *SegmenterRPCClient) Segment(img image.Image) (map[string]*image.Gray, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}

	var resp SegmentResponse
	if err := c.client.Call("Plugin.Segment", SegmentRequest{Image: data}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &RPCError{Message: resp.Error}
	}

	masks := make(map[string]*image.Gray, len(resp.Masks))
	for name, raw := range resp.Masks {
		gray, err := DecodeGray(raw)
		if err != nil {
			return nil, fmt.Errorf("mask %s: %w", name, err)
		}
		masks[name] = gray
	}
	return masks, nil
}

// GetMetadata calls the remote GetMetadata method.
func (c *SegmenterRPCClient) GetMetadata() PluginInfo {
	var info PluginInfo
	if err := c.client.Call("Plugin.GetMetadata", new(any), &info); err != nil {
		return PluginInfo{}
	}
	return info
}
