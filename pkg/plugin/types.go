package plugin

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// Segmenter splits a face image into region masks.
type Segmenter interface {
	// Segment returns one grayscale mask per region name ("skin", "hair",
	// "lips", "eyes"), each with the same dimensions as img. Mask values are
	// region probabilities scaled to 0..255.
	Segment(img image.Image) (map[string]*image.Gray, error)

	// GetMetadata returns plugin metadata.
	GetMetadata() PluginInfo
}

// PluginInfo contains metadata about a plugin.
type PluginInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
	Description     string `json:"description"`
}

// SegmentRequest carries a PNG encoded image to the plugin.
type SegmentRequest struct {
	Image []byte
}

// SegmentResponse carries PNG encoded masks back to the host.
type SegmentResponse struct {
	Masks map[string][]byte
	Error string
}

// RPCError represents an error reported by the plugin process.
type RPCError struct {
	Message string
}

func (e *RPCError) Error() string {
	return e.Message
}

// EncodePNG encodes an image for transfer.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeImage decodes a transferred image.
func DecodeImage(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode png: %w", err)
	}
	return img, nil
}

// DecodeGray decodes a transferred mask, converting it to grayscale if needed.
func DecodeGray(data []byte) (*image.Gray, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	if gray, ok := img.(*image.Gray); ok {
		return gray, nil
	}
	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
	return gray, nil
}
