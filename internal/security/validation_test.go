package security

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		allowInsecure bool
		wantErr       bool
	}{
		{name: "https", url: "https://cdn.example.com/face.jpg"},
		{name: "http rejected", url: "http://cdn.example.com/face.jpg", wantErr: true},
		{name: "http allowed", url: "http://cdn.example.com/face.jpg", allowInsecure: true},
		{name: "empty", url: "", wantErr: true},
		{name: "ftp", url: "ftp://example.com/x", allowInsecure: true, wantErr: true},
		{name: "localhost", url: "https://localhost/x", wantErr: true},
		{name: "private", url: "https://192.168.1.4/x", wantErr: true},
		{name: "private 172", url: "https://172.20.0.1/x", wantErr: true},
		{name: "public 172", url: "https://172.64.0.1/x"},
		{name: "no host", url: "https:///x", wantErr: true},
		{name: "loopback v6", url: "https://[::1]/x", wantErr: true},
		{name: "link local", url: "https://169.254.169.254/latest", wantErr: true},
		{name: "localhost subdomain", url: "https://api.localhost/x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHTTPURL(tt.url, tt.allowInsecure)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "plain", path: "skin.png"},
		{name: "nested", path: "masks/skin.png"},
		{name: "traversal", path: "../skin.png", wantErr: true},
		{name: "absolute", path: "/etc/passwd", wantErr: true},
		{name: "empty", path: "", wantErr: true},
		{name: "cleaned traversal", path: "masks/../../skin.png", wantErr: true},
		{name: "dots in name", path: "skin..v2.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilePath(tt.path, "/data/masks")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestLimitedReader(t *testing.T) {
	data, err := io.ReadAll(NewLimitedReader(strings.NewReader("abc"), 10))
	if err != nil || string(data) != "abc" {
		t.Errorf("ReadAll = %q, %v", data, err)
	}

	data, err = io.ReadAll(NewLimitedReader(strings.NewReader("abcd"), 4))
	if err != nil || string(data) != "abcd" {
		t.Errorf("ReadAll at exactly the limit = %q, %v", data, err)
	}

	_, err = io.ReadAll(NewLimitedReader(strings.NewReader("abcdef"), 4))
	if !errors.Is(err, ErrSizeLimit) {
		t.Errorf("ReadAll error = %v, want ErrSizeLimit", err)
	}
}
