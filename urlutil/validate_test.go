package urlutil

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https", url: "https://www.example.com/page"},
		{name: "valid http", url: "http://example.com"},
		{name: "whitespace trimmed", url: "  https://example.com  "},
		{name: "empty", url: "", wantErr: true},
		{name: "no scheme", url: "example.com/page", wantErr: true},
		{name: "bad scheme", url: "ftp://example.com", wantErr: true},
		{name: "missing host", url: "https://", wantErr: true},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", MaxURLLength), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
