package composer

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAttachment(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr error
	}{
		{"png", pngHeader, "image/png", nil},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), "image/gif", nil},
		{"text", []byte("hello there"), "", ErrInvalidAttachment},
		{"pdf", []byte("%PDF-1.7\n"), "", ErrInvalidAttachment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAttachment(tt.name, tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if a != nil {
					t.Fatalf("got attachment on error")
				}
				return
			}
			if a.MediaType != tt.want {
				t.Errorf("media type = %q, want %q", a.MediaType, tt.want)
			}
			if !strings.HasPrefix(a.DataURL, "data:"+tt.want+";base64,") {
				t.Errorf("data url = %q", a.DataURL[:32])
			}
		})
	}
}

func TestAttachmentTooLarge(t *testing.T) {
	big := make([]byte, MaxAttachmentSize+1)
	copy(big, pngHeader)
	if _, err := NewAttachment("big.png", big); !errors.Is(err, ErrAttachmentTooLarge) {
		t.Fatalf("err = %v, want ErrAttachmentTooLarge", err)
	}
}

func TestLoadAttachmentMissingFile(t *testing.T) {
	if _, err := LoadAttachment("/nonexistent/cat.png"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
