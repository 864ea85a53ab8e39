package composer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxAttachmentSize matches the chat backend's request body limit.
const MaxAttachmentSize = 10 << 20

// ErrInvalidAttachment is returned for files that are not images.
var ErrInvalidAttachment = errors.New("attachment is not an image")

// ErrAttachmentTooLarge is returned for images over MaxAttachmentSize.
var ErrAttachmentTooLarge = errors.New("attachment too large")

// Attachment is a pending image, encoded the way the chat backend expects.
type Attachment struct {
	Name      string
	MediaType string
	Size      int
	DataURL   string
}

// LoadAttachment reads path and encodes it as a data URL. The media type is
// sniffed from the content, not taken from the extension.
func LoadAttachment(path string) (*Attachment, error) {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewAttachment(filepath.Base(path), data)
}

// NewAttachment builds an attachment from raw bytes.
func NewAttachment(name string, data []byte) (*Attachment, error) {
	mediaType := http.DetectContentType(data)
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("%s (%s): %w", name, mediaType, ErrInvalidAttachment)
	}
	if len(data) > MaxAttachmentSize {
		return nil, fmt.Errorf("%s: %w", name, ErrAttachmentTooLarge)
	}
	return &Attachment{
		Name:      name,
		MediaType: mediaType,
		Size:      len(data),
		DataURL:   "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}
