package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

func dataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func padded(header []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, header)
	return out
}

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"png", dataURL("image/png", pngHeader), nil},
		{"gif", dataURL("image/gif", gifHeader), nil},
		{"jpeg", dataURL("image/jpeg", jpegHeader), nil},
		{"upper case type", dataURL("IMAGE/PNG", pngHeader), nil},
		{"exactly the limit", dataURL("image/png", padded(pngHeader, MaxImageSize)), nil},
		{"over the limit", dataURL("image/png", padded(pngHeader, MaxImageSize+1)), ErrImageTooLarge},
		{"svg not allowed", dataURL("image/svg+xml", []byte("<svg></svg>")), ErrUnsupportedType},
		{"declared png but gif", dataURL("image/png", gifHeader), ErrTypeMismatch},
		{"text disguised as jpeg", dataURL("image/jpeg", []byte("hello world")), ErrTypeMismatch},
		{"not a data url", "https://example.com/a.png", ErrMalformedImage},
		{"missing base64 marker", "data:image/png," + base64.StdEncoding.EncodeToString(pngHeader), ErrMalformedImage},
		{"bad payload", "data:image/png;base64,%%%", ErrMalformedImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upload, err := ParseDataURL(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.HasPrefix(upload.ContentType, "image/") {
				t.Errorf("content type = %q", upload.ContentType)
			}
		})
	}
}

func TestInlineStoreKeepsDataURL(t *testing.T) {
	in := dataURL("image/gif", gifHeader)
	upload, err := ParseDataURL(in)
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}

	ref, err := NewInlineStore().Put(context.Background(), upload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ref.URL != in {
		t.Errorf("url = %q, want the uploaded data URL", ref.URL)
	}
	if ref.ContentType != "image/gif" || ref.Size != len(gifHeader) {
		t.Errorf("ref = %+v", ref)
	}
}
