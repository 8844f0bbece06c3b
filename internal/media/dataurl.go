// Package media handles data URLs and prepares photos for the analysis model.
package media

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidDataURL is returned for a data URL without a base64 payload.
var ErrInvalidDataURL = errors.New("media: invalid data URL")

// DataURL is a parsed "data:<mime>;base64,<payload>" value.
type DataURL struct {
	MIMEType string
	Payload  string
}

// ParseDataURL splits a data URL into its MIME type and base64 payload.
// A value without the "data:" prefix is treated as a bare payload.
func ParseDataURL(s string) (DataURL, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return DataURL{Payload: s}, nil
	}

	header, payload, ok := strings.Cut(s, ",")
	if !ok {
		return DataURL{}, ErrInvalidDataURL
	}
	meta := strings.TrimPrefix(header, "data:")
	mime, params, _ := strings.Cut(meta, ";")
	if !strings.Contains(params, "base64") {
		return DataURL{}, ErrInvalidDataURL
	}
	return DataURL{MIMEType: mime, Payload: payload}, nil
}

// StripHeader returns the payload after the first comma of a data URL, or s
// unchanged when it has no data-url header.
func StripHeader(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if _, payload, ok := strings.Cut(s, ","); ok {
		return payload
	}
	return ""
}

// EncodeDataURL renders data as a base64 data URL.
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
