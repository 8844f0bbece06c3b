package analysis

import (
	"encoding/base64"
	"strings"
)

const (
	// FallbackPrompt is sent as the text part when only an image is supplied.
	FallbackPrompt = "Analyze this meal plate."
	// ImageMIMEType is the content type declared for image parts.
	ImageMIMEType = "image/jpeg"
)

// Presence enumerates which inputs a request carries.
type Presence int

const (
	Neither Presence = iota
	TextOnly
	ImageOnly
	Both
)

func (p Presence) String() string {
	switch p {
	case TextOnly:
		return "text_only"
	case ImageOnly:
		return "image_only"
	case Both:
		return "both"
	default:
		return "neither"
	}
}

// PresenceOf classifies the inputs. Whitespace-only text counts as absent.
func PresenceOf(text, imagePayload string) Presence {
	return PresenceFor(strings.TrimSpace(text) != "", strings.TrimSpace(imagePayload) != "")
}

// PresenceFor classifies inputs already known to be present or absent.
func PresenceFor(hasText, hasImage bool) Presence {
	switch {
	case hasText && hasImage:
		return Both
	case hasText:
		return TextOnly
	case hasImage:
		return ImageOnly
	default:
		return Neither
	}
}

// Part is one element of a request: either an ImagePart or a TextPart.
type Part interface {
	isPart()
}

// TextPart carries free text.
type TextPart struct {
	Text string
}

func (TextPart) isPart() {}

// ImagePart carries decoded image bytes.
type ImagePart struct {
	MIMEType string
	Data     []byte
}

func (ImagePart) isPart() {}

// NewTextPart rejects empty text.
func NewTextPart(text string) (TextPart, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TextPart{}, &InputError{Message: "text part must not be empty"}
	}
	return TextPart{Text: text}, nil
}

// NewImagePart decodes a base64 payload with the data-url header already stripped.
func NewImagePart(mimeType, payload string) (ImagePart, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return ImagePart{}, &InputError{Message: "image part must not be empty"}
	}
	if mimeType == "" {
		mimeType = ImageMIMEType
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some encoders omit padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return ImagePart{}, &InputError{Message: "image payload is not valid base64"}
		}
	}
	if len(data) == 0 {
		return ImagePart{}, &InputError{Message: "image part must not be empty"}
	}
	return ImagePart{MIMEType: mimeType, Data: data}, nil
}

// BuildParts turns the raw inputs into ordered request parts: the image first,
// then the text, or the fallback prompt when only an image is present.
func BuildParts(text, imagePayload string) ([]Part, Presence, error) {
	presence := PresenceOf(text, imagePayload)

	switch presence {
	case TextOnly:
		tp, err := NewTextPart(text)
		if err != nil {
			return nil, presence, err
		}
		return []Part{tp}, presence, nil

	case ImageOnly:
		img, err := NewImagePart(ImageMIMEType, imagePayload)
		if err != nil {
			return nil, presence, err
		}
		return []Part{img, TextPart{Text: FallbackPrompt}}, presence, nil

	case Both:
		img, err := NewImagePart(ImageMIMEType, imagePayload)
		if err != nil {
			return nil, presence, err
		}
		tp, err := NewTextPart(text)
		if err != nil {
			return nil, presence, err
		}
		return []Part{img, tp}, presence, nil

	default:
		return nil, presence, &InputError{Message: MissingInputMessage}
	}
}
