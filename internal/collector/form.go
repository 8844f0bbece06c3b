// Package collector holds the state of a meal submission form: the family
// counters, the free-text description and an optional photo.
package collector

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/guttosm/nutriplate/internal/analysis"
	"github.com/guttosm/nutriplate/internal/domain/model"
	"github.com/guttosm/nutriplate/internal/media"
)

// ErrSubmitDisabled is returned by Submit when CanSubmit is false.
var ErrSubmitDisabled = errors.New("collector: submit is disabled")

// Member identifies one of the family counters.
type Member string

const (
	AdultMales   Member = "adultMales"
	AdultFemales Member = "adultFemales"
	Children     Member = "children"
)

// Image is an attached photo.
type Image struct {
	// DataURL is kept for previews.
	DataURL string
	// Payload is the base64 body without the data-url header.
	Payload string
}

// Form is not safe for concurrent use; CanSubmit guards against overlapping
// submissions from the same presenter.
type Form struct {
	Family  model.FamilyComposition
	Text    string
	Image   *Image
	Pending bool
	Result  *model.AnalysisResult
	Error   string
}

// NewForm returns a form seeded with one member of each kind.
func NewForm() *Form {
	return &Form{Family: model.DefaultFamily()}
}

// ParseCount coerces raw counter input. Invalid or negative values become 0.
func ParseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// SetCount updates one counter from raw input.
func (f *Form) SetCount(member Member, raw string) {
	n := ParseCount(raw)
	switch member {
	case AdultMales:
		f.Family.AdultMales = n
	case AdultFemales:
		f.Family.AdultFemales = n
	case Children:
		f.Family.Children = n
	}
}

// SetText replaces the meal description.
func (f *Form) SetText(s string) {
	f.Text = s
}

// SetImage attaches a photo given as a data URL, replacing any previous one.
func (f *Form) SetImage(dataURL string) error {
	parsed, err := media.ParseDataURL(dataURL)
	if err != nil {
		return err
	}
	if parsed.Payload == "" {
		f.ClearImage()
		return nil
	}
	f.Image = &Image{DataURL: dataURL, Payload: parsed.Payload}
	return nil
}

// SetImageBytes attaches raw photo bytes of the given MIME type.
func (f *Form) SetImageBytes(data []byte, mimeType string) {
	if len(data) == 0 {
		f.ClearImage()
		return
	}
	if mimeType == "" {
		mimeType = analysis.ImageMIMEType
	}
	url := media.EncodeDataURL(mimeType, data)
	f.Image = &Image{DataURL: url, Payload: media.StripHeader(url)}
}

// ClearImage removes the attached photo.
func (f *Form) ClearImage() {
	f.Image = nil
}

// ImagePayload returns the base64 payload, or "" when no photo is attached.
func (f *Form) ImagePayload() string {
	if f.Image == nil {
		return ""
	}
	return f.Image.Payload
}

// CanSubmit is false while a request is in flight or when there is nothing to analyze.
func (f *Form) CanSubmit() bool {
	if f.Pending {
		return false
	}
	return analysis.PresenceOf(f.Text, f.ImagePayload()) != analysis.Neither
}

// Submit runs one analysis and stores its outcome on the form. The returned
// error is the analyzer's, unchanged; its message is also kept in Error.
func (f *Form) Submit(ctx context.Context, analyzer analysis.Analyzer) error {
	if !f.CanSubmit() {
		return ErrSubmitDisabled
	}

	f.Pending = true
	f.Result = nil
	f.Error = ""
	defer func() { f.Pending = false }()

	result, err := analyzer.Analyze(ctx, f.Family, f.Text, f.ImagePayload())
	if err != nil {
		f.Error = err.Error()
		return err
	}
	f.Result = result
	return nil
}

// Reset drops the last result and error but keeps the inputs.
func (f *Form) Reset() {
	f.Result = nil
	f.Error = ""
}
