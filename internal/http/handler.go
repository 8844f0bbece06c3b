// Package http provides the HTTP API and the embedded web form for meal analysis.
package http

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplate/internal/analysis"
	"github.com/guttosm/nutriplate/internal/collector"
	"github.com/guttosm/nutriplate/internal/domain/dto"
	"github.com/guttosm/nutriplate/internal/domain/model"
	"github.com/guttosm/nutriplate/internal/i18n"
	"github.com/guttosm/nutriplate/internal/media"
	"github.com/guttosm/nutriplate/internal/middleware"
	"github.com/guttosm/nutriplate/internal/service"
)

// DefaultMaxUploadBytes caps a decoded photo when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// PhotoField is the multipart field carrying the meal photo.
const PhotoField = "photo"

// errImageTooLarge is returned when a decoded photo exceeds the upload limit.
var errImageTooLarge = errors.New("image exceeds upload limit")

// Handler handles the meal analysis endpoints.
type Handler struct {
	meals          service.MealService
	maxUploadBytes int64
}

// HandlerOption configures optional Handler parameters.
type HandlerOption func(*Handler)

// WithMaxUploadBytes sets the largest accepted photo in bytes.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// NewHandler creates a new Handler backed by the meal service.
func NewHandler(meals service.MealService, opts ...HandlerOption) *Handler {
	h := &Handler{
		meals:          meals,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Analyze handles POST /api/analyze requests.
//
// @Summary      Analyze a family meal
// @Description  Sends a meal description and/or photo to the analysis model and returns food items, totals, intake per consumption unit and the gap against the ICMR standard. The image may be a data URL or bare base64.
// @Tags         Meals
// @Accept       json
// @Produce      json
// @Param        Accept-Language header string false "Response language (en, pt, nl, hi)"
// @Param        request body dto.AnalyzeRequest true "Meal description, photo and family"
// @Success      200 {object} dto.AnalysisResponse "Analysis result"
// @Failure      400 {object} dto.ErrorResponse "Missing input, invalid image or invalid family"
// @Failure      413 {object} dto.ErrorResponse "Upload too large"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      502 {object} dto.ErrorResponse "Analysis service failed or returned an unusable reply"
// @Router       /api/analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.AnalyzeRequest](c)
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			middleware.AbortBodyTooLarge(c)
			return
		}
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if err := req.Validate(); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationFamily, err)
		return
	}

	image, err := h.decodeImage(req.Image)
	if err != nil {
		if errors.Is(err, errImageTooLarge) {
			middleware.AbortBodyTooLarge(c)
			return
		}
		builder.ErrorWithCode(http.StatusBadRequest, dto.ErrCodeInvalidImage, i18n.ErrKeyInvalidImage, err)
		return
	}

	h.analyze(c, model.ActionAnalyze, service.MealInput{
		Family: req.FamilyComposition(),
		Text:   req.Text,
		Image:  image,
	})
}

// AnalyzeUpload handles POST /api/analyze/upload requests.
//
// @Summary      Analyze a family meal from a form upload
// @Description  Multipart variant of /api/analyze. Counts that are not non-negative integers are treated as 0; omitted counts keep the default of one per member type.
// @Tags         Meals
// @Accept       multipart/form-data
// @Produce      json
// @Param        adultMales formData int false "Adult males (moderate work)"
// @Param        adultFemales formData int false "Adult females (moderate work)"
// @Param        children formData int false "Children"
// @Param        text formData string false "Meal description"
// @Param        photo formData file false "Meal photo (JPEG, PNG, GIF or WebP)"
// @Success      200 {object} dto.AnalysisResponse "Analysis result"
// @Failure      400 {object} dto.ErrorResponse "Missing input or invalid image"
// @Failure      413 {object} dto.ErrorResponse "Upload too large"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      502 {object} dto.ErrorResponse "Analysis service failed or returned an unusable reply"
// @Router       /api/analyze/upload [post]
func (h *Handler) AnalyzeUpload(c *gin.Context) {
	builder := NewResponseBuilder(c)

	form, err := c.MultipartForm()
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			middleware.AbortBodyTooLarge(c)
			return
		}
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	input := collector.NewForm()
	for _, member := range []collector.Member{collector.AdultMales, collector.AdultFemales, collector.Children} {
		if values, ok := form.Value[string(member)]; ok && len(values) > 0 {
			input.SetCount(member, values[0])
		}
	}
	input.SetText(c.PostForm("text"))

	image, err := h.readPhoto(c)
	if err != nil {
		if errors.Is(err, errImageTooLarge) || middleware.IsBodyTooLarge(err) {
			middleware.AbortBodyTooLarge(c)
			return
		}
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	h.analyze(c, model.ActionAnalyzeUpload, service.MealInput{
		Family: input.Family,
		Text:   input.Text,
		Image:  image,
	})
}

func (h *Handler) analyze(c *gin.Context, action string, in service.MealInput) {
	builder := NewResponseBuilder(c)

	result, err := h.meals.Analyze(c.Request.Context(), in)
	fields := auditFields(in)
	if err != nil {
		fields["error_kind"] = errorKind(err)
		if ls := loggingService(c); ls != nil {
			middleware.AuditLogError(ls, c, action, "Meal analysis failed", err, fields)
		}
		h.writeAnalysisError(builder, err)
		return
	}

	fields["food_items"] = len(result.FoodItems)
	fields["gap_status"] = string(result.Gap.Status)
	if discrepancies := result.Discrepancies(in.Family); len(discrepancies) > 0 {
		fields["discrepancies"] = len(discrepancies)
	}
	if ls := loggingService(c); ls != nil {
		middleware.AuditLog(ls, c, action, "Meal analyzed", fields)
	}

	builder.SuccessOK(result)
}

// writeAnalysisError maps the analysis error kinds to HTTP statuses.
func (h *Handler) writeAnalysisError(builder *ResponseBuilder, err error) {
	var inputErr *analysis.InputError
	switch {
	case errors.As(err, &inputErr):
		if inputErr.Message == analysis.MissingInputMessage {
			builder.ErrorWithCode(http.StatusBadRequest, dto.ErrCodeMissingInput, i18n.ErrKeyMissingInput, err)
			return
		}
		builder.ErrorWithCode(http.StatusBadRequest, dto.ErrCodeInvalidImage, i18n.ErrKeyInvalidImage, err)
	case errors.Is(err, media.ErrUnsupportedImage):
		builder.ErrorWithCode(http.StatusBadRequest, dto.ErrCodeInvalidImage, i18n.ErrKeyInvalidImage, err)
	case errors.Is(err, analysis.ErrService):
		builder.ErrorWithCode(http.StatusBadGateway, dto.ErrCodeAnalysisFailed, i18n.ErrKeyAnalysisNoResponse, err)
	case errors.Is(err, analysis.ErrParse):
		builder.ErrorWithCode(http.StatusBadGateway, dto.ErrCodeAnalysisFailed, i18n.ErrKeyAnalysisParse, err)
	case errors.Is(err, analysis.ErrTransport):
		builder.ErrorWithCode(http.StatusBadGateway, dto.ErrCodeUpstream, i18n.ErrKeyAnalysisUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		builder.Error(http.StatusGatewayTimeout, i18n.ErrKeyTimeout, err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

// decodeImage accepts a data URL or bare base64, padded or not.
func (h *Handler) decodeImage(raw string) ([]byte, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed, err := media.ParseDataURL(raw)
	if err != nil {
		return nil, err
	}
	payload := strings.TrimRight(strings.TrimSpace(parsed.Payload), "=")
	if payload == "" {
		return nil, media.ErrInvalidDataURL
	}
	if int64(base64.RawStdEncoding.DecodedLen(len(payload))) > h.maxUploadBytes {
		return nil, errImageTooLarge
	}
	return base64.RawStdEncoding.DecodeString(payload)
}

// readPhoto returns the uploaded photo bytes or nil when no photo was sent.
func (h *Handler) readPhoto(c *gin.Context) ([]byte, error) {
	header, err := c.FormFile(PhotoField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if header.Size > h.maxUploadBytes {
		return nil, errImageTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only multipart file

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, errImageTooLarge
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// auditFields describes a request without storing its content.
func auditFields(in service.MealInput) map[string]interface{} {
	return map[string]interface{}{
		"presence":          analysis.PresenceFor(strings.TrimSpace(in.Text) != "", len(in.Image) > 0).String(),
		"family_members":    in.Family.Members(),
		"consumption_units": in.Family.ConsumptionUnits(),
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, analysis.ErrInput), errors.Is(err, media.ErrUnsupportedImage):
		return "input"
	case errors.Is(err, analysis.ErrService):
		return "service"
	case errors.Is(err, analysis.ErrParse):
		return "parse"
	case errors.Is(err, analysis.ErrTransport):
		return "transport"
	default:
		return "internal"
	}
}

func loggingService(c *gin.Context) service.LoggingService {
	value, exists := c.Get("logging_service")
	if !exists {
		return nil
	}
	ls, _ := value.(service.LoggingService)
	return ls
}
