package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplate/internal/analysis"
	"github.com/guttosm/nutriplate/internal/domain/dto"
	"github.com/guttosm/nutriplate/internal/domain/model"
	"github.com/guttosm/nutriplate/internal/i18n"
	"github.com/guttosm/nutriplate/internal/media"
	"github.com/guttosm/nutriplate/internal/middleware"
	"github.com/guttosm/nutriplate/internal/mocks"
	"github.com/guttosm/nutriplate/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		FoodItems: []model.NutritionItem{
			{Name: "Rice", QuantityEstimate: "250g", Calories: 325, Protein: 6},
		},
		TotalCalories:    325,
		TotalProtein:     6,
		ConsumptionUnits: 2.4,
		IntakePerCU:      model.Nutrients{Calories: 135.4, Protein: 2.5},
		StandardPerCU:    model.Standard{Calories: 2730, Protein: 54, Source: "ICMR"},
		Gap:              model.Gap{CaloriesPercent: -95, ProteinPercent: -95, Status: model.GapDeficit},
		Summary:          "Small share of daily needs.",
	}
}

func setupHandlerRouter(meals service.MealService, opts ...HandlerOption) *gin.Engine {
	handler := NewHandler(meals, opts...)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorHandler())
	NewMealRoutes(handler).RegisterPublicRoutes(router.Group("/api"))
	return router
}

func postJSON(router *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAnalyze_Success(t *testing.T) {
	meals := &mocks.MockMealService{}
	meals.On("Analyze", mock.Anything, service.MealInput{
		Family: model.FamilyComposition{AdultMales: 1, AdultFemales: 1, Children: 1},
		Text:   "250g rice, 100g moong dal",
	}).Return(sampleResult(), nil).Once()

	router := setupHandlerRouter(meals)
	w := postJSON(router, `{"family":{"adultMales":1,"adultFemales":1,"children":1},"text":"250g rice, 100g moong dal"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.NotZero(t, resp.Timestamp)
	assert.Len(t, resp.Data.FoodItems, 1)
	assert.Equal(t, "Rice", resp.Data.FoodItems[0].Name)
	assert.Equal(t, model.GapDeficit, resp.Data.Gap.Status)
	assert.InDelta(t, 2.4, resp.Data.ConsumptionUnits, 1e-9)
	meals.AssertExpectations(t)
}

func TestAnalyze_DefaultFamily(t *testing.T) {
	meals := &mocks.MockMealService{}
	meals.On("Analyze", mock.Anything, mock.MatchedBy(func(in service.MealInput) bool {
		return in.Family == model.DefaultFamily() && in.Text == "dal"
	})).Return(sampleResult(), nil).Once()

	w := postJSON(setupHandlerRouter(meals), `{"text":"dal"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	meals.AssertExpectations(t)
}

func TestAnalyze_ImageDecoding(t *testing.T) {
	raw := []byte("not really a jpeg but bytes")
	padded := base64.StdEncoding.EncodeToString(raw)
	unpadded := base64.RawStdEncoding.EncodeToString(raw)

	tests := []struct {
		name  string
		image string
	}{
		{name: "data URL", image: "data:image/png;base64," + padded},
		{name: "bare padded base64", image: padded},
		{name: "bare unpadded base64", image: unpadded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meals := &mocks.MockMealService{}
			meals.On("Analyze", mock.Anything, mock.MatchedBy(func(in service.MealInput) bool {
				return bytes.Equal(in.Image, raw) && in.Text == ""
			})).Return(sampleResult(), nil).Once()

			body, err := json.Marshal(map[string]string{"image": tt.image})
			require.NoError(t, err)
			w := postJSON(setupHandlerRouter(meals), string(body), nil)

			assert.Equal(t, http.StatusOK, w.Code)
			meals.AssertExpectations(t)
		})
	}
}

func TestAnalyze_RequestErrors(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		opts         []HandlerOption
		expectedCode int
		expectedErr  string
		expectedMsg  string
	}{
		{
			name:         "malformed json",
			body:         `{"text":`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeInvalidRequest,
			expectedMsg:  "Invalid request body",
		},
		{
			name:         "negative family count",
			body:         `{"family":{"adultMales":-1,"adultFemales":1,"children":1},"text":"rice"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeInvalidRequest,
			expectedMsg:  "family: counts must be zero or positive integers",
		},
		{
			name:         "invalid base64 image",
			body:         `{"image":"@@@not-base64@@@"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeInvalidImage,
		},
		{
			name:         "data URL without base64 marker",
			body:         `{"image":"data:image/png,abc"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeInvalidImage,
		},
		{
			name:         "image above the upload limit",
			body:         `{"image":"` + base64.StdEncoding.EncodeToString(make([]byte, 64)) + `"}`,
			opts:         []HandlerOption{WithMaxUploadBytes(16)},
			expectedCode: http.StatusRequestEntityTooLarge,
			expectedErr:  dto.ErrCodePayloadTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meals := &mocks.MockMealService{}
			w := postJSON(setupHandlerRouter(meals, tt.opts...), tt.body, nil)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.expectedErr, resp.Error)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, resp.Message)
			}
			assert.NotEmpty(t, resp.RequestID)
			meals.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
		})
	}
}

func TestAnalyze_ErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
		expectedMsg  string
	}{
		{
			name:         "missing input",
			err:          &analysis.InputError{Message: analysis.MissingInputMessage},
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeMissingInput,
			expectedMsg:  "Please provide an image or a text description.",
		},
		{
			name:         "invalid image part",
			err:          &analysis.InputError{Message: "image payload is not valid base64"},
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeInvalidImage,
		},
		{
			name:         "undecodable image",
			err:          fmt.Errorf("normalize: %w", media.ErrUnsupportedImage),
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeInvalidImage,
		},
		{
			name:         "empty model reply",
			err:          &analysis.ServiceError{Message: analysis.NoResponseMessage},
			expectedCode: http.StatusBadGateway,
			expectedErr:  dto.ErrCodeAnalysisFailed,
			expectedMsg:  "No response from AI",
		},
		{
			name:         "malformed model reply",
			err:          &analysis.ParseError{Err: errors.New("missing summary")},
			expectedCode: http.StatusBadGateway,
			expectedErr:  dto.ErrCodeAnalysisFailed,
		},
		{
			name:         "transport failure",
			err:          &analysis.TransportError{Err: errors.New("connection refused")},
			expectedCode: http.StatusBadGateway,
			expectedErr:  dto.ErrCodeUpstream,
		},
		{
			name:         "unexpected error",
			err:          errors.New("boom"),
			expectedCode: http.StatusInternalServerError,
			expectedErr:  dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meals := &mocks.MockMealService{}
			meals.On("Analyze", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			w := postJSON(setupHandlerRouter(meals), `{"text":"rice"}`, nil)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.expectedErr, resp.Error)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, resp.Message)
			}
			meals.AssertExpectations(t)
		})
	}
}

func TestAnalyze_TranslatedErrors(t *testing.T) {
	meals := &mocks.MockMealService{}
	meals.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, &analysis.InputError{Message: analysis.MissingInputMessage})

	router := setupHandlerRouter(meals)

	for _, locale := range i18n.SupportedLocales() {
		t.Run(locale, func(t *testing.T) {
			w := postJSON(router, `{}`, map[string]string{i18n.AcceptLanguageHeader: locale})

			assert.Equal(t, http.StatusBadRequest, w.Code)
			want := i18n.GetTranslator().Translate(i18n.ErrKeyMissingInput, locale)
			assert.Equal(t, want, decodeError(t, w).Message)
		})
	}
}

type uploadField struct {
	name, value string
}

func postUpload(t *testing.T, router *gin.Engine, fields []uploadField, photo []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, writer.WriteField(f.name, f.value))
	}
	if photo != nil {
		part, err := writer.CreateFormFile(PhotoField, "plate.jpg")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeUpload(t *testing.T) {
	photo := []byte("photo-bytes")

	tests := []struct {
		name           string
		fields         []uploadField
		photo          []byte
		expectedFamily model.FamilyComposition
		expectedText   string
		expectedImage  []byte
	}{
		{
			name: "counts are coerced like the form",
			fields: []uploadField{
				{"adultMales", "2"},
				{"adultFemales", "abc"},
				{"children", "-4"},
				{"text", "250g rice"},
			},
			expectedFamily: model.FamilyComposition{AdultMales: 2},
			expectedText:   "250g rice",
		},
		{
			name:           "omitted counts keep the seed",
			fields:         []uploadField{{"text", "dal"}},
			expectedFamily: model.DefaultFamily(),
			expectedText:   "dal",
		},
		{
			name:           "photo only",
			fields:         []uploadField{{"adultMales", "1"}, {"adultFemales", "0"}, {"children", "3"}},
			photo:          photo,
			expectedFamily: model.FamilyComposition{AdultMales: 1, Children: 3},
			expectedImage:  photo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meals := &mocks.MockMealService{}
			meals.On("Analyze", mock.Anything, mock.MatchedBy(func(in service.MealInput) bool {
				return in.Family == tt.expectedFamily &&
					in.Text == tt.expectedText &&
					bytes.Equal(in.Image, tt.expectedImage)
			})).Return(sampleResult(), nil).Once()

			w := postUpload(t, setupHandlerRouter(meals), tt.fields, tt.photo)

			assert.Equal(t, http.StatusOK, w.Code)
			meals.AssertExpectations(t)
		})
	}
}

func TestAnalyzeUpload_NotMultipart(t *testing.T) {
	meals := &mocks.MockMealService{}

	req := httptest.NewRequest(http.MethodPost, "/api/analyze/upload", bytes.NewBufferString(`{"text":"rice"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setupHandlerRouter(meals).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidRequest, decodeError(t, w).Error)
	meals.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestAnalyzeUpload_MissingInput(t *testing.T) {
	meals := &mocks.MockMealService{}
	meals.On("Analyze", mock.Anything, mock.MatchedBy(func(in service.MealInput) bool {
		return in.Text == "" && in.Image == nil
	})).Return(nil, &analysis.InputError{Message: analysis.MissingInputMessage}).Once()

	w := postUpload(t, setupHandlerRouter(meals), []uploadField{{"adultMales", "1"}}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeMissingInput, decodeError(t, w).Error)
	meals.AssertExpectations(t)
}

func TestAnalyzeUpload_PhotoTooLarge(t *testing.T) {
	meals := &mocks.MockMealService{}

	w := postUpload(t, setupHandlerRouter(meals, WithMaxUploadBytes(8)), []uploadField{{"text", "rice"}}, make([]byte, 64))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodePayloadTooLarge, decodeError(t, w).Error)
	meals.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestAnalyze_AuditLog(t *testing.T) {
	tests := []struct {
		name        string
		result      *model.AnalysisResult
		err         error
		expectLevel string
		check       func(*testing.T, *model.LogEntry)
	}{
		{
			name:        "success records metadata only",
			result:      sampleResult(),
			expectLevel: "info",
			check: func(t *testing.T, entry *model.LogEntry) {
				assert.Equal(t, "text_only", entry.Fields["presence"])
				assert.Equal(t, 1, entry.Fields["food_items"])
				assert.Equal(t, "Deficit", entry.Fields["gap_status"])
				assert.Equal(t, 3, entry.Fields["family_members"])
				for _, v := range entry.Fields {
					assert.NotEqual(t, "secret family recipe", v)
				}
			},
		},
		{
			name:        "failure records the error kind",
			err:         &analysis.TransportError{Err: errors.New("timeout")},
			expectLevel: "error",
			check: func(t *testing.T, entry *model.LogEntry) {
				assert.Equal(t, "transport", entry.Fields["error_kind"])
				assert.NotEmpty(t, entry.Error)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			written := make(chan *model.LogEntry, 1)
			logging := &mocks.MockLoggingService{}
			logging.On("CreateLog", mock.Anything, mock.AnythingOfType("*model.LogEntry")).
				Run(func(args mock.Arguments) { written <- args.Get(1).(*model.LogEntry) }).
				Return(nil)

			meals := &mocks.MockMealService{}
			if tt.err != nil {
				meals.On("Analyze", mock.Anything, mock.Anything).Return(nil, tt.err)
			} else {
				meals.On("Analyze", mock.Anything, mock.Anything).Return(tt.result, nil)
			}

			router := gin.New()
			router.Use(middleware.RequestID(), func(c *gin.Context) {
				c.Set("logging_service", service.LoggingService(logging))
				c.Next()
			})
			NewMealRoutes(NewHandler(meals)).RegisterPublicRoutes(router.Group("/api"))

			postJSON(router, `{"text":"secret family recipe"}`, nil)

			select {
			case entry := <-written:
				assert.Equal(t, model.ActionAnalyze, entry.ActionType)
				assert.Equal(t, tt.expectLevel, entry.Level)
				assert.NotEmpty(t, entry.RequestID)
				tt.check(t, entry)
			case <-time.After(time.Second):
				t.Fatal("audit entry was not written")
			}
		})
	}
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "input", errorKind(&analysis.InputError{Message: "x"}))
	assert.Equal(t, "input", errorKind(media.ErrUnsupportedImage))
	assert.Equal(t, "service", errorKind(&analysis.ServiceError{Message: "x"}))
	assert.Equal(t, "parse", errorKind(&analysis.ParseError{Err: errors.New("x")}))
	assert.Equal(t, "transport", errorKind(&analysis.TransportError{Err: errors.New("x")}))
	assert.Equal(t, "internal", errorKind(errors.New("x")))
}
