// Package i18n translates user-facing API messages. The message tables cover
// English, Portuguese, Dutch and Hindi.
package i18n

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is used when no supported language is requested.
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator looks up messages by key and locale.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the built-in message tables.
func NewTranslator() *Translator {
	return &Translator{messages: getDefaultMessages()}
}

// GetTranslator returns the shared translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Supports reports whether locale has a message table.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// Translate returns the message for key in locale, falling back to the
// default locale and finally to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// GetLocale picks the response locale from the Accept-Language header.
func GetLocale(c *gin.Context) string {
	return NegotiateLocale(c.GetHeader(AcceptLanguageHeader))
}

// NegotiateLocale returns the supported language with the highest quality
// in an Accept-Language value such as "fr-FR,fr;q=0.9,hi;q=0.8". Region
// subtags are ignored and ties keep header order.
func NegotiateLocale(header string) string {
	type candidate struct {
		lang string
		q    float64
	}

	translator := GetTranslator()
	var candidates []candidate
	for _, part := range strings.Split(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		lang, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(tag)), "-")
		if !translator.Supports(lang) {
			continue
		}
		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			q = parsed
		}
		if q > 0 {
			candidates = append(candidates, candidate{lang: lang, q: q})
		}
	}

	if len(candidates) == 0 {
		return DefaultLocale
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].q > candidates[j].q })
	return candidates[0].lang
}

// SupportedLocales returns the locales with a message table.
func SupportedLocales() []string {
	return []string{"en", "pt", "nl", "hi"}
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			"error.invalid_request":         "Invalid request",
			"error.invalid_request_body":    "Invalid request body",
			"error.internal_error":          "An unexpected error occurred",
			"error.not_found":               "Not found",
			"error.rate_limit_exceeded":     "Too many requests, please try again later",
			"error.timeout":                 "The request timed out",
			"error.payload_too_large":       "The upload is too large",
			"error.validation.family":       "family: counts must be zero or positive integers",
			"error.missing_input":           "Please provide an image or a text description.",
			"error.invalid_image":           "The image could not be read. Use a JPEG, PNG, GIF or WebP photo.",
			"error.analysis_no_response":    "No response from AI",
			"error.analysis_parse":          "The analysis could not be read. Please try again.",
			"error.analysis_unavailable":    "The analysis service is unavailable. Please try again later.",

			"success.meal_analyzed": "Meal analysis completed",
		},
		"pt": {
			"error.invalid_request":         "Requisição inválida",
			"error.invalid_request_body":    "Corpo da requisição inválido",
			"error.internal_error":          "Ocorreu um erro inesperado",
			"error.not_found":               "Não encontrado",
			"error.rate_limit_exceeded":     "Muitas requisições, tente novamente mais tarde",
			"error.timeout":                 "A requisição expirou",
			"error.payload_too_large":       "O envio é grande demais",
			"error.validation.family":       "family: as quantidades devem ser inteiros não negativos",
			"error.missing_input":           "Envie uma imagem ou uma descrição em texto.",
			"error.invalid_image":           "Não foi possível ler a imagem. Use uma foto JPEG, PNG, GIF ou WebP.",
			"error.analysis_no_response":    "Sem resposta da IA",
			"error.analysis_parse":          "Não foi possível ler a análise. Tente novamente.",
			"error.analysis_unavailable":    "O serviço de análise está indisponível. Tente novamente mais tarde.",

			"success.meal_analyzed": "Análise da refeição concluída",
		},
		"nl": {
			"error.invalid_request":         "Ongeldig verzoek",
			"error.invalid_request_body":    "Ongeldige aanvraag body",
			"error.internal_error":          "Er is een onverwachte fout opgetreden",
			"error.not_found":               "Niet gevonden",
			"error.rate_limit_exceeded":     "Te veel verzoeken, probeer het later opnieuw",
			"error.timeout":                 "Het verzoek is verlopen",
			"error.payload_too_large":       "De upload is te groot",
			"error.validation.family":       "family: aantallen moeten nul of positief zijn",
			"error.missing_input":           "Geef een afbeelding of een tekstbeschrijving op.",
			"error.invalid_image":           "De afbeelding kon niet worden gelezen. Gebruik een JPEG-, PNG-, GIF- of WebP-foto.",
			"error.analysis_no_response":    "Geen antwoord van de AI",
			"error.analysis_parse":          "De analyse kon niet worden gelezen. Probeer het opnieuw.",
			"error.analysis_unavailable":    "De analysedienst is niet beschikbaar. Probeer het later opnieuw.",

			"success.meal_analyzed": "Maaltijdanalyse voltooid",
		},
		"hi": {
			"error.invalid_request":         "अमान्य अनुरोध",
			"error.invalid_request_body":    "अनुरोध का मुख्य भाग अमान्य है",
			"error.internal_error":          "एक अनपेक्षित त्रुटि हुई",
			"error.not_found":               "नहीं मिला",
			"error.rate_limit_exceeded":     "बहुत अधिक अनुरोध, कृपया बाद में पुनः प्रयास करें",
			"error.timeout":                 "अनुरोध का समय समाप्त हो गया",
			"error.payload_too_large":       "अपलोड बहुत बड़ा है",
			"error.validation.family":       "family: संख्या शून्य या धनात्मक पूर्णांक होनी चाहिए",
			"error.missing_input":           "कृपया एक चित्र या भोजन का विवरण दें।",
			"error.invalid_image":           "चित्र पढ़ा नहीं जा सका। JPEG, PNG, GIF या WebP फ़ोटो का उपयोग करें।",
			"error.analysis_no_response":    "AI से कोई उत्तर नहीं मिला",
			"error.analysis_parse":          "विश्लेषण पढ़ा नहीं जा सका। कृपया पुनः प्रयास करें।",
			"error.analysis_unavailable":    "विश्लेषण सेवा उपलब्ध नहीं है। कृपया बाद में पुनः प्रयास करें।",

			"success.meal_analyzed": "भोजन विश्लेषण पूरा हुआ",
		},
	}
}
