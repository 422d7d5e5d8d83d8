package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingRequest struct {
	Title     string   `json:"title" validate:"required"`
	Condition string   `json:"condition" validate:"required,oneof=new used refurbished"`
	Thumbnail string   `json:"thumbnail" validate:"required,url"`
	Images    []string `json:"images" validate:"dive,url"`
	Rating    int      `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

type saleRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func decodeListing(body map[string]interface{}) (listingRequest, error) {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/test", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	var out listingRequest
	err := DecodeAndValidate(req, &out)
	return out, err
}

func validListing() map[string]interface{} {
	return map[string]interface{}{
		"title":     "iPhone 13",
		"condition": "new",
		"thumbnail": "https://http2.mlstatic.com/a.webp",
		"images":    []string{"https://http2.mlstatic.com/a.webp"},
	}
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeTitle bool, includeCondition bool, includeThumbnail bool) bool {
			body := validListing()
			if !includeTitle {
				delete(body, "title")
			}
			if !includeCondition {
				delete(body, "condition")
			}
			if !includeThumbnail {
				delete(body, "thumbnail")
			}

			_, err := decodeListing(body)
			if includeTitle && includeCondition && includeThumbnail {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_RatingRangeValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("ratings outside 1..5 are rejected", prop.ForAll(
		func(rating int) bool {
			body := validListing()
			body["rating"] = rating

			_, err := decodeListing(body)
			if rating == 0 || (rating >= 1 && rating <= 5) {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-10, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	body := validListing()
	body["condition"] = "broken"
	body["images"] = []string{"https://ok.example/a.png", "not a url"}

	_, err := decodeListing(body)
	require.Error(t, err)

	errs := FormatValidationErrors(err)
	require.Len(t, errs, 2)

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Message
	}
	assert.Equal(t, "Value must be one of: new, used, refurbished", fields["condition"])
	assert.Equal(t, "Invalid URL", fields["images[1]"])
}

func TestDecodeAndValidate_RejectsUnknownFields(t *testing.T) {
	body := validListing()
	body["isAdmin"] = true

	_, err := decodeListing(body)
	require.Error(t, err)
	assert.Empty(t, FormatValidationErrors(err), "unknown fields are a decode error, not a validation error")
	assert.Contains(t, err.Error(), "isAdmin")
}

func TestDecodeAndValidate_EmptyBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", strings.NewReader(""))
	var listing listingRequest
	assert.ErrorIs(t, DecodeAndValidate(req, &listing), ErrEmptyBody)

	req = httptest.NewRequest("PATCH", "/test", strings.NewReader(""))
	var sale saleRequest
	require.NoError(t, DecodeOptionalAndValidate(req, &sale))
	assert.Equal(t, 0, sale.Quantity)

	req = httptest.NewRequest("PATCH", "/test", strings.NewReader(`{"quantity":-1}`))
	assert.Error(t, DecodeOptionalAndValidate(req, &sale))
}
