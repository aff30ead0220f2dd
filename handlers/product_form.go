package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/winteradda/storefront/models"
)

// productFormMemory is how much of a multipart body is kept in memory;
// larger parts spill to temporary files.
const productFormMemory = 32 << 20

// productBody is the JSON shape of a product request. Price and the flags
// stay raw so a bad value is reported per field instead of failing the body.
type productBody struct {
	Name        *string          `json:"name"`
	Price       json.RawMessage  `json:"price"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Image       *string          `json:"image"`
	Images      models.ListField `json:"images"`
	Colors      models.ListField `json:"colors"`
	Sizes       models.ListField `json:"sizes"`
	InStock     json.RawMessage  `json:"inStock"`
	IsFeatured  json.RawMessage  `json:"isFeatured"`
}

// decodeProductRequest reads a product create/update request. Multipart
// bodies may carry image files under "images" (several) or "image" (one);
// any other content type is decoded as JSON.
func decodeProductRequest(r *http.Request) (*models.ProductInput, []*multipart.FileHeader, error) {
	if isMultipart(r.Header.Get("Content-Type")) {
		if err := r.ParseMultipartForm(productFormMemory); err != nil {
			return nil, nil, fmt.Errorf("failed to parse multipart form")
		}
		input, files := decodeProductForm(r.MultipartForm)
		return input, files, nil
	}

	var body productBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, nil, fmt.Errorf("invalid request body")
	}
	return body.input(), nil, nil
}

func decodeProductForm(form *multipart.Form) (*models.ProductInput, []*multipart.FileHeader) {
	input := &models.ProductInput{
		Name:        formString(form, "name"),
		Description: formString(form, "description"),
		Category:    formString(form, "category"),
		Image:       formString(form, "image"),
		Images:      formList(form, "images"),
		Colors:      formList(form, "colors"),
		Sizes:       formList(form, "sizes"),
		InStock:     formFlag(form, "inStock"),
		IsFeatured:  formFlag(form, "isFeatured"),
	}

	if raw := formString(form, "price"); raw != nil {
		price, err := parsePrice(*raw)
		if err != nil {
			input.Invalid = append(input.Invalid, models.FieldError{Field: "price", Reason: err.Error()})
		} else {
			input.Price = &price
		}
	}

	var files []*multipart.FileHeader
	files = append(files, form.File["images"]...)
	files = append(files, form.File["image"]...)
	return input, files
}

func formString(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// formList maps repeated keys to a structured list and a single value to
// the raw delimited text, resolved later.
func formList(form *multipart.Form, key string) models.ListField {
	values := form.Value[key]
	switch len(values) {
	case 0:
		return models.ListField{}
	case 1:
		return models.DelimitedList(values[0])
	default:
		return models.StructuredList(values)
	}
}

func formFlag(form *multipart.Form, key string) *bool {
	raw := formString(form, key)
	if raw == nil {
		return nil
	}
	v := models.ParseFlag(*raw)
	return &v
}

func (b *productBody) input() *models.ProductInput {
	input := &models.ProductInput{
		Name:        b.Name,
		Description: b.Description,
		Category:    b.Category,
		Image:       b.Image,
		Images:      b.Images,
		Colors:      b.Colors,
		Sizes:       b.Sizes,
		InStock:     jsonFlag(b.InStock),
		IsFeatured:  jsonFlag(b.IsFeatured),
	}

	if isJSONValue(b.Price) {
		price, err := jsonPrice(b.Price)
		if err != nil {
			input.Invalid = append(input.Invalid, models.FieldError{Field: "price", Reason: err.Error()})
		} else {
			input.Price = &price
		}
	}

	return input
}

func isJSONValue(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// jsonPrice accepts a JSON number or a numeric string.
func jsonPrice(raw json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	return parsePrice(s)
}

func parsePrice(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("must be a number")
	}
	return n, nil
}

// jsonFlag accepts a JSON boolean, or any other scalar read with models.ParseFlag.
func jsonFlag(raw json.RawMessage) *bool {
	if !isJSONValue(raw) {
		return nil
	}

	var v bool
	if err := json.Unmarshal(raw, &v); err == nil {
		return &v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v = models.ParseFlag(s)
		return &v
	}
	v = models.ParseFlag(string(raw))
	return &v
}

func isMultipart(contentType string) bool {
	return strings.HasPrefix(contentType, "multipart/form-data")
}
