package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"stayhub/internal/models"
)

var validate = validator.New()

// decodeBody strictly decodes a JSON request body into a typed
// request struct: unknown fields are rejected, then struct tags are
// validated. Returns false after writing the error response.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, "Invalid request")
			return false
		}
		var fieldErrs []FieldError
		for _, fe := range err.(validator.ValidationErrors) {
			fieldErrs = append(fieldErrs, FieldError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
		writeFieldErrors(w, fieldErrs)
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	default:
		return "is invalid"
	}
}

// parsePage reads page/limit query parameters, clamping them to the
// allowed bounds.
func parsePage(r *http.Request) models.Page {
	page := models.Page{Page: 1, Limit: models.DefaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			page.Page = n
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			page.Limit = n
		}
	}
	if page.Limit > models.MaxPageSize {
		page.Limit = models.MaxPageSize
	}
	return page
}

// parseDate parses a stay date in the wire format.
func parseDate(raw string) (time.Time, error) {
	return time.Parse(models.DateLayout, raw)
}

// pathID extracts a positive integer path variable.
func pathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
