package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every request type. A validator.Validate is safe
// for concurrent use and caches struct metadata between calls.
var validate = validator.New()

// ErrTrailingContent is returned when a request body carries more than
// one JSON document.
var ErrTrailingContent = errors.New("request body must contain a single JSON document")

// DecodeJSON reads the request body into dst. The body must hold exactly
// one JSON document.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return ErrTrailingContent
	}
	return nil
}

// ValidateRequest runs struct-tag validation against req. A request type
// with rules the tags cannot express implements its own Validate, which
// then replaces the tag pass entirely.
func ValidateRequest(req any) error {
	if v, ok := req.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return validate.Struct(req)
}
