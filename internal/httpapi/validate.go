package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golist/internal/validate"
)

// decodeRequest decodes a single JSON object from the request body into dst.
// Unknown fields and trailing data are rejected.
func decodeRequest(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request payload: %v", err)
	}
	return ensureSingleJSON(dec)
}

// ensureSingleJSON ensures only a single JSON object is in the request body.
func ensureSingleJSON(dec *json.Decoder) error {
	if t, err := dec.Token(); err != io.EOF || t != nil {
		return errors.New("request body must only contain a single JSON object")
	}
	return nil
}

// validRequest writes a 400 or 422 response and returns false when the body
// cannot be decoded into dst or dst fails validation. prepare, if set, runs
// between decoding and validation.
func validRequest(w http.ResponseWriter, r *http.Request, dst any, prepare func()) bool {
	if err := decodeRequest(r, dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if prepare != nil {
		prepare()
	}
	if err := validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": validate.FormatErrors(err),
		})
		return false
	}
	return true
}
