package httpapi

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tigerwill90/fox"
)

// intParam parses a path parameter as a base-10 int64, wrapped as a
// BadRequest outcome on failure: a missing or non-integer identifier is
// exactly the malformed-input case the adapter must surface as 400.
func intParam(c *fox.Context, name string) (int64, error) {
	raw := c.Param(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: path parameter %q must be an integer, got %q", errBadRequest, name, raw)
	}
	return v, nil
}

// decodeBody reads and JSON-decodes the request body into v. An empty
// or malformed body is a BadRequest outcome.
func decodeBody(c *fox.Context, v interface{}) error {
	if c.Request().Body == nil {
		return fmt.Errorf("%w: missing request body", errBadRequest)
	}
	dec := json.NewDecoder(c.Request().Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
