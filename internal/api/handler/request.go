package handler

import (
	"errors"
	"io"
)

const invalidPayloadMessage = "invalid request payload"

// isEmptyBody reports a decode error caused by a missing body. Such
// requests are validated as an empty object.
func isEmptyBody(err error) bool {
	return errors.Is(err, io.EOF)
}
