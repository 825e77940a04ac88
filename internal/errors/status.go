// Package errors maps engine failures onto transport responses and keeps
// handler panics from taking the server down.
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/copyleftdev/noviz/internal/optimization"
)

// ErrNotFound reports an unknown run or step.
var ErrNotFound = stderrors.New("not found")

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeServerError    = -32000
	CodeNotFound       = -32004
	CodeNumericDomain  = -32022
)

// HTTPStatus returns the response status for err.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	switch optimization.KindOf(err) {
	case optimization.KindConfiguration:
		return http.StatusBadRequest
	case optimization.KindNumericDomain:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RPCCode returns the JSON-RPC error code for err.
func RPCCode(err error) int {
	switch HTTPStatus(err) {
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusBadRequest:
		return CodeInvalidParams
	case http.StatusUnprocessableEntity:
		return CodeNumericDomain
	default:
		return CodeServerError
	}
}

// PublicMessage returns the text safe to send to clients. Internal failures
// are reduced to the status text.
func PublicMessage(err error) string {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
