package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	GatewayErrorSignatureInvalid    = "GATEWAY_SIGNATURE_INVALID"
	GatewayErrorNoHandlerRegistered = "GATEWAY_NO_HANDLER_REGISTERED"
	GatewayErrorExecutionFailed     = "GATEWAY_EXECUTION_FAILED"
	GatewayErrorEnvelopeBuildFailed = "GATEWAY_ENVELOPE_BUILD_FAILED"
	GatewayErrorAsyncTaskFailed     = "GATEWAY_ASYNC_TASK_FAILED"
	GatewayErrorQueueFull           = "GATEWAY_QUEUE_FULL"
	GatewayErrorQueueClosed         = "GATEWAY_QUEUE_CLOSED"
	GatewayErrorRemoteCallFailed    = "GATEWAY_REMOTE_CALL_FAILED"
	GatewayErrorBadInput            = "GATEWAY_BAD_INPUT"
	GatewayErrorConflict            = "GATEWAY_CONFLICT"
	GatewayErrorInternal            = "GATEWAY_INTERNAL"
)

func NewSignatureInvalidError(message string, cause error) *goerrors.Error {
	return newGatewayError(cause, message, goerrors.CategoryAuth, GatewayErrorSignatureInvalid, nil)
}

func NewNoHandlerRegisteredError(key ActionKey) *goerrors.Error {
	return newGatewayError(nil, "no executor registered for action key "+key.String(),
		goerrors.CategoryNotFound, GatewayErrorNoHandlerRegistered, key.Fields())
}

func NewExecutionError(message string, cause error, metadata map[string]any) *goerrors.Error {
	return newGatewayError(cause, message, goerrors.CategoryOperation, GatewayErrorExecutionFailed, metadata)
}

func NewEnvelopeBuildError(message string, cause error) *goerrors.Error {
	return newGatewayError(cause, message, goerrors.CategoryInternal, GatewayErrorEnvelopeBuildFailed, nil)
}

func NewAsyncTaskError(message string, cause error, metadata map[string]any) *goerrors.Error {
	return newGatewayError(cause, message, goerrors.CategoryExternal, GatewayErrorAsyncTaskFailed, metadata)
}

func NewQueueFullError(capacity int) *goerrors.Error {
	return newGatewayError(nil, "async task queue is full", goerrors.CategoryRateLimit,
		GatewayErrorQueueFull, map[string]any{"capacity": capacity})
}

func NewQueueClosedError() *goerrors.Error {
	return newGatewayError(nil, "async task queue is closed", goerrors.CategoryConflict, GatewayErrorQueueClosed, nil)
}

func NewRemoteCallError(message string, cause error, metadata map[string]any) *goerrors.Error {
	return newGatewayError(cause, message, goerrors.CategoryExternal, GatewayErrorRemoteCallFailed, metadata)
}

func NewBadInputError(message string, metadata map[string]any) *goerrors.Error {
	return newGatewayError(nil, message, goerrors.CategoryBadInput, GatewayErrorBadInput, metadata)
}

func WrapBadInputError(cause error, message string, metadata map[string]any) *goerrors.Error {
	return newGatewayError(cause, message, goerrors.CategoryBadInput, GatewayErrorBadInput, metadata)
}

func NewConflictError(message string, metadata map[string]any) *goerrors.Error {
	return newGatewayError(nil, message, goerrors.CategoryConflict, GatewayErrorConflict, metadata)
}

func NewInternalError(message string, cause error) *goerrors.Error {
	return newGatewayError(cause, message, goerrors.CategoryInternal, GatewayErrorInternal, nil)
}

// newGatewayError wraps cause when present. goerrors.Wrap keeps the category of
// an already rich cause, so category and codes are reset explicitly.
func newGatewayError(
	cause error,
	message string,
	category goerrors.Category,
	textCode string,
	metadata map[string]any,
) *goerrors.Error {
	var err *goerrors.Error
	if cause != nil {
		err = goerrors.Wrap(cause, category, message)
		err.Category = category
		err.Source = cause
	} else {
		err = goerrors.New(message, category)
	}
	err.Code = gatewayHTTPStatus(category)
	err.TextCode = textCode
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}

func IsSignatureInvalid(err error) bool {
	return HasTextCode(err, GatewayErrorSignatureInvalid)
}

func IsNoHandlerRegistered(err error) bool {
	return HasTextCode(err, GatewayErrorNoHandlerRegistered)
}

func IsExecutionError(err error) bool {
	return HasTextCode(err, GatewayErrorExecutionFailed)
}

func IsEnvelopeBuildFailed(err error) bool {
	return HasTextCode(err, GatewayErrorEnvelopeBuildFailed)
}

func IsAsyncTaskFailed(err error) bool {
	return HasTextCode(err, GatewayErrorAsyncTaskFailed)
}

func IsQueueFull(err error) bool {
	return HasTextCode(err, GatewayErrorQueueFull)
}

func IsQueueClosed(err error) bool {
	return HasTextCode(err, GatewayErrorQueueClosed)
}

func IsRemoteCallFailed(err error) bool {
	return HasTextCode(err, GatewayErrorRemoteCallFailed)
}

// HasTextCode reports whether the outermost rich error carries textCode.
func HasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCode
}

// MapError converts any error into the gateway error envelope, filling the
// status and text code when the source did not carry them.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureGatewayErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "signature"):
		return ensureGatewayErrorEnvelope(goerrors.New(err.Error(), goerrors.CategoryAuth).
			WithTextCode(GatewayErrorSignatureInvalid))
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "malformed"):
		return ensureGatewayErrorEnvelope(goerrors.New(err.Error(), goerrors.CategoryBadInput).
			WithTextCode(GatewayErrorBadInput))
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureGatewayErrorEnvelope(mapped)
}

func ensureGatewayErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = gatewayHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultGatewayTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultGatewayTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return GatewayErrorBadInput
	case goerrors.CategoryNotFound:
		return GatewayErrorNoHandlerRegistered
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return GatewayErrorSignatureInvalid
	case goerrors.CategoryConflict:
		return GatewayErrorConflict
	case goerrors.CategoryRateLimit:
		return GatewayErrorQueueFull
	case goerrors.CategoryOperation:
		return GatewayErrorExecutionFailed
	case goerrors.CategoryExternal:
		return GatewayErrorRemoteCallFailed
	default:
		return GatewayErrorInternal
	}
}

func gatewayHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
