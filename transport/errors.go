package transport

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-lifegateway/core"
)

// postError builds the rich error for a failed form post. A nil source
// yields a fresh error instead of a wrapped one.
func postError(source error, category goerrors.Category, message string, code int, metadata map[string]any) error {
	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, category)
	} else {
		err = goerrors.Wrap(source, category, message)
	}
	err = err.WithCode(code).WithTextCode(textCodeFor(category))
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}

func textCodeFor(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput:
		return core.GatewayErrorBadInput
	case goerrors.CategoryExternal:
		return core.GatewayErrorRemoteCallFailed
	default:
		return core.GatewayErrorInternal
	}
}
