package inbound

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-lifegateway/core"
)

type errorKind struct {
	category goerrors.Category
	status   int
	textCode string
}

var (
	kindBadInput = errorKind{goerrors.CategoryBadInput, http.StatusBadRequest, core.GatewayErrorBadInput}
	kindConflict = errorKind{goerrors.CategoryConflict, http.StatusConflict, core.GatewayErrorConflict}
	kindInternal = errorKind{goerrors.CategoryInternal, http.StatusInternalServerError, core.GatewayErrorInternal}
)

func (k errorKind) new(message string, metadata map[string]any) error {
	return k.wrap(nil, message, metadata)
}

// wrap keeps source reachable through errors.Is/As while stamping the
// registry's own category and codes over it.
func (k errorKind) wrap(source error, message string, metadata map[string]any) error {
	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, k.category)
	} else {
		err = goerrors.Wrap(source, k.category, message)
		err.Category = k.category
		err.Source = source
	}
	err = err.WithCode(k.status).WithTextCode(k.textCode)
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}
