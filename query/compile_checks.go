package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-lifegateway/core"
)

var (
	_ gocmd.Querier[HandleCallbackMessage, string]           = (*HandleCallbackQuery)(nil)
	_ gocmd.Querier[ResolveActionKeyMessage, core.ActionKey] = (*ResolveActionKeyQuery)(nil)
)
