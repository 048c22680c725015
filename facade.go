package lifegateway

import (
	"fmt"

	gwcommand "github.com/goliatone/go-lifegateway/command"
	gwquery "github.com/goliatone/go-lifegateway/query"
)

type Commands struct {
	SendText      *gwcommand.SendTextCommand
	SendImageText *gwcommand.SendImageTextCommand
}

type Queries struct {
	HandleCallback   *gwquery.HandleCallbackQuery
	ResolveActionKey *gwquery.ResolveActionKeyQuery
}

// Facade exposes a gateway as go-command handlers.
type Facade struct {
	gateway  *Gateway
	commands Commands
	queries  Queries
}

func NewFacade(gw *Gateway) (*Facade, error) {
	if gw == nil {
		return nil, fmt.Errorf("lifegateway: gateway is required")
	}
	dispatch := gwcommand.Dispatch{Client: gw.RemoteClient(), Submitter: gw.Submitter()}
	return &Facade{
		gateway: gw,
		commands: Commands{
			SendText:      gwcommand.NewSendTextCommand(dispatch),
			SendImageText: gwcommand.NewSendImageTextCommand(dispatch),
		},
		queries: Queries{
			HandleCallback:   gwquery.NewHandleCallbackQuery(gw),
			ResolveActionKey: gwquery.NewResolveActionKeyQuery(gw.Registry()),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Gateway() *Gateway {
	if f == nil {
		return nil
	}
	return f.gateway
}
