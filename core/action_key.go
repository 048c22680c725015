package core

import "fmt"

const absentMarker = "<absent>"

// Component is one optional part of an ActionKey. The zero value is absent,
// which never equals a present empty string.
type Component struct {
	value   string
	present bool
}

func Present(value string) Component {
	return Component{value: value, present: true}
}

func Absent() Component {
	return Component{}
}

func (c Component) Value() (string, bool) {
	return c.value, c.present
}

func (c Component) IsPresent() bool {
	return c.present
}

func (c Component) String() string {
	if !c.present {
		return absentMarker
	}
	return c.value
}

// ActionKey is the routing discriminant of a callback. It is comparable and
// equality is structural.
type ActionKey struct {
	Service     Component
	MsgType     Component
	EventType   Component
	ActionParam Component
}

func NewActionKey(service, msgType, eventType, actionParam Component) ActionKey {
	return ActionKey{
		Service:     service,
		MsgType:     msgType,
		EventType:   eventType,
		ActionParam: actionParam,
	}
}

func (k ActionKey) Components() [4]Component {
	return [4]Component{k.Service, k.MsgType, k.EventType, k.ActionParam}
}

func (k ActionKey) String() string {
	return fmt.Sprintf("(%s,%s,%s,%s)", k.Service, k.MsgType, k.EventType, k.ActionParam)
}

// Fields renders the key for structured logs.
func (k ActionKey) Fields() map[string]any {
	return map[string]any{
		"service":      k.Service.String(),
		"msg_type":     k.MsgType.String(),
		"event_type":   k.EventType.String(),
		"action_param": k.ActionParam.String(),
	}
}
