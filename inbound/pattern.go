package inbound

import (
	"fmt"

	"github.com/goliatone/go-lifegateway/core"
)

type matchKind int

const (
	matchAny matchKind = iota
	matchExact
)

// Match constrains one action key component.
type Match struct {
	kind  matchKind
	value core.Component
}

// Exact matches a component present with value.
func Exact(value string) Match {
	return Match{kind: matchExact, value: core.Present(value)}
}

// ExactAbsent matches only an absent component.
func ExactAbsent() Match {
	return Match{kind: matchExact, value: core.Absent()}
}

// Any matches every component, absent included.
func Any() Match {
	return Match{kind: matchAny}
}

func (m Match) IsAny() bool {
	return m.kind == matchAny
}

func (m Match) matches(component core.Component) bool {
	return m.kind == matchAny || m.value == component
}

// overlaps reports whether some component satisfies both matches.
func (m Match) overlaps(other Match) bool {
	if m.kind == matchAny || other.kind == matchAny {
		return true
	}
	return m.value == other.value
}

func (m Match) String() string {
	if m.kind == matchAny {
		return "*"
	}
	return m.value.String()
}

type Pattern struct {
	Service     Match
	MsgType     Match
	EventType   Match
	ActionParam Match
}

// ExactPattern builds a pattern matching key and nothing else.
func ExactPattern(key core.ActionKey) Pattern {
	return Pattern{
		Service:     Match{kind: matchExact, value: key.Service},
		MsgType:     Match{kind: matchExact, value: key.MsgType},
		EventType:   Match{kind: matchExact, value: key.EventType},
		ActionParam: Match{kind: matchExact, value: key.ActionParam},
	}
}

func (p Pattern) matches() [4]Match {
	return [4]Match{p.Service, p.MsgType, p.EventType, p.ActionParam}
}

// IsExact reports whether no component is a wildcard.
func (p Pattern) IsExact() bool {
	return p.Specificity() == 4
}

// Specificity is the number of non-wildcard components.
func (p Pattern) Specificity() int {
	count := 0
	for _, match := range p.matches() {
		if !match.IsAny() {
			count++
		}
	}
	return count
}

func (p Pattern) Matches(key core.ActionKey) bool {
	components := key.Components()
	for index, match := range p.matches() {
		if !match.matches(components[index]) {
			return false
		}
	}
	return true
}

func (p Pattern) Overlaps(other Pattern) bool {
	mine, theirs := p.matches(), other.matches()
	for index := range mine {
		if !mine[index].overlaps(theirs[index]) {
			return false
		}
	}
	return true
}

// Key returns the action key of an exact pattern.
func (p Pattern) Key() (core.ActionKey, bool) {
	if !p.IsExact() {
		return core.ActionKey{}, false
	}
	return core.ActionKey{
		Service:     p.Service.value,
		MsgType:     p.MsgType.value,
		EventType:   p.EventType.value,
		ActionParam: p.ActionParam.value,
	}, true
}

func (p Pattern) String() string {
	return fmt.Sprintf("(%s,%s,%s,%s)", p.Service, p.MsgType, p.EventType, p.ActionParam)
}
