// Package core contains the gateway domain contracts: inbound requests, action
// keys, executor and remote client capabilities, the error taxonomy and
// configuration. Crypto, routing, queueing and transport live in their own
// packages and depend on core; core must not depend on them.
package core
