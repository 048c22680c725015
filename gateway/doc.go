// Package gateway wires the callback pipeline: verify the signature, resolve
// the action key, run the executor and wrap its body in the response
// envelope.
//
// Any failure before the envelope stage yields an empty body, which is still
// enveloped and returned. Only an envelope build failure surfaces as an error.
package gateway
