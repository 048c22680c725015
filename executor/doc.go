// Package executor holds the action executors bound to callback routes and the
// message builders they share.
package executor
