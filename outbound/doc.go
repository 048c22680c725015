// Package outbound runs deferred work off the callback path: a bounded FIFO
// queue drained by a single worker, and the custom-send task that pushes a
// message through the remote API client.
package outbound
