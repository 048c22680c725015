package gateway

import (
	"net/http"

	"github.com/goliatone/go-lifegateway/core"
	"github.com/goliatone/go-lifegateway/security"
)

const maxCallbackBodyBytes = 1 << 20

// HTTPHandler serves callbacks over GET or POST form parameters.
func (g *Gateway) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxCallbackBodyBytes)
		if err := r.ParseForm(); err != nil {
			g.observer.LogWarn(r.Context(), "callback form could not be parsed", map[string]any{"error": err.Error()})
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		req := core.NewInboundRequestFromValues(r.URL.RawQuery, r.Form)
		opts := g.EnvelopeOptions()
		body, err := g.HandleCallback(r.Context(), req, opts)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		charset := security.NormalizeCharset(opts.Charset)
		encoded, err := security.EncodeString(body, charset)
		if err != nil {
			g.observer.LogError(r.Context(), "callback response could not be encoded", map[string]any{
				"charset": charset,
				"error":   err.Error(),
			})
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/xml;charset="+charset)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(encoded)
	})
}
