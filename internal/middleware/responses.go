package middleware

import (
	"encoding/json"
	"net/http"
)

// ErrorEvent is the htmx client event fired when a middleware rejects a request.
const ErrorEvent = "site:error"

type errorEvent struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// writeError rejects a request. htmx callers keep their current DOM and get an
// ErrorEvent trigger instead of a swap; plain requests get text.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if !IsHTMX(r.Context()) {
		http.Error(w, msg, code)
		return
	}
	trigger, _ := json.Marshal(map[string]errorEvent{ErrorEvent: {Status: code, Message: msg}})
	w.Header().Set("HX-Trigger", string(trigger))
	w.Header().Set("HX-Reswap", "none")
	w.WriteHeader(code)
}
