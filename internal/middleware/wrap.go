package middleware

import "net/http"

// ResponseRecorder wraps ResponseWriter, captures status and size, and runs
// an optional hook right before the first byte of the response is written.
type ResponseRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wrote       bool
	beforeWrite func(http.ResponseWriter)
}

func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	if rw, ok := w.(*ResponseRecorder); ok {
		return rw
	}
	return &ResponseRecorder{ResponseWriter: w, status: http.StatusOK}
}

// SetBeforeWrite registers f to run once before headers are sent. A hook
// already registered by an outer middleware runs first.
func (rw *ResponseRecorder) SetBeforeWrite(f func(http.ResponseWriter)) {
	prev := rw.beforeWrite
	if prev == nil {
		rw.beforeWrite = f
		return
	}
	rw.beforeWrite = func(w http.ResponseWriter) {
		prev(w)
		f(w)
	}
}

func (rw *ResponseRecorder) flushHeaders() {
	if rw.wrote {
		return
	}
	rw.wrote = true
	if rw.beforeWrite != nil {
		rw.beforeWrite(rw.ResponseWriter)
	}
}

func (rw *ResponseRecorder) WriteHeader(statusCode int) {
	if rw.wrote {
		return
	}
	rw.status = statusCode
	rw.flushHeaders()
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *ResponseRecorder) Write(b []byte) (int, error) {
	if !rw.wrote {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

// Flush forwards to the underlying writer when it supports streaming.
func (rw *ResponseRecorder) Flush() {
	if !rw.wrote {
		rw.WriteHeader(http.StatusOK)
	}
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (rw *ResponseRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

func (rw *ResponseRecorder) Status() int { return rw.status }

// Wrote reports whether headers were sent.
func (rw *ResponseRecorder) Wrote() bool { return rw.wrote }

// BytesWritten is the body size written so far.
func (rw *ResponseRecorder) BytesWritten() int64 { return rw.bytes }
