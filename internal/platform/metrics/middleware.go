// Copyright (c) 2026 Push-It. All rights reserved.

package metrics

import (
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// Instrument records status code and latency for every request passing through.
//
// It sits near the top of the middleware chain so that rejections from
// downstream middleware (rate limiting, authentication) are counted too.
func Instrument(recorder Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(wrappedWriter, request)

			recorder.RecordHTTPRequest(wrappedWriter.status, time.Since(startTime))
		})
	}
}
