// Package throttle rate-limits outbound HTTP requests with a
// token-bucket limiter from [golang.org/x/time/rate], exposed as a
// composable [http.RoundTripper].
//
// # Usage
//
// Wrap an existing transport with [NewRoundTripper]:
//
//	rt, err := throttle.NewRoundTripper(
//		10,  // requests per second
//		5,   // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// Once the bucket is empty, outbound requests block until a token
// becomes available or the request context ends.
package throttle
