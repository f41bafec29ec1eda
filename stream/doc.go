// Package stream provides [Body], an incrementally-filled byte-chunk
// container shared between a single producer (the transport) and one or
// more lazy consumers.
//
// The producer appends chunks and signals completion:
//
//	body := stream.New()
//	go func() {
//		defer body.Finish()
//		_, _ = body.ReadFrom(resp.Body)
//	}()
//
// Consumers either iterate chunks lazily, in a single forward pass:
//
//	for chunk := range body.Chunks() {
//		process(chunk)
//	}
//
// or collect the whole body once, memoized for every later call:
//
//	raw := body.Collect()
//
// A Body never fails on its own: it has no error channel. Transport-level
// failures are surfaced by the collaborator that owns the producer, before
// or instead of producing chunks. There is likewise no timeout or
// cancellation built in; callers needing bounded waits wrap the read in
// their own mechanism.
package stream
