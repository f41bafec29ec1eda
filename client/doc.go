// Package client provides the configurable HTTP client built on [net/http]
// that the form codec and streaming body plug into.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// # Making Requests
//
// Construct a [URL] and [Request], then execute with [Client.Do]:
//
//	u := client.URL("https", "api.example.com", "/v1/resource")
//	req, err := client.Request(ctx, u, http.MethodGet)
//	err = c.Do(req, http.StatusOK, client.WithDestination(&result))
//
// # Multipart Form Bodies
//
// Build a [form.Data] aggregate and attach it with [WithForm]; the request
// body and Content-Type boundary come from the aggregate:
//
//	fd, _ := form.New()
//	_ = fd.Append("file", form.File("/tmp/report.pdf"))
//	req, err := client.Request(ctx, u, http.MethodPost, client.WithForm(fd))
//
// Symmetrically, [Client.DoForm] decodes a multipart response body back
// into a *form.Data.
//
// # Streaming Responses
//
// [Client.Stream] returns once headers arrive and feeds the body through a
// [stream.Body], which callers iterate chunk by chunk or collect whole:
//
//	resp, err := c.Stream(req, http.StatusOK)
//	raw := resp.Body.Collect()
//
// # Downloading Files
//
// Stream a response body directly to disk with optional checksum
// verification and progress reporting:
//
//	err = c.Download(req, http.StatusOK, "/tmp/file.bin",
//		client.WithChecksum(sha256.New(), expectedHex),
//		client.WithProgress(),
//	)
package client
