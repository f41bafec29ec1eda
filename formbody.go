// Package formbody exposes the client builder and form constructor.
package formbody

import (
	"github.com/adamwoolhether/formbody/client"
	"github.com/adamwoolhether/formbody/form"
)

// NewClient instantiates a new *Client with the provided options.
// If not specified, the default http.Client and http.Transport are used.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}

// NewForm instantiates an empty multipart/form-data aggregate with the
// provided options. Without WithBoundary, a random boundary is generated.
func NewForm(opts ...form.Option) (*form.Data, error) {
	return form.New(opts...)
}
