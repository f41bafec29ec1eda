// Package form implements a multipart/form-data codec: building a payload
// from named parts and, symmetrically, reconstructing parts from raw bytes
// plus a declared boundary.
//
// # Building a Payload
//
// Create a [Data] aggregate, append parts, then encode:
//
//	fd, err := form.New()
//	err = fd.Append("name", form.Text("John Doe"))
//	err = fd.Append("avatar", form.Bytes(img), form.WithFilename("me.jpg"))
//
//	body := fd.Encode()
//	contentType := fd.ContentType() // multipart/form-data; boundary=...
//
// Part payloads come from the closed [Value] set: [Bytes], [Text], [File],
// [SearchParams], [JSON], and [Marshaler]. Conversion to bytes happens at
// append time, so part order is append order.
//
// # Parsing a Payload
//
// [Decode] reverses [Data.Encode] given the response's Content-Type:
//
//	fd, err := form.Decode(body, resp.Header.Get("Content-Type"))
//	for _, p := range fd.Parts() {
//		fmt.Println(p.DispositionName(), len(p.Data))
//	}
//
// Decoding is lenient: a missing boundary parameter is the only hard
// failure, and malformed header lines or parts are dropped rather than
// failing the whole call.
package form
