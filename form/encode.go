package form

import "bytes"

// Encode renders the aggregate to its multipart/form-data wire form:
//
//	--<boundary>\r\n
//	<Header-Name>: <Header-Value>\r\n
//	...
//	\r\n
//	<raw part bytes>\r\n
//	--<boundary>--\r\n
//
// Encode is pure and deterministic: calling it twice without an intervening
// Append yields byte-identical output. Part bytes are written verbatim; the
// boundary token is not escaped if it appears inside a part's data, so a
// colliding payload corrupts later decoding. Callers who control the
// payload must pick a non-colliding boundary; generated boundaries make a
// collision vanishingly unlikely.
func (d *Data) Encode() []byte {
	var buf bytes.Buffer

	for _, p := range d.parts {
		buf.WriteString("--")
		buf.WriteString(d.boundary)
		buf.WriteString("\r\n")

		for _, h := range p.Headers {
			buf.WriteString(h.Name)
			buf.WriteString(": ")
			buf.WriteString(h.Value)
			buf.WriteString("\r\n")
		}

		buf.WriteString("\r\n")
		buf.Write(p.Data)
		buf.WriteString("\r\n")
	}

	buf.WriteString("--")
	buf.WriteString(d.boundary)
	buf.WriteString("--\r\n")

	return buf.Bytes()
}
