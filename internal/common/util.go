package common

// WipeByteArray overwrites the contents of b with zeros. Use it on password
// buffers once they have been copied into a request.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
