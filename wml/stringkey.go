package wml

// Buffer is the owned, immutable byte vector holding a full input document.
// Every StringKey produced while parsing a Buffer must not outlive it.
type Buffer struct {
	data []byte
}

// NewBuffer takes ownership of data and wraps it as a Buffer. Callers must
// not mutate data afterwards; StringKeys resolved against this Buffer are
// only valid as long as the returned Buffer (and the slice behind it) is kept alive.
func NewBuffer(data []byte) Buffer {
	return Buffer{data: data}
}

// Bytes returns the full backing byte slice.
func (b Buffer) Bytes() []byte { return b.data }

// Len reports the buffer length in bytes.
func (b Buffer) Len() int { return len(b.data) }

// Slice resolves a StringKey to its byte window within this Buffer.
func (b Buffer) Slice(k StringKey) []byte {
	return b.data[k.idx : k.idx+k.len]
}

// StringKey is a (offset, length) view into a Buffer, standing in for an
// owned string slice without copying. Two StringKeys are only meaningfully
// comparable for byte-equality after both have been resolved against the
// same Buffer (see Buffer.Equal).
type StringKey struct {
	idx int
	len int
}

// Offset returns the StringKey's byte offset into its Buffer.
func (k StringKey) Offset() int { return k.idx }

// Len returns the StringKey's length in bytes.
func (k StringKey) Len() int { return k.len }

// Equal reports whether two StringKeys resolve to byte-identical windows in
// the given Buffer. This is how tag-name balancing (spec.md Property 4) is
// checked: by byte comparison of the resolved windows, not by StringKey
// identity.
func (b Buffer) Equal(a, c StringKey) bool {
	if a.len != c.len {
		return false
	}
	for i := 0; i < a.len; i++ {
		if b.data[a.idx+i] != b.data[c.idx+i] {
			return false
		}
	}
	return true
}
