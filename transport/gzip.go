package transport

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// decompressPayload decompresses a single frame's compressed bytes. The
// decoder tolerates a multi-member gzip stream (klauspost/compress/gzip
// concatenates members by default, same as the reference MultiGzDecoder).
// A zero-length input is rejected by the gzip format itself and surfaced as
// ErrDecode.
func decompressPayload(compressed []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	zr.Multistream(true)
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	return out, nil
}

// compressPayload gzip-compresses payload at best-compression quality.
// An empty payload still produces a well-formed (empty-content) gzip stream.
func compressPayload(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, errors.Wrap(ErrTransport, err.Error())
	}
	if _, err := zw.Write(payload); err != nil {
		_ = zw.Close()
		return nil, errors.Wrap(ErrTransport, err.Error())
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(ErrTransport, err.Error())
	}
	return buf.Bytes(), nil
}
