package transport

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// FramedReader produces a sequence of decompressed message payloads from a
// byte source, honoring the big-endian u32 length prefix described in
// spec.md §6.1. It owns its half of the underlying pipe plus an append-only
// staging buffer holding whatever prefix of the peer's stream has not yet
// formed a complete frame.
type FramedReader struct {
	r       io.Reader
	staging *stagingBuffer
	maxLen  int
	log     *zap.Logger
}

func newFramedReader(r io.Reader, o Options, seed []byte) *FramedReader {
	return &FramedReader{
		r:       r,
		staging: newStagingBuffer(o.maxBufferLength, seed),
		maxLen:  o.maxFrameLength,
		log:     o.logger,
	}
}

// NewFramedReader wraps r directly, without running a handshake. Most
// callers obtain a FramedReader from ServerHandshake/ClientHandshake instead.
func NewFramedReader(r io.Reader, opts ...Option) *FramedReader {
	return newFramedReader(r, resolveOptions(opts), nil)
}

// Read returns the next complete, gzip-decompressed payload, or an error
// signaling end-of-stream/decode failure. Payloads are delivered in exactly
// the order received; there is no interleaving or lookahead.
func (fr *FramedReader) Read() ([]byte, error) {
	for {
		if fr.staging.len() >= 4 {
			frameLen := int(binary.BigEndian.Uint32(fr.staging.bytes()[:4]))
			if fr.maxLen > 0 && frameLen > fr.maxLen {
				fr.log.Debug("frame exceeds configured maximum", zap.Int("len", frameLen), zap.Int("max", fr.maxLen))
				return nil, ErrFrameTooLarge
			}
			if fr.staging.len()-4 >= frameLen {
				compressed := make([]byte, frameLen)
				copy(compressed, fr.staging.bytes()[4:4+frameLen])
				payload, err := decompressPayload(compressed)
				fr.staging.drain(4 + frameLen)
				if err != nil {
					fr.log.Debug("decompression failed", zap.Error(err))
					return nil, err
				}
				return payload, nil
			}
		}

		n, err := fr.staging.fill(fr.r)
		if err != nil {
			if err == ErrBufferOverflow {
				fr.log.Debug("staging buffer overflow")
				return nil, err
			}
			if err == io.EOF {
				// A Reader may legally return a final non-zero read together
				// with io.EOF. Those bytes are already staged; loop back and
				// recheck frame completeness before treating this as fatal.
				if n > 0 {
					continue
				}
				if fr.staging.len() > 0 {
					fr.log.Debug("end of stream mid-frame", zap.Int("buffered", fr.staging.len()))
					return nil, ErrEndOfStream
				}
				return nil, io.EOF
			}
			fr.log.Debug("read failure", zap.Error(err))
			return nil, errors.Wrap(ErrTransport, err.Error())
		}
	}
}

// FramedWriter gzip-compresses and frames outgoing payloads onto the
// underlying byte sink. It holds no buffered state beyond what the sink
// itself buffers.
type FramedWriter struct {
	w   io.Writer
	log *zap.Logger
}

func newFramedWriter(w io.Writer, o Options) *FramedWriter {
	return &FramedWriter{w: w, log: o.logger}
}

// NewFramedWriter wraps w directly, without running a handshake. Most
// callers obtain a FramedWriter from ServerHandshake/ClientHandshake instead.
func NewFramedWriter(w io.Writer, opts ...Option) *FramedWriter {
	return newFramedWriter(w, resolveOptions(opts))
}

// Write gzip-compresses payload, prepends its compressed length as a
// big-endian u32, and emits the concatenation as a single underlying Write
// call. An empty payload is permitted and still produces a well-formed gzip
// stream.
func (fw *FramedWriter) Write(payload []byte) error {
	compressed, err := compressPayload(payload)
	if err != nil {
		fw.log.Debug("compression failed", zap.Error(err))
		return err
	}

	frame := make([]byte, 4+len(compressed))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(compressed)))
	copy(frame[4:], compressed)

	if _, err := fw.w.Write(frame); err != nil {
		fw.log.Debug("write failure", zap.Error(err))
		return errors.Wrap(ErrTransport, err.Error())
	}
	return nil
}
