package transport

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// clientHello is the four bytes a client sends to open a session.
var clientHello = [4]byte{0, 0, 0, 0}

// serverHelloValue is htonl(42): the reference wesnothd server packs the
// constant 42 into a union with char buf[4] and writes it verbatim, which is
// big-endian network byte order.
const serverHelloValue uint32 = 42

func serverHello() [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], serverHelloValue)
	return b
}

// ServerHandshake performs the server side of the four-byte exchange: read
// four bytes, and if they equal the client hello, reply with htonl(42) and
// return a framed Reader/Writer pair over pipe. Any bytes read past the
// initial four stay buffered in the returned Reader's staging buffer. A
// mismatched hello is fatal; no tolerant fallback is offered (spec.md §4.3
// treats that as a non-goal).
func ServerHandshake(pipe io.ReadWriter, opts ...Option) (*FramedReader, *FramedWriter, error) {
	o := resolveOptions(opts)
	hello, rest, err := readHandshakeBytes(pipe, o.logger)
	if err != nil {
		return nil, nil, err
	}
	if hello != clientHello {
		o.logger.Debug("incorrect client handshake", zap.Binary("hello", hello[:]))
		return nil, nil, ErrBadHandshake
	}
	reply := serverHello()
	if _, err := pipe.Write(reply[:]); err != nil {
		o.logger.Debug("failed to send server handshake", zap.Error(err))
		return nil, nil, errors.Wrap(ErrTransport, err.Error())
	}
	return newFramedReader(pipe, o, rest), newFramedWriter(pipe, o), nil
}

// ClientHandshake performs the client side of the four-byte exchange: write
// the client hello, then read four bytes and require they equal htonl(42).
func ClientHandshake(pipe io.ReadWriter, opts ...Option) (*FramedReader, *FramedWriter, error) {
	o := resolveOptions(opts)
	if _, err := pipe.Write(clientHello[:]); err != nil {
		o.logger.Debug("failed to send client handshake", zap.Error(err))
		return nil, nil, errors.Wrap(ErrTransport, err.Error())
	}
	hello, rest, err := readHandshakeBytes(pipe, o.logger)
	if err != nil {
		return nil, nil, err
	}
	if hello != serverHello() {
		o.logger.Debug("incorrect server handshake", zap.Binary("hello", hello[:]))
		return nil, nil, ErrBadHandshake
	}
	return newFramedReader(pipe, o, rest), newFramedWriter(pipe, o), nil
}

// readHandshakeBytes reads until at least four bytes are available, then
// splits them into the four handshake bytes and whatever arrived alongside them.
func readHandshakeBytes(r io.Reader, log *zap.Logger) (hello [4]byte, rest []byte, err error) {
	buf := make([]byte, 0, 1024)
	for len(buf) < 4 {
		scratch := make([]byte, 1024)
		n, rerr := r.Read(scratch)
		if n > 0 {
			buf = append(buf, scratch[:n]...)
		}
		// A Reader may legally deliver its final bytes together with
		// io.EOF (or any other error). If those bytes already complete
		// the four-byte handshake, that takes priority over the error.
		if len(buf) >= 4 {
			break
		}
		if rerr != nil {
			if rerr == io.EOF {
				log.Debug("connection ended during handshake")
				return hello, nil, ErrEndOfStream
			}
			log.Debug("read failure during handshake", zap.Error(rerr))
			return hello, nil, errors.Wrap(ErrTransport, rerr.Error())
		}
		if n == 0 {
			log.Debug("connection produced no bytes during handshake")
			return hello, nil, ErrEndOfStream
		}
	}
	copy(hello[:], buf[:4])
	return hello, buf[4:], nil
}
