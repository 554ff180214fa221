package transport

import (
	"io"

	"go.uber.org/zap"
)

// Relay forwards decoded message payloads from a FramedReader to a
// FramedWriter one at a time, preserving message boundaries. It is the
// building block for a man-in-the-middle inspector: each payload can be
// decoded and examined between the read and the write.
type Relay struct {
	r   *FramedReader
	w   *FramedWriter
	log *zap.Logger
}

// NewRelay constructs a Relay reading from r and writing to w.
func NewRelay(r *FramedReader, w *FramedWriter, opts ...Option) *Relay {
	o := resolveOptions(opts)
	return &Relay{r: r, w: w, log: o.logger}
}

// Once forwards exactly one message: it reads one decompressed payload from
// the source and writes it as one frame to the destination, returning the
// payload that was relayed. Callers that need to inspect traffic should
// parse the returned payload (e.g. as a wml.Doc) before the next call.
//
// Once returns the source's error unchanged when the read fails (including
// io.EOF at a message boundary and ErrEndOfStream when the source ends
// partway through a frame), and wraps write-side
// failures as ErrTransport via the underlying FramedWriter.
func (rl *Relay) Once() ([]byte, error) {
	payload, err := rl.r.Read()
	if err != nil {
		return nil, err
	}
	if err := rl.w.Write(payload); err != nil {
		rl.log.Debug("relay: write failed", zap.Error(err))
		return payload, err
	}
	return payload, nil
}

// Run calls Once in a loop until the source ends (io.EOF at a message
// boundary, or ErrEndOfStream partway through a frame; Run returns nil for
// both) or another error occurs, invoking
// onPayload with each relayed message before continuing. A nil onPayload
// simply drains the stream.
func (rl *Relay) Run(onPayload func(payload []byte)) error {
	for {
		payload, err := rl.Once()
		if err != nil {
			if err == ErrEndOfStream || err == io.EOF {
				return nil
			}
			return err
		}
		if onPayload != nil {
			onPayload(payload)
		}
	}
}
