package transport_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/Monadic-Cat/wesmaild/transport"
)

func TestRelay_OnceForwardsOnePayload(t *testing.T) {
	var wire bytes.Buffer
	writeFramesTo(t, &wire, [][]byte{[]byte("hello"), []byte("world")})

	src := transport.NewFramedReader(&wire)
	var dstWire bytes.Buffer
	dst := transport.NewFramedWriter(&dstWire)
	relay := transport.NewRelay(src, dst)

	payload, err := relay.Once()
	if err != nil {
		t.Fatalf("Once: %v", err)
	}
	if string(payload) != "hello" {
		t.Fatalf("got %q, want %q", payload, "hello")
	}

	reader := transport.NewFramedReader(&dstWire)
	got, err := reader.Read()
	if err != nil {
		t.Fatalf("reading relayed frame: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("relayed payload = %q, want %q", got, "hello")
	}
}

func TestRelay_RunDrainsUntilEOF(t *testing.T) {
	var wire bytes.Buffer
	msgs := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	writeFramesTo(t, &wire, msgs)

	src := transport.NewFramedReader(&wire)
	var dstWire bytes.Buffer
	dst := transport.NewFramedWriter(&dstWire)
	relay := transport.NewRelay(src, dst)

	var seen [][]byte
	err := relay.Run(func(payload []byte) {
		cp := append([]byte(nil), payload...)
		seen = append(seen, cp)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != len(msgs) {
		t.Fatalf("relayed %d messages, want %d", len(seen), len(msgs))
	}
	for i, m := range msgs {
		if !bytes.Equal(seen[i], m) {
			t.Fatalf("message %d = %q, want %q", i, seen[i], m)
		}
	}

	reader := transport.NewFramedReader(&dstWire)
	for i, m := range msgs {
		got, err := reader.Read()
		if err != nil {
			t.Fatalf("reading relayed frame %d: %v", i, err)
		}
		if !bytes.Equal(got, m) {
			t.Fatalf("relayed frame %d = %q, want %q", i, got, m)
		}
	}
	if _, err := reader.Read(); err != io.EOF {
		t.Fatalf("expected clean EOF after all frames, got %v", err)
	}
}
