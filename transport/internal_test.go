package transport

import (
	"bytes"
	"testing"
)

func TestGzipCodec_RoundTrip(t *testing.T) {
	for _, payload := range [][]byte{
		nil,
		[]byte("hello"),
		bytes.Repeat([]byte("wesnoth"), 1000),
	} {
		compressed, err := compressPayload(payload)
		if err != nil {
			t.Fatalf("compress: %v", err)
		}
		got, err := decompressPayload(compressed)
		if err != nil {
			t.Fatalf("decompress: %v", err)
		}
		if !bytes.Equal(got, payload) && !(len(got) == 0 && len(payload) == 0) {
			t.Fatalf("got=%q want=%q", got, payload)
		}
	}
}

func TestGzipCodec_MultiMember(t *testing.T) {
	a, err := compressPayload([]byte("first"))
	if err != nil {
		t.Fatalf("compress a: %v", err)
	}
	b, err := compressPayload([]byte("second"))
	if err != nil {
		t.Fatalf("compress b: %v", err)
	}
	got, err := decompressPayload(append(a, b...))
	if err != nil {
		t.Fatalf("decompress concatenated members: %v", err)
	}
	if string(got) != "firstsecond" {
		t.Fatalf("got=%q want=%q", got, "firstsecond")
	}
}

func TestStagingBuffer_DrainKeepsRemainder(t *testing.T) {
	s := newStagingBuffer(0, []byte("abcdef"))
	s.drain(2)
	if string(s.bytes()) != "cdef" {
		t.Fatalf("bytes=%q want=%q", s.bytes(), "cdef")
	}
}

func TestStagingBuffer_FillAppends(t *testing.T) {
	s := newStagingBuffer(0, []byte("ab"))
	if _, err := s.fill(bytes.NewReader([]byte("cd"))); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if string(s.bytes()) != "abcd" {
		t.Fatalf("bytes=%q want=%q", s.bytes(), "abcd")
	}
}

func TestStagingBuffer_CeilingExceeded(t *testing.T) {
	s := newStagingBuffer(3, []byte("ab"))
	if _, err := s.fill(bytes.NewReader([]byte("cd"))); err != ErrBufferOverflow {
		t.Fatalf("err=%v want=%v", err, ErrBufferOverflow)
	}
}
