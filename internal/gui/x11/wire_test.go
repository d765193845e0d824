package x11

import "testing"

func TestLeUint32RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	putLeUint32(buf, 0xdeadbeef)
	got := leUint32(buf)
	if got != 0xdeadbeef {
		t.Fatalf("round trip mismatch: got %#x", got)
	}
}

func TestByteReaderEOF(t *testing.T) {
	r := bytesReader([]byte("hi"))
	buf := make([]byte, 10)
	n, err := r.Read(buf)
	if err != nil || n != 2 {
		t.Fatalf("unexpected first read: n=%d err=%v", n, err)
	}
	_, err = r.Read(buf)
	if err == nil {
		t.Fatalf("expected EOF on second read")
	}
}
