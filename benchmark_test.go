package flshm

import (
	"strconv"
	"testing"
)

func benchMessage(size int) *Message {
	return &Message{
		Tick:       1,
		Name:       "localhost:bench",
		Host:       "localhost",
		Version:    Version4,
		Sandbox:    SecurityLocalWithFile,
		SWFVersion: 32,
		FilePath:   "/tmp/bench.swf",
		AMFVersion: AMF3,
		Method:     "echo",
		Data:       make([]byte, size),
	}
}

func BenchmarkEncodeMessage(b *testing.B) {
	msg := benchMessage(1024)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := EncodeMessage(msg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeMessage(b *testing.B) {
	body, err := EncodeMessage(benchMessage(1024))
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(body)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeMessage(1, body); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkPingPong writes, reads and clears one message per iteration, the
// way a sender and a consuming Watcher share the segment.
func BenchmarkPingPong(b *testing.B) {
	for _, size := range []int{64, 1024, 32 * 1024} {
		b.Run(byteSize(size), func(b *testing.B) {
			s, _ := newTestSegment(b)
			msg := benchMessage(size)
			b.SetBytes(int64(size))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				msg.Tick = uint32(i) + 1
				if err := s.Lock(); err != nil {
					b.Fatal(err)
				}
				if err := s.Write(msg); err != nil {
					b.Fatal(err)
				}
				if _, err := s.Read(); err != nil {
					b.Fatal(err)
				}
				s.Clear()
				if err := s.Unlock(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func byteSize(n int) string {
	if n >= 1024 {
		return strconv.Itoa(n/1024) + "KB"
	}
	return strconv.Itoa(n) + "B"
}
