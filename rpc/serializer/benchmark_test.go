package serializer

import (
	"strings"
	"testing"

	"github.com/ValentinKolb/hKV/lib/command"
	"github.com/ValentinKolb/hKV/lib/kv"
)

// benchmarkResponses returns a set of responses for targeted benchmarking
func benchmarkResponses() map[string]*command.Response {
	pairs := make([]kv.Kvpair, 100)
	for i := range pairs {
		pairs[i] = kv.NewKvpair(strings.Repeat("k", i%16+1), kv.NewInteger(int64(i)))
	}

	return map[string]*command.Response{
		"Error":       command.NewErrorResponse(kv.NewNotFoundError("score", "u1")),
		"SmallValue":  command.NewValueResponse(kv.NewString("v")),
		"LargeValue":  command.NewValueResponse(kv.NewBinary(make([]byte, 1024))),
		"Pairs(100)":  command.NewPairsResponse(pairs),
		"IntegerOnly": command.NewValueResponse(kv.NewInteger(42)),
	}
}

func BenchmarkSerializeRequest(b *testing.B) {
	req := command.NewHset("table", "medium-length-key-for-testing", kv.NewString("medium length value"))

	for name, factory := range testSerializers {
		b.Run(name, func(b *testing.B) {
			s := factory()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.SerializeRequest(req); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkResponseRoundTrip(b *testing.B) {
	for name, factory := range testSerializers {
		for msgName, resp := range benchmarkResponses() {
			b.Run(name+"/"+msgName, func(b *testing.B) {
				s := factory()
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					data, err := s.SerializeResponse(resp)
					if err != nil {
						b.Fatal(err)
					}
					var result command.Response
					if err := s.DeserializeResponse(data, &result); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
