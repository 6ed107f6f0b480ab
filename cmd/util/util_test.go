package util

import (
	"strings"
	"testing"

	"github.com/ValentinKolb/hKV/lib/kv"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		typ, raw string
		want     kv.Value
	}{
		{"string", "hello", kv.NewString("hello")},
		{"int", "-42", kv.NewInteger(-42)},
		{"float", "0.5", kv.NewFloat(0.5)},
		{"bool", "true", kv.NewBool(true)},
		{"binary", "00ff", kv.NewBinary([]byte{0x00, 0xff})},
		{"none", "ignored", kv.None()},
	}

	for _, tt := range tests {
		got, err := ParseValue(tt.typ, tt.raw)
		if err != nil {
			t.Errorf("ParseValue(%s, %s) failed: %v", tt.typ, tt.raw, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseValue(%s, %s) = %s, expected %s", tt.typ, tt.raw, got, tt.want)
		}
	}

	for _, invalid := range [][2]string{{"int", "x"}, {"float", "x"}, {"bool", "x"}, {"binary", "zz"}, {"date", "1"}} {
		if _, err := ParseValue(invalid[0], invalid[1]); err == nil {
			t.Errorf("ParseValue(%s, %s) should fail", invalid[0], invalid[1])
		}
	}
}

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("line exceeds %d characters: %q", Wrap, line)
		}
	}
}
