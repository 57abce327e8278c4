package tray

import (
	"bytes"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "hello", 50, "hello"},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdef", 5, "abcd…"},
		{"empty", "", 5, ""},
		{"multibyte", "héllо wörldég", 5, "héll…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestIconsGenerated(t *testing.T) {
	for name, data := range map[string][]byte{
		"idle":      iconIdle,
		"recording": iconRecording,
		"busy":      iconBusy,
	} {
		if len(data) == 0 {
			t.Errorf("%s icon is empty", name)
		}
	}
}

func TestIcoFromPNG(t *testing.T) {
	payload := []byte("png-bytes")
	ico := icoFromPNG(payload)

	if len(ico) != 22+len(payload) {
		t.Fatalf("len = %d, want %d", len(ico), 22+len(payload))
	}
	if ico[2] != 1 || ico[4] != 1 {
		t.Error("ICO type or count header wrong")
	}
	if !bytes.HasSuffix(ico, payload) {
		t.Error("payload not appended after headers")
	}
}
