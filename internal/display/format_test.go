package display

import "testing"

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"one KiB", 1024, "1.0 KiB"},
		{"fractional KiB", 1536, "1.5 KiB"},
		{"MiB", 5 * 1024 * 1024, "5.0 MiB"},
		{"GiB", 3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBytes(tt.bytes); got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatBitrateLabel(t *testing.T) {
	tests := []struct {
		name string
		kbps int64
		want string
	}{
		{"kbps", 800, "800 kbps"},
		{"one Mbps", 1000, "1.0 Mbps"},
		{"fractional Mbps", 4500, "4.5 Mbps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBitrateLabel(tt.kbps); got != tt.want {
				t.Errorf("FormatBitrateLabel(%d) = %q, want %q", tt.kbps, got, tt.want)
			}
		})
	}
}

func TestFormatSizeRatio(t *testing.T) {
	tests := []struct {
		name    string
		out, in int64
		want    string
	}{
		{"smaller than source", 1024, 10240, "1.0 KiB (10% of source)"},
		{"larger than source", 2048, 1024, "2.0 KiB (200% of source)"},
		{"unknown source size", 1024, 0, "1.0 KiB"},
		{"negative source size", 1024, -1, "1.0 KiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSizeRatio(tt.out, tt.in); got != tt.want {
				t.Errorf("FormatSizeRatio(%d, %d) = %q, want %q", tt.out, tt.in, got, tt.want)
			}
		})
	}
}
