package helpers

import "testing"

func TestFormatPriceUSD(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{67890.123, "67890.123000"},
		{12345.678901, "12345.678901"},
		{0.5, "0.500000"},
		{0, "0.000000"},
	}
	for _, tt := range tests {
		if got := FormatPriceUSD(tt.price); got != tt.want {
			t.Errorf("FormatPriceUSD(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestFormatPriceUS(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{67890.123, "67,890.12"},
		{2.5, "2.50"},
		{0.000001234, "0.00000123"},
	}
	for _, tt := range tests {
		if got := FormatPriceUS(tt.price); got != tt.want {
			t.Errorf("FormatPriceUS(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"btc", "BTC"},
		{"  eth  ", "ETH"},
		{"", ""},
		{"   ", ""},
		{"doge", "DOGE"},
	}
	for _, tt := range tests {
		if got := NormalizeSymbol(tt.in); got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
