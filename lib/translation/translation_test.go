package translation

import (
	"strings"
	"testing"
)

func TestTranslateExactFailureStrings(t *testing.T) {
	if got := Translate("ar", "price_fetch_failed"); got != "❌ لم أتمكن من جلب السعر الحالي للعملة." {
		t.Errorf("ar price_fetch_failed = %q", got)
	}
	if got := Translate("ar", "analysis_failed"); got != "❌ حدث خطأ أثناء التحليل." {
		t.Errorf("ar analysis_failed = %q", got)
	}
	if got := Translate("en", "analysis_failed"); got != "❌ Analysis failed." {
		t.Errorf("en analysis_failed = %q", got)
	}
}

func TestTranslateWithVars(t *testing.T) {
	got := Translate("en", "price_reply", "BTC", "67890.123000")
	if !strings.Contains(got, "BTC") || !strings.Contains(got, "$67890.123000") {
		t.Errorf("price_reply = %q", got)
	}
}

func TestUnknownLanguageFallsBackToArabic(t *testing.T) {
	if got, want := Translate("de", "analysis_failed"), Translate("ar", "analysis_failed"); got != want {
		t.Errorf("fallback = %q, want %q", got, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ar", "ar"},
		{"en", "en"},
		{"", "ar"},
		{"fr", "ar"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
