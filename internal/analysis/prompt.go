package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

const promptAR = `سعر العملة %s الآن هو %.6f$.
الإطار الزمني: %s
قم بتحليل التشارت للعملة اعتمادًا على:
- خطوط الدعم والمقاومة.
- مؤشرات RSI و MACD و MA.
- Bollinger Bands
- Fibonacci Levels
- Stochastic Oscillator
- Volume Analysis
- Trendlines
ثم قدّم:
1. تقييم عام (صعود أم هبوط؟).
2. أقرب مقاومة ودعم.
3. السعر المستهدف المتوقع (نطاق سعري).
✅ استخدم العربية فقط.`

const promptEN = `The current price of %s is $%.6f.
Timeframe: %s
Analyze the chart for this coin based on:
- Support and resistance lines.
- RSI, MACD and moving averages.
- Bollinger Bands
- Fibonacci Levels
- Stochastic Oscillator
- Volume Analysis
- Trendlines
Then provide:
1. An overall verdict (bullish or bearish?).
2. The nearest resistance and support.
3. An expected target price range.
✅ Answer in English only.`

func buildPrompt(req Request) string {
	symbol := strings.ToUpper(req.Symbol)
	if req.Lang == "en" {
		return fmt.Sprintf(promptEN, symbol, req.Price, req.Timeframe)
	}
	return fmt.Sprintf(promptAR, symbol, req.Price, req.Timeframe)
}

// Allow-lists for response stripping. The completion models occasionally
// leak characters from unrelated scripts; stripping keeps replies readable.
var (
	disallowedAR = regexp.MustCompile(`[^\p{Arabic}0-9A-Za-z\s.,:;!?()\[\]%$+\-*/=_'"،؛؟]`)
	disallowedEN = regexp.MustCompile(`[^0-9A-Za-z\s.,:;!?()\[\]%$+\-*/=_'"]`)
)

func sanitize(text, lang string) string {
	if lang == "en" {
		return strings.TrimSpace(disallowedEN.ReplaceAllString(text, ""))
	}
	return strings.TrimSpace(disallowedAR.ReplaceAllString(text, ""))
}
