package memory

import (
	"math"
	"regexp"
	"strconv"
)

var paramCountPattern = regexp.MustCompile(`(?i)(\d+)b`)

const (
	idealCtxBaseSizeBillions = 7
	idealCtxBaseContext      = 4096
	idealCtxScalingFactor    = 1.5
)

// IdealContext estimates a model's usable context window from its name,
// per spec section 4.4: parse the first integer immediately preceding the
// letter 'b' (case-insensitive) as a parameter-billions hint, then scale
// 4096 tokens by (P/7)^1.5 and round to the nearest power of two. Returns
// false if the model name carries no such hint, in which case compression
// gating is skipped by the caller.
func IdealContext(modelName string) (int, bool) {
	match := paramCountPattern.FindStringSubmatch(modelName)
	if match == nil {
		return 0, false
	}
	paramBillions, err := strconv.Atoi(match[1])
	if err != nil || paramBillions == 0 {
		return 0, false
	}

	raw := idealCtxBaseContext * math.Pow(float64(paramBillions)/idealCtxBaseSizeBillions, idealCtxScalingFactor)
	// Truncate toward zero before taking log2, matching the source's
	// int(...) call order — rounding after truncation (not before) is what
	// makes 14b resolve to 8192 rather than 16384.
	truncated := int(raw)
	if truncated <= 0 {
		return 0, false
	}
	rounded := math.Round(math.Log2(float64(truncated)))
	return int(math.Pow(2, rounded)), true
}
