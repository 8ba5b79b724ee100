package debug

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Ray outcome labels used in RowData.Outcomes
const (
	OutcomeHit        = "hit"
	OutcomeMiss       = "miss"
	OutcomeDegenerate = "degenerate"
)

// ClassifyT labels a raw intersection parameter. NaN and +Inf come from
// rays parallel to a plane or from zero-length normals.
func ClassifyT(t float64) string {
	switch {
	case math.IsNaN(t) || math.IsInf(t, 1):
		return OutcomeDegenerate
	case t > 0:
		return OutcomeHit
	default:
		return OutcomeMiss
	}
}

// FormatOutcomes renders an outcome tally as "hit=3 miss=1", sorted by label.
func FormatOutcomes(outcomes map[string]int) string {
	if len(outcomes) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(outcomes))
	for k := range outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.Itoa(outcomes[k])
	}
	return strings.Join(parts, " ")
}
