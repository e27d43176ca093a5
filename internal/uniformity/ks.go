package uniformity

import (
	_ "embed"
	"encoding/json"
	"math"
	"sync"
)

//go:embed ks_critical.json
var ksCriticalJSON []byte

type ksEntry struct {
	N     int     `json:"n"`
	Value float64 `json:"value"`
}

var ksTable = sync.OnceValue(func() map[int]float64 {
	var entries []ksEntry
	if err := json.Unmarshal(ksCriticalJSON, &entries); err != nil {
		panic("uniformity: corrupt embedded K-S table: " + err.Error())
	}
	table := make(map[int]float64, len(entries))
	for _, e := range entries {
		table[e.N] = e.Value
	}
	return table
})

// KSCritical returns the Kolmogorov-Smirnov critical value at Alpha for a
// sample of n values: tabulated for n <= 50, 1.36/sqrt(n) above.
func KSCritical(n int) float64 {
	if n <= 0 {
		return 0
	}
	if n <= 50 {
		return ksTable()[n]
	}
	return 1.36 / math.Sqrt(float64(n))
}
