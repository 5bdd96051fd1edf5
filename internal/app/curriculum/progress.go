// Package curriculum tracks progress through a generated VUCA
// curriculum: per-dimension completion, the complete predicate, the
// Gegensatz (contrast) suggestion and the view state machine.
//
// Everything except Service is a pure function of its arguments.
package curriculum

import (
	"math"

	"github.com/lernpfad/lernpfad/internal/domain"
)

// DefaultThreshold is the per-dimension percentage every dimension must
// reach for a curriculum to count as complete.
const DefaultThreshold = 25

// CalculateProgress returns round(100 * completed / total) per
// dimension. A dimension without modules counts as 0 of 1.
func CalculateProgress(modules []domain.Module) domain.DimensionProgress {
	var total, done [4]int
	for _, m := range modules {
		i := dimIndex(m.Dimension)
		if i < 0 {
			continue
		}
		total[i]++
		if m.Completed {
			done[i]++
		}
	}

	var p domain.DimensionProgress
	for i, d := range domain.Dimensions() {
		t := total[i]
		if t == 0 {
			t = 1
		}
		p = p.Set(d, int(math.Round(100*float64(done[i])/float64(t))))
	}
	return p
}

// IsComplete reports whether every dimension reached threshold.
func IsComplete(p domain.DimensionProgress, threshold int) bool {
	for _, d := range domain.Dimensions() {
		if p.Get(d) < threshold {
			return false
		}
	}
	return true
}

func dimIndex(d domain.Dimension) int {
	switch d {
	case domain.DimV:
		return 0
	case domain.DimU:
		return 1
	case domain.DimC:
		return 2
	case domain.DimA:
		return 3
	}
	return -1
}
