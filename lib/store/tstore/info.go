package tstore

import (
	"math"

	"github.com/QingYi-Studio/tylddb/lib/store"
)

// --------------------------------------------------------------------------
// Store Info
// --------------------------------------------------------------------------

// GetInfo returns statistics about the store: entry and type counts,
// value-size estimates (when a Sizer was configured) and a quality score
// for how evenly the entries spread across types.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *storeImpl[V]) GetInfo() store.StoreInfo {
	s.mu.RLock()
	histogram := newSizeHistogram()
	typeCounts := make(map[string]int)
	for k, v := range s.entries {
		typeCounts[k.typ]++
		if s.sizer != nil {
			histogram.addSample(s.sizer(v))
		}
	}
	entryCount := len(s.entries)
	s.mu.RUnlock()

	counts := make([]float64, 0, len(typeCounts))
	for _, c := range typeCounts {
		counts = append(counts, float64(c))
	}

	return store.StoreInfo{
		Entries:             entryCount,
		Capacity:            s.capacity,
		Types:               len(typeCounts),
		AvgValueSize:        histogram.averageSize(),
		MedianValueSize:     histogram.medianEstimate(),
		DistributionQuality: distributionQuality(counts),
	}
}

// distributionQuality combines the coefficient of variation and the
// min/max ratio of per-type entry counts into a single 0..1 score. Lower
// variation and a higher min/max ratio indicate a more even spread.
func distributionQuality(counts []float64) float64 {
	if len(counts) == 0 {
		return 0
	}

	min := counts[0]
	max := counts[0]
	var sum float64
	for _, v := range counts {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(len(counts))

	var sumSquaredDiffs float64
	for _, v := range counts {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}
	stdDev := math.Sqrt(sumSquaredDiffs / float64(len(counts)))

	var cv float64
	if mean > 0 {
		cv = stdDev / mean
	}
	var minMaxRatio float64 = 1.0
	if max > 0 {
		minMaxRatio = min / max
	}

	return (1.0-math.Min(1.0, cv))*0.5 + minMaxRatio*0.5
}

// --------------------------------------------------------------------------
// Size Histogram
// --------------------------------------------------------------------------

// sizeHistogram tracks the distribution of value sizes in exponential
// buckets, so GetInfo can report size estimates without keeping every
// sample.
type sizeHistogram struct {
	boundaries []int
	buckets    []int64
	count      int64
	sum        int64
}

func newSizeHistogram() *sizeHistogram {
	// exponential bucket sizes from bytes to megabytes
	return &sizeHistogram{
		boundaries: []int{
			16, 64, 256, 1024, 4096,
			16384, 65536, 262144, 1048576,
		},
		buckets: make([]int64, 10),
	}
}

func (h *sizeHistogram) addSample(size int) {
	bucketIndex := len(h.boundaries)
	for i, boundary := range h.boundaries {
		if size <= boundary {
			bucketIndex = i
			break
		}
	}
	h.buckets[bucketIndex]++
	h.count++
	h.sum += int64(size)
}

func (h *sizeHistogram) averageSize() int {
	if h.count == 0 {
		return 0
	}
	return int(h.sum / h.count)
}

// medianEstimate estimates the median size from the bucket counts.
func (h *sizeHistogram) medianEstimate() int {
	if h.count == 0 {
		return 0
	}

	medianCount := h.count / 2
	cumulative := int64(0)
	for i, count := range h.buckets {
		cumulative += count
		if cumulative >= medianCount {
			switch {
			case i == 0:
				return h.boundaries[0] / 2
			case i < len(h.boundaries):
				return (h.boundaries[i-1] + h.boundaries[i]) / 2
			default:
				return h.boundaries[len(h.boundaries)-1] * 2
			}
		}
	}
	return int(h.sum / h.count)
}
