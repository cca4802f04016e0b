package timeline

import (
	"sort"
	"time"
)

// Bucket groups instants into fixed-width buckets aligned to width. Empty
// buckets between the first and last instant are included with a zero count.
func Bucket(stamps []time.Time, width time.Duration) []Point {
	if len(stamps) == 0 || width <= 0 {
		return nil
	}
	sorted := append([]time.Time(nil), stamps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	first := sorted[0].Truncate(width)
	last := sorted[len(sorted)-1].Truncate(width)
	n := int(last.Sub(first)/width) + 1
	points := make([]Point, n)
	for i := range points {
		points[i].Key = first.Add(time.Duration(i) * width)
	}
	for _, ts := range sorted {
		idx := int(ts.Truncate(width).Sub(first) / width)
		points[idx].Count++
	}
	return points
}

// Histogram re-buckets a series into columns evenly spanning [min, max] for
// drawing a scrub bar. Points outside the range are clamped to the edges.
func Histogram(series []Point, min, max time.Time, columns int) []int {
	if columns <= 0 {
		return nil
	}
	out := make([]int, columns)
	span := max.Sub(min)
	for _, p := range series {
		col := 0
		if span > 0 {
			col = int(float64(p.Key.Sub(min)) * float64(columns) / float64(span))
		}
		if col < 0 {
			col = 0
		}
		if col >= columns {
			col = columns - 1
		}
		out[col] += p.Count
	}
	return out
}
