package alignment

import "math"

func validInterval(start, end *float64) bool {
	if start == nil || end == nil {
		return false
	}
	s, e := *start, *end
	if math.IsNaN(s) || math.IsNaN(e) || math.IsInf(s, 0) || math.IsInf(e, 0) {
		return false
	}
	return s <= e
}
