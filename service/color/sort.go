package color

import "sort"

// SortLabels orders color option labels for display: solid colors first,
// multi-color entries last, each group by less on the original label. A nil
// less falls back to byte order. The input slice is not modified.
func SortLabels(labels []string, less func(a, b string) bool) []string {
	if less == nil {
		less = func(a, b string) bool { return a < b }
	}
	out := append([]string(nil), labels...)
	multi := make(map[string]bool, len(out))
	for _, l := range out {
		multi[l] = IsMultiColor(l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		mi, mj := multi[out[i]], multi[out[j]]
		if mi != mj {
			return !mi
		}
		return less(out[i], out[j])
	})
	return out
}
