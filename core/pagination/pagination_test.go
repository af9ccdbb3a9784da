package pagination

import (
	"math"
	"testing"
)

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got, p := Slice(items, 2, 2)
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("page 2 = %v, want [3 4]", got)
	}
	if p.TotalPages != 3 || !p.HasPrev() || !p.HasNext() {
		t.Errorf("page meta = %+v", p)
	}

	got, p = Slice(items, 3, 2)
	if len(got) != 1 || got[0] != 5 || p.HasNext() {
		t.Errorf("last page = %v (%+v)", got, p)
	}

	got, _ = Slice(items, 9, 2)
	if len(got) != 0 {
		t.Errorf("out of range page = %v, want empty", got)
	}
}

func TestCompute_Defaults(t *testing.T) {
	p := Compute(0, 0, 0)
	if p.Number != 1 || p.Size != DefaultPageSize || p.TotalPages != 1 {
		t.Errorf("Compute defaults = %+v", p)
	}
}

func TestSlice_HugeValues(t *testing.T) {
	items := []int{1, 2, 3}

	got, p := Slice(items, math.MaxInt, 2)
	if len(got) != 0 || p.Start != 3 || p.End != 3 {
		t.Errorf("huge page = %v (%+v), want empty window at end", got, p)
	}

	got, p = Slice(items, 1, math.MaxInt)
	if len(got) != 3 || p.TotalPages != 1 {
		t.Errorf("huge size = %v (%+v), want all items", got, p)
	}

	got, _ = Slice(items, math.MaxInt/2+1, math.MaxInt/2)
	if len(got) != 0 {
		t.Errorf("overflowing product = %v, want empty", got)
	}
}
