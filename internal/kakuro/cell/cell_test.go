package cell

import "testing"

func TestCandidatesSetClearHas(t *testing.T) {
	var c Candidates
	c = c.Set(3).Set(7)
	if !c.Has(3) || !c.Has(7) {
		t.Fatalf("expected 3 and 7 set, got %v", c)
	}
	if c.Has(1) {
		t.Fatalf("expected 1 unset, got %v", c)
	}
	c = c.Clear(3)
	if c.Has(3) {
		t.Fatalf("expected 3 cleared, got %v", c)
	}
}

func TestCandidatesOnly(t *testing.T) {
	c := NewCandidates([]int{5})
	d, ok := c.Only()
	if !ok || d != 5 {
		t.Fatalf("expected (5, true), got (%d, %v)", d, ok)
	}
	c = c.Set(6)
	if _, ok := c.Only(); ok {
		t.Fatalf("expected no unique candidate with two set")
	}
}

func TestCandidatesSetOps(t *testing.T) {
	a := NewCandidates([]int{1, 2, 3})
	b := NewCandidates([]int{2, 3, 4})
	if a.Intersect(b) != NewCandidates([]int{2, 3}) {
		t.Fatalf("intersect mismatch")
	}
	if a.Union(b) != NewCandidates([]int{1, 2, 3, 4}) {
		t.Fatalf("union mismatch")
	}
	if a.Subtract(b) != NewCandidates([]int{1}) {
		t.Fatalf("subtract mismatch")
	}
}

func TestComboDigits(t *testing.T) {
	c := Combo{1, 2, 4}
	if c.Digits() != NewCandidates([]int{1, 2, 4}) {
		t.Fatalf("combo digits mismatch")
	}
}

func TestCellEqual(t *testing.T) {
	a := NewEmpty()
	b := NewEmpty()
	if !a.Equal(b) {
		t.Fatalf("two fresh empty cells should be equal")
	}
	a.Assigned = 4
	if a.Equal(b) {
		t.Fatalf("cells with differing Assigned should not be equal")
	}
	if !NewBlock().Equal(NewBlock()) {
		t.Fatalf("blocks should always be equal")
	}
	c1 := Cell{Kind: Clue, SumRight: 5, SumDown: 3}
	c2 := Cell{Kind: Clue, SumRight: 5, SumDown: 3}
	if !c1.Equal(c2) {
		t.Fatalf("clues with matching sums should be equal")
	}
}
