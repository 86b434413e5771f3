package uniform

import "testing"

func TestResolveStable(t *testing.T) {
	tbl := NewTable()

	a := tbl.Resolve("_A")
	b := tbl.Resolve("_B")
	if a == b {
		t.Fatalf("distinct names share ID %d", a)
	}
	if again := tbl.Resolve("_A"); again != a {
		t.Errorf("Resolve(_A) = %d on second call, want %d", again, a)
	}
	if a == 0 || b == 0 {
		t.Error("zero ID must never be assigned")
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestLookupAndName(t *testing.T) {
	tbl := NewTable()
	id := tbl.Resolve(ShadowDistance)

	if got, ok := tbl.Lookup(ShadowDistance); !ok || got != id {
		t.Errorf("Lookup = (%d, %v), want (%d, true)", got, ok, id)
	}
	if _, ok := tbl.Lookup("_Missing"); ok {
		t.Error("Lookup of unknown name should fail")
	}
	if tbl.Name(id) != ShadowDistance {
		t.Errorf("Name(%d) = %q", id, tbl.Name(id))
	}
	if tbl.Name(0) != "" || tbl.Name(99) != "" {
		t.Error("Name of unknown ID should be empty")
	}
}

func TestStandardShared(t *testing.T) {
	tbl := NewTable()
	s1 := NewStandard(tbl)
	s2 := NewStandard(tbl)

	if *s1 != *s2 {
		t.Error("standard IDs must be identical for the same table")
	}
	if s1.DirShadowAtlas == s1.DirShadowMatrices {
		t.Error("atlas and matrices must not share an ID")
	}
}
