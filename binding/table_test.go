package binding

import "testing"

func TestTableHandles(t *testing.T) {
	tbl := NewTable[string]()

	a := tbl.Add("a")
	b := tbl.Add("b")
	if a == 0 || b == 0 {
		t.Fatal("handle 0 must never be handed out")
	}
	if a == b {
		t.Fatalf("duplicate handles: %d", a)
	}

	if v, ok := tbl.Get(a); !ok || v != "a" {
		t.Errorf("Get(%d) = %q, %v", a, v, ok)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len = %d, want 2", tbl.Len())
	}
}

func TestTableRemoveAndReuse(t *testing.T) {
	tbl := NewTable[string]()
	a := tbl.Add("a")
	tbl.Add("b")

	v, ok := tbl.Remove(a)
	if !ok || v != "a" {
		t.Fatalf("Remove(%d) = %q, %v", a, v, ok)
	}
	if _, ok := tbl.Get(a); ok {
		t.Error("removed handle must not resolve")
	}
	if _, ok := tbl.Remove(a); ok {
		t.Error("double remove must fail")
	}

	// Freed slots are reused.
	c := tbl.Add("c")
	if c != a {
		t.Errorf("Add after Remove = %d, want reused %d", c, a)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len = %d, want 2", tbl.Len())
	}
}

func TestTableInvalidHandles(t *testing.T) {
	tbl := NewTable[string]()
	if _, ok := tbl.Get(0); ok {
		t.Error("handle 0 must not resolve")
	}
	if _, ok := tbl.Get(99); ok {
		t.Error("out of range handle must not resolve")
	}
	if _, ok := tbl.Remove(99); ok {
		t.Error("out of range remove must fail")
	}
}
