package registry

import (
	"fmt"
	"testing"
)

type testItem struct {
	ID   string
	Name string
}

func TestBaseRegistry_Register(t *testing.T) {
	r := NewBaseRegistry[testItem]()

	if err := r.Register("a", testItem{ID: "a", Name: "first"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("", testItem{Name: "no name"}); err == nil {
		t.Error("Register() with empty name should error")
	}
	if err := r.Register("a", testItem{ID: "a", Name: "dup"}); err == nil {
		t.Error("Register() duplicate name should error")
	}
}

func TestBaseRegistry_Get(t *testing.T) {
	r := NewBaseRegistry[testItem]()
	item := testItem{ID: "a", Name: "first"}
	if err := r.Register("a", item); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := r.Get("a")
	if !ok || got.Name != "first" {
		t.Errorf("Get(%q) = %v, %v", "a", got, ok)
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("Get() of missing name should return false")
	}
}

func TestBaseRegistry_NamesPreservesOrder(t *testing.T) {
	r := NewBaseRegistry[testItem]()
	order := []string{"casual", "coder", "browser"}
	for _, name := range order {
		if err := r.Register(name, testItem{ID: name}); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}

	names := r.Names()
	if len(names) != len(order) {
		t.Fatalf("Names() length = %d, want %d", len(names), len(order))
	}
	for i, name := range order {
		if names[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestBaseRegistry_RemoveKeepsRemainingOrder(t *testing.T) {
	r := NewBaseRegistry[testItem]()
	for _, name := range []string{"a", "b", "c"} {
		_ = r.Register(name, testItem{ID: name})
	}
	if err := r.Remove("b"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := r.Remove("missing"); err == nil {
		t.Error("Remove() of missing name should error")
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "c" {
		t.Errorf("Names() after remove = %v, want [a c]", names)
	}
}

func TestBaseRegistry_CountAndClear(t *testing.T) {
	r := NewBaseRegistry[testItem]()
	for i := 0; i < 3; i++ {
		_ = r.Register(fmt.Sprintf("item-%d", i), testItem{ID: fmt.Sprintf("item-%d", i)})
	}
	if count := r.Count(); count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}

	r.Clear()
	if count := r.Count(); count != 0 {
		t.Errorf("Count() after Clear() = %d, want 0", count)
	}
	if names := r.Names(); len(names) != 0 {
		t.Errorf("Names() after Clear() = %v, want empty", names)
	}
}

func TestBaseRegistry_Concurrency(t *testing.T) {
	r := NewBaseRegistry[testItem]()
	done := make(chan bool, 2)

	go func() {
		defer func() { done <- true }()
		for i := 0; i < 100; i++ {
			id := fmt.Sprintf("concurrent-%d", i)
			_ = r.Register(id, testItem{ID: id})
		}
	}()

	go func() {
		defer func() { done <- true }()
		for i := 0; i < 100; i++ {
			r.Get(fmt.Sprintf("concurrent-%d", i))
			r.Count()
			r.List()
			r.Names()
		}
	}()

	<-done
	<-done

	if count := r.Count(); count != 100 {
		t.Errorf("Count() after concurrent access = %d, want 100", count)
	}
}
