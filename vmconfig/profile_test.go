package vmconfig

import "testing"

func TestDefaultProfileSeedsStackPointerAtMemoryLength(t *testing.T) {
	p := DefaultProfile()
	if p.StackPointerSeed != p.MemorySize {
		t.Fatalf("expected stack pointer seed %d to equal memory size %d, per spec.md §3's \"x2 (sp) = L\"", p.StackPointerSeed, p.MemorySize)
	}
	if p.WordWidth != 32 {
		t.Fatalf("expected default word width 32, got %d", p.WordWidth)
	}
}
