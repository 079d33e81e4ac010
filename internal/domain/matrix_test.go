package domain

import "testing"

func TestDistanceMatrixUnsetCellIsNotZero(t *testing.T) {
	m := NewDistanceMatrix(3)

	if _, ok := m.At(0, 1); ok {
		t.Fatal("fresh off-diagonal cell must be uncomputed")
	}

	m.Set(0, 1, 0)
	if d, ok := m.At(0, 1); !ok || d != 0 {
		t.Fatalf("explicit zero must be a computed cell: %v/%v", d, ok)
	}
}

func TestDistanceMatrixDiagonalKnown(t *testing.T) {
	m := NewDistanceMatrix(4)
	for i := 0; i < 4; i++ {
		if d, ok := m.At(i, i); !ok || d != 0 {
			t.Fatalf("diagonal (%d,%d): expected known zero, got %v/%v", i, i, d, ok)
		}
	}
}

func TestDistanceMatrixAsymmetric(t *testing.T) {
	m := NewDistanceMatrix(2)
	m.Set(0, 1, 100)

	if _, ok := m.At(1, 0); ok {
		t.Fatal("setting (0,1) must not imply (1,0)")
	}
}

func TestDistanceMatrixCloneIsIndependent(t *testing.T) {
	m := NewDistanceMatrix(2)
	m.Set(0, 1, 100)

	cp := m.Clone()
	cp.Set(1, 0, 200)
	cp.Set(0, 1, 999)

	if _, ok := m.At(1, 0); ok {
		t.Fatal("clone write leaked into the original")
	}
	if d, _ := m.At(0, 1); d != 100 {
		t.Fatalf("original cell overwritten via clone: %v", d)
	}
}

func TestDistanceMatrixComplete(t *testing.T) {
	m := NewDistanceMatrix(2)
	if m.Complete() {
		t.Fatal("matrix with unset cells reported complete")
	}
	m.Set(0, 1, 1)
	m.Set(1, 0, 2)
	if !m.Complete() {
		t.Fatal("fully set matrix reported incomplete")
	}
}

func TestDistanceMatrixOutOfRange(t *testing.T) {
	m := NewDistanceMatrix(2)
	m.Set(5, 5, 100)
	if _, ok := m.At(5, 5); ok {
		t.Fatal("out-of-range read must report uncomputed")
	}
}
