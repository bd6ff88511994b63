package math

import "testing"

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{2, 3, 6}
	got := v.Length()
	want := float32(7)
	if got != want {
		t.Errorf("Vec3.Length() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	l := v.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}

	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero vector Normalize() = %v, want zero", got)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, -4, 0}

	if got, want := a.Min(b), (Vec3{1, -4, -2}); got != want {
		t.Errorf("Vec3.Min() = %v, want %v", got, want)
	}
	if got, want := a.Max(b), (Vec3{3, 5, 0}); got != want {
		t.Errorf("Vec3.Max() = %v, want %v", got, want)
	}
}

func TestBoundsOf(t *testing.T) {
	tests := []struct {
		name    string
		points  []Vec3
		wantMin Vec3
		wantMax Vec3
	}{
		{
			name:   "empty",
			points: nil,
		},
		{
			name:    "single point",
			points:  []Vec3{{1, 2, 3}},
			wantMin: Vec3{1, 2, 3},
			wantMax: Vec3{1, 2, 3},
		},
		{
			name: "spread",
			points: []Vec3{
				{-1, 4, 0},
				{2, -3, 5},
				{0, 0, -7},
			},
			wantMin: Vec3{-1, -3, -7},
			wantMax: Vec3{2, 4, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := BoundsOf(tt.points)
			if gotMin != tt.wantMin || gotMax != tt.wantMax {
				t.Errorf("BoundsOf() = (%v, %v), want (%v, %v)",
					gotMin, gotMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}
