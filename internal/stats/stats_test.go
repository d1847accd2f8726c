package stats

import (
	"reflect"
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
		ok     bool
	}{
		{"empty", nil, 0, false},
		{"single", []float64{42}, 42, true},
		{"odd", []float64{90, 60, 120}, 90, true},
		{"even uses middle mean", []float64{150, 60, 140, 70}, 105, true},
		{"duplicates", []float64{80, 80, 80, 100}, 80, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Median(tt.values)
			if ok != tt.ok || got != tt.want {
				t.Errorf("expected (%v, %v), got (%v, %v)", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestMedianDoesNotModifyInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	if !reflect.DeepEqual(values, []float64{3, 1, 2}) {
		t.Errorf("expected input untouched, got %v", values)
	}
}

func TestMeanAndSum(t *testing.T) {
	if _, ok := Mean(nil); ok {
		t.Error("expected no mean for empty input")
	}
	if m, ok := Mean([]float64{10, 20, 30}); !ok || m != 20 {
		t.Errorf("expected 20, got %v", m)
	}
	if s := Sum([]float64{1.5, 2.5}); s != 4 {
		t.Errorf("expected 4, got %v", s)
	}
}

func TestMinMax(t *testing.T) {
	lo, hi, ok := MinMax([]float64{70, 150, 60})
	if !ok || lo != 60 || hi != 150 {
		t.Errorf("expected 60..150, got %v..%v (%v)", lo, hi, ok)
	}
	if _, _, ok := MinMax(nil); ok {
		t.Error("expected not ok for empty input")
	}
}

func TestClampAndRatio(t *testing.T) {
	if got := Clamp(-5, 0, 100); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := Clamp(150, 0, 100); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
	if got := Ratio(5, 0); got != 0 {
		t.Errorf("expected 0 for zero denominator, got %v", got)
	}
	if got := Ratio(200000, 1000000); got != 0.2 {
		t.Errorf("expected 0.2, got %v", got)
	}
}
