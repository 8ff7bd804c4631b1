package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMA(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		period int
		want   []float64
	}{
		{
			name:   "empty input",
			values: nil,
			period: 10,
			want:   nil,
		},
		{
			name:   "period one passes through",
			values: []float64{1, 2, 3},
			period: 1,
			want:   []float64{1, 2, 3},
		},
		{
			name:   "constant series stays constant",
			values: []float64{5, 5, 5, 5, 5},
			period: 3,
			want:   []float64{5, 5, 5, 5, 5},
		},
		{
			// k = 2/(2+1) = 2/3, seeded with the first raw value
			name:   "period two recursion",
			values: []float64{3, 6, 9},
			period: 2,
			want:   []float64{3, 5, 23.0 / 3.0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EMA(tt.values, tt.period)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9, "index %d", i)
			}
		})
	}
}

func TestEMA_SeedAndAlignment(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	got := EMA(values, 3)
	require.Len(t, got, len(values))

	// Seeded with the raw first value, not a warm-up average.
	assert.Equal(t, 10.0, got[0])

	// Hand-rolled recursion with k = 0.5.
	assert.InDelta(t, 15.0, got[1], 1e-9)
	assert.InDelta(t, 22.5, got[2], 1e-9)
	assert.InDelta(t, 31.25, got[3], 1e-9)
}

func TestEMA_ConvergesToConstant(t *testing.T) {
	values := make([]float64, 200)
	for i := range values {
		values[i] = 42
	}
	got := EMA(values, 26)
	assert.InDelta(t, 42, got[len(got)-1], 1e-9)
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		period int
		want   []float64
	}{
		{
			name:   "empty input",
			values: nil,
			period: 5,
			want:   nil,
		},
		{
			name:   "period one passes through",
			values: []float64{4, 5, 6},
			period: 1,
			want:   []float64{4, 5, 6},
		},
		{
			// Warm-up bars echo the raw value until a full window exists.
			name:   "warm-up passthrough then window average",
			values: []float64{1, 2, 3, 4, 5},
			period: 3,
			want:   []float64{1, 2, 2, 3, 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SMA(tt.values, tt.period)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9, "index %d", i)
			}
		})
	}
}

func TestSMA_WindowSlides(t *testing.T) {
	values := []float64{2, 4, 6, 8, 10, 12}
	got := SMA(values, 2)
	want := []float64{2, 3, 5, 7, 9, 11}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "index %d", i)
	}
}
