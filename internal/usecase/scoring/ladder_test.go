package scoring

import "testing"

func TestIncidenceLadder(t *testing.T) {
	tests := []struct {
		v    float64
		want float64
	}{
		{0, 150},
		{0.1, 150},
		{0.2, 50},
		{0.3, 50},
		{0.4, 0},
		{0.5, 0},
		{0.6, 0},
		{0.7, -100},
		{0.8, -100},
		{0.9, -200},
		{1, -200},
	}
	for _, tt := range tests {
		if got := incidenceLadder.delta(tt.v); got != tt.want {
			t.Errorf("incidenceLadder.delta(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestFrequencyLadder(t *testing.T) {
	tests := []struct {
		v    float64
		want float64
	}{
		{0, 100},
		{0.3, 100},
		{0.5, 50},
		{0.9, 50},
		{1, 0},
		{2, 0},
		{2.5, -100},
		{3, -100},
		{4, -150},
	}
	for _, tt := range tests {
		if got := frequencyLadder.delta(tt.v); got != tt.want {
			t.Errorf("frequencyLadder.delta(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestSeverityLadder(t *testing.T) {
	tests := []struct {
		v    float64
		want float64
	}{
		{0, 50},
		{3000, 50},
		{5000, 0},
		{15000, 0},
		{20000, -100},
		{25000, -100},
		{30000, -150},
	}
	for _, tt := range tests {
		if got := severityLadder.delta(tt.v); got != tt.want {
			t.Errorf("severityLadder.delta(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
