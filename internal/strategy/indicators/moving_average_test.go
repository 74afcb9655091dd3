package indicators

import (
	"errors"
	"testing"

	"smcTickBot/internal/ports"
)

func TestMovingAverage_Calculate(t *testing.T) {
	prices := []float64{100.0, 102.0, 101.0, 103.0, 104.0}

	tests := []struct {
		name          string
		config        MovingAverageConfig
		prices        []float64
		expectedValue float64
		expectError   bool
		insufficient  bool
	}{
		{
			name: "SMA with sufficient data",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 3},
				Type:            SimpleMovingAverage,
			},
			prices:        prices,
			expectedValue: 102.666667, // (101 + 103 + 104) / 3
		},
		{
			name: "SMA6 trend filter period with exact data",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 6},
				Type:            SimpleMovingAverage,
			},
			prices:        []float64{1, 2, 3, 4, 5, 6},
			expectedValue: 3.5,
		},
		{
			name: "EMA with sufficient data",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 3},
				Type:            ExponentialMovingAverage,
			},
			prices:        prices,
			expectedValue: 103.0, // seed 101, then 102, then 103
		},
		{
			name: "Insufficient data",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 6},
				Type:            SimpleMovingAverage,
			},
			prices:       prices,
			expectError:  true,
			insufficient: true,
		},
		{
			name: "Invalid MA type",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 3},
				Type:            "INVALID",
			},
			prices:      prices,
			expectError: true,
		},
		{
			name: "Zero period",
			config: MovingAverageConfig{
				Type: SimpleMovingAverage,
			},
			prices:      prices,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ma := NewMovingAverage(tt.config)
			value, err := ma.Calculate(tt.prices)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				if tt.insufficient && !errors.Is(err, ports.ErrInsufficientData) {
					t.Errorf("Expected ErrInsufficientData, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			// Allow for small floating point differences
			if value-tt.expectedValue > 0.0001 || value-tt.expectedValue < -0.0001 {
				t.Errorf("Expected value %f, got %f", tt.expectedValue, value)
			}
		})
	}
}

func TestMovingAverage_Name(t *testing.T) {
	tests := []struct {
		name     string
		config   MovingAverageConfig
		expected string
	}{
		{
			name: "SMA name",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 6},
				Type:            SimpleMovingAverage,
			},
			expected: "SMA6",
		},
		{
			name: "EMA name",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 20},
				Type:            ExponentialMovingAverage,
			},
			expected: "EMA20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ma := NewMovingAverage(tt.config)
			if name := ma.Name(); name != tt.expected {
				t.Errorf("Expected name %s, got %s", tt.expected, name)
			}
		})
	}
}
