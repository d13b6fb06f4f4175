package emissions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const floatTolerance = 1e-9

func TestFuelEmission(t *testing.T) {
	tests := []struct {
		name   string
		liters float64
		fuel   FuelType
		want   float64
	}{
		{name: "gasoline 100L", liters: 100, fuel: FuelGasoline, want: 229.87953268308001},
		{name: "stationary diesel 100L", liters: 100, fuel: FuelDiesel, want: 268.996776026688},
		{name: "mobile diesel 100L", liters: 100, fuel: FuelDieselMobile, want: 272.3443647912},
		{name: "zero volume", liters: 0, fuel: FuelGasoline, want: 0},
		{name: "negative volume", liters: -10, fuel: FuelDiesel, want: 0},
		{name: "NaN volume", liters: math.NaN(), fuel: FuelDiesel, want: 0},
		{name: "infinite volume", liters: math.Inf(1), fuel: FuelGasoline, want: 0},
		{name: "unknown fuel", liters: 100, fuel: FuelType("kerosene"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FuelEmission(tt.liters, tt.fuel)
			assert.InDelta(t, tt.want, got, floatTolerance)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestFuelBreakdown_SpeciesSumToTotal(t *testing.T) {
	for _, ft := range FuelTypes() {
		t.Run(string(ft), func(t *testing.T) {
			b := FuelBreakdown(37.5, ft)
			assert.Greater(t, b.CO2, b.CH4)
			assert.Equal(t, b.CO2+b.CH4+b.N2O, b.Total)
			assert.Equal(t, b.Total, FuelEmission(37.5, ft))
		})
	}
}

func TestFuelEmission_Linear(t *testing.T) {
	one := FuelEmission(1, FuelGasoline)
	assert.InDelta(t, 2.2987953268307995, one, floatTolerance)
	assert.InDelta(t, one*250, FuelEmission(250, FuelGasoline), 1e-6)
}

func TestParseFuelType(t *testing.T) {
	ft, err := ParseFuelType("diesel_mobile")
	require.NoError(t, err)
	assert.Equal(t, FuelDieselMobile, ft)

	props, ok := ft.Properties()
	require.True(t, ok)
	assert.InDelta(t, 8642.0, props.KcalPerLiter, 0)

	_, err = ParseFuelType("coal")
	require.ErrorIs(t, err, ErrUnknownFuelType)
}
