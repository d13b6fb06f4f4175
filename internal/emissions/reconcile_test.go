package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransportCoverage(t *testing.T) {
	p := NewProduct("p", "Cabinet", 2024)
	p.Materials = []MaterialItem{
		{ID: "1", Name: "Steel", Weight: 100},
		{ID: "2", Name: "Board", Weight: 20},
		{ID: "3", Name: "Cable", Weight: 1000},
		{ID: "4", Name: "Glass", Weight: 5},
	}
	p.UpstreamTransport = []UpstreamTransport{
		{ID: "a", MaterialID: "1", Weight: 40, Distance: 10, VehicleID: "t1"},
		{ID: "b", MaterialID: "1", Weight: 60, Distance: 20, VehicleID: "t1"},
		{ID: "c", MaterialID: "3", Weight: 999.5, Distance: 20, VehicleID: "t1"},
		{ID: "d", MaterialID: "4", Weight: 4.99, Distance: 20, VehicleID: "t1"},
		{ID: "e", MaterialID: "", Weight: 20, Distance: 20, VehicleID: "t1"},
	}

	got := ValidateTransportCoverage(&p)
	require.Len(t, got, 4)

	t.Run("fully covered by two legs", func(t *testing.T) {
		v := got["1"]
		assert.InDelta(t, 100.0, v.TotalTransportWeight, floatTolerance)
		assert.InDelta(t, 100.0, v.OriginalWeight, 0)
		assert.True(t, v.IsValid)
		assert.False(t, v.IsMissing)
		assert.Equal(t, 2, v.LegCount)
		assert.Zero(t, v.Shortfall())
	})

	t.Run("no legs is missing", func(t *testing.T) {
		v := got["2"]
		assert.True(t, v.IsMissing)
		assert.False(t, v.IsValid)
		assert.Zero(t, v.TotalTransportWeight)
		assert.InDelta(t, 20.0, v.Shortfall(), 0)
	})

	t.Run("within relative tolerance", func(t *testing.T) {
		assert.True(t, got["3"].IsValid)
	})

	t.Run("below relative tolerance", func(t *testing.T) {
		v := got["4"]
		assert.False(t, v.IsValid)
		assert.False(t, v.IsMissing)
		assert.InDelta(t, 0.01, v.Shortfall(), floatTolerance)
	})

	assert.False(t, CoverageComplete(got))
	require.Len(t, UnlinkedLegs(&p), 1)
	assert.Equal(t, "e", UnlinkedLegs(&p)[0].ID)
}

func TestValidateTransportCoverage_OverCoverageIsValid(t *testing.T) {
	p := Product{
		Materials:         []MaterialItem{{ID: "1", Weight: 10}},
		UpstreamTransport: []UpstreamTransport{{MaterialID: "1", Weight: 25}},
	}
	got := ValidateTransportCoverage(&p)
	assert.True(t, got["1"].IsValid)
	assert.True(t, CoverageComplete(got))
}

func TestValidateTransportCoverage_ZeroWeightWithoutLegs(t *testing.T) {
	p := Product{Materials: []MaterialItem{{ID: "1", Weight: 0}}}
	v := ValidateTransportCoverage(&p)["1"]

	assert.True(t, v.IsValid)
	assert.True(t, v.IsMissing)
	assert.Zero(t, v.LegCount)
	assert.False(t, v.Covered())
	assert.False(t, CoverageComplete(map[string]TransportValidation{"1": v}))
}

func TestValidateTransportCoverage_Nil(t *testing.T) {
	assert.Empty(t, ValidateTransportCoverage(nil))
	assert.Nil(t, UnlinkedLegs(nil))
}
