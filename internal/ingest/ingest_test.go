package ingest_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/greenledger/pcfcalc/internal/emissions"
	"github.com/greenledger/pcfcalc/internal/ingest"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"number", `{"v": 12.5}`, 12.5},
		{"numeric_string", `{"v": "3.25"}`, 3.25},
		{"padded_string", `{"v": " 7 "}`, 7},
		{"empty_string", `{"v": ""}`, 0},
		{"null", `{"v": null}`, 0},
		{"garbage", `{"v": "abc"}`, 0},
		{"nan_string", `{"v": "NaN"}`, 0},
		{"negative", `{"v": -4}`, -4},
		{"missing", `{}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				V ingest.Number `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.input), &out))
			assert.InDelta(t, tt.want, out.V.Float(), 1e-12)
		})
	}
}

func TestNumber_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"number", "v: 12.5", 12.5},
		{"quoted", `v: "3.25"`, 3.25},
		{"empty", "v:", 0},
		{"tilde", "v: ~", 0},
		{"garbage", "v: abc", 0},
		{"inf", "v: .inf", 0},
		{"sequence", "v: [1, 2]", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				V ingest.Number `yaml:"v"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(tt.input), &out))
			assert.InDelta(t, tt.want, out.V.Float(), 1e-12)
		})
	}
}

func TestID_Unmarshal(t *testing.T) {
	var j struct {
		A ingest.ID `json:"a"`
		B ingest.ID `json:"b"`
		C ingest.ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "m1", "b": 1001, "c": null}`), &j))
	assert.Equal(t, ingest.ID("m1"), j.A)
	assert.Equal(t, ingest.ID("1001"), j.B)
	assert.Empty(t, j.C)

	var bad struct {
		A ingest.ID `json:"a"`
	}
	require.Error(t, json.Unmarshal([]byte(`{"a": {"x": 1}}`), &bad))

	var y struct {
		A ingest.ID `yaml:"a"`
		B ingest.ID `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: t1\nb: 42\n"), &y))
	assert.Equal(t, "t1", y.A.String())
	assert.Equal(t, "42", y.B.String())
}

func TestLegs_ObjectOrList(t *testing.T) {
	tests := []struct {
		name   string
		format ingest.Format
		input  string
		want   int
	}{
		{"json_object", ingest.FormatJSON, `{"product": {"downstreamTransport": {"weight": 1, "distance": 2, "vehicleId": "t1"}}}`, 1},
		{"json_list", ingest.FormatJSON, `{"product": {"downstreamTransport": [{"weight": 1}, {"weight": 2}]}}`, 2},
		{"json_null", ingest.FormatJSON, `{"product": {"downstreamTransport": null}}`, 0},
		{"yaml_object", ingest.FormatYAML, "product:\n  downstreamTransport:\n    weight: 1\n    vehicleId: t1\n", 1},
		{"yaml_list", ingest.FormatYAML, "product:\n  downstreamTransport:\n    - weight: 1\n    - weight: 2\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ingest.ParseDocument([]byte(tt.input), tt.format)
			require.NoError(t, err)
			require.NotNil(t, doc.Product)
			assert.Len(t, doc.Product.DownstreamTransport, tt.want)
		})
	}
}

const sampleYAML = `
year: 2024
contract:
  id: 7
  name: Office fit-out
  products:
    - id: desk
      name: Desk
      materials:
        - {id: steel, name: Steel frame, weight: "10", factorId: m1, useDb: true}
        - {name: Veneer, weight: 2, customFactor: 1.5}
      upstreamTransport:
        - {materialId: steel, weight: 10, distance: 100, vehicleId: t1}
      manufacturing:
        mode: totalAllocated
        electricityUsage: 5000
        totalOutput: 1000
      downstreamTransport:
        weight: 1000
        distance: 200
        vehicleId: t4
    - name: Installation
      year: 2022
      totalOverride: 42
labor:
  contractHours: 100
  totalCompanyHours: 2000
  totalEmissionsA: 10000
`

func TestParse_YAML(t *testing.T) {
	act, err := ingest.Parse(context.Background(), []byte(sampleYAML), ingest.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, 2024, act.Year)
	assert.Equal(t, "7", act.Contract.ID)
	assert.Equal(t, "Office fit-out", act.Contract.Name)
	require.Len(t, act.Contract.Products, 2)

	desk := act.Contract.Products[0]
	assert.Equal(t, "desk", desk.ID)
	assert.Equal(t, 2024, desk.Year)
	require.Len(t, desk.Materials, 2)
	assert.Equal(t, "steel", desk.Materials[0].ID)
	assert.InDelta(t, 10.0, desk.Materials[0].Weight, 1e-12)
	assert.True(t, desk.Materials[0].UseDB)
	assert.Equal(t, "desk-m2", desk.Materials[1].ID)
	assert.InDelta(t, 1.5, desk.Materials[1].CustomFactor, 1e-12)
	require.Len(t, desk.UpstreamTransport, 1)
	assert.Equal(t, "desk-u1", desk.UpstreamTransport[0].ID)
	assert.Equal(t, emissions.ManufacturingTotalAllocated, desk.Manufacturing.Mode)
	require.Len(t, desk.DownstreamTransport, 1)
	assert.Equal(t, "t4", desk.DownstreamTransport[0].VehicleID)

	install := act.Contract.Products[1]
	assert.Equal(t, "p2", install.ID)
	assert.Equal(t, 2022, install.Year)
	assert.True(t, install.IsOverridden())
	assert.Equal(t, emissions.ManufacturingPerUnit, install.Manufacturing.Mode)
	assert.InDelta(t, emissions.DefaultTotalOutput, install.Manufacturing.TotalOutput, 1e-12)
	assert.Empty(t, install.DownstreamTransport)

	require.NotNil(t, act.Labor)
	assert.Equal(t, emissions.LaborModeDirect, act.Labor.Mode)
	assert.InDelta(t, 100.0, act.Labor.ContractHours, 1e-12)
}

func TestParse_JSONTopLevelProducts(t *testing.T) {
	input := `{
		"products": [{"id": 1, "name": "A"}],
		"product": {"id": "solo", "name": "B", "hasFullData": true, "totalOverride": "12.5"},
		"labor": {"mode": "b", "elecUsage": "1000", "contractHours": 1, "totalCompanyHours": 4}
	}`
	act, err := ingest.Parse(context.Background(), []byte(input), ingest.FormatJSON)
	require.NoError(t, err)

	assert.Empty(t, act.Contract.ID)
	require.Len(t, act.Contract.Products, 2)
	assert.Equal(t, "1", act.Contract.Products[0].ID)
	assert.Equal(t, emissions.DefaultYear, act.Contract.Products[0].Year)
	assert.Equal(t, "solo", act.Contract.Products[1].ID)
	assert.InDelta(t, 12.5, act.Contract.Products[1].TotalOverride, 1e-12)

	require.NotNil(t, act.Labor)
	assert.Equal(t, emissions.LaborModeActivity, act.Labor.Mode)
	assert.InDelta(t, 1000.0, act.Labor.ElecUsage, 1e-12)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format ingest.Format
		input  string
		target error
	}{
		{"no_products", ingest.FormatYAML, "year: 2023\n", ingest.ErrNoProducts},
		{"bad_manufacturing_mode", ingest.FormatYAML, "product:\n  manufacturing:\n    mode: hourly\n", emissions.ErrUnknownManufacturingMode},
		{"bad_labor_mode", ingest.FormatYAML, "product: {}\nlabor:\n  mode: C\n", emissions.ErrUnknownLaborMode},
		{"unknown_format", ingest.Format("toml"), "x = 1", ingest.ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ingest.Parse(context.Background(), []byte(tt.input), tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := ingest.Parse(context.Background(), []byte("{not json"), ingest.FormatJSON)
	require.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, ingest.FormatJSON, ingest.DetectFormat("a.json", nil))
	assert.Equal(t, ingest.FormatYAML, ingest.DetectFormat("a.YML", nil))
	assert.Equal(t, ingest.FormatJSON, ingest.DetectFormat("a.txt", []byte("  {\"a\":1}")))
	assert.Equal(t, ingest.FormatYAML, ingest.DetectFormat("stdin", []byte("a: 1")))

	_, err := ingest.ParseFormat("xml")
	require.ErrorIs(t, err, ingest.ErrUnknownFormat)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	act, err := ingest.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, act.Contract.Products, 2)

	_, err = ingest.Load(context.Background(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading activity file")
}

func TestTemplate_RoundTrip(t *testing.T) {
	data, err := ingest.Template(2024)
	require.NoError(t, err)

	act, err := ingest.Parse(context.Background(), data, ingest.FormatYAML)
	require.NoError(t, err)

	want := emissions.NewProduct("p1", "New product", 2024)
	require.Len(t, act.Contract.Products, 1)
	got := act.Contract.Products[0]
	assert.Equal(t, want.Year, got.Year)
	assert.Equal(t, want.Manufacturing, got.Manufacturing)
	assert.Equal(t, want.DownstreamTransport, got.DownstreamTransport)
	require.NotNil(t, act.Labor)
	assert.Equal(t, emissions.LaborModeDirect, act.Labor.Mode)
}
