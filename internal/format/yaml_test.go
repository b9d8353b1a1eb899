package format

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMarshalYAMLEmptyNull(t *testing.T) {
	inventory := map[string]any{
		"all": map[string]any{
			"hosts": MapSlice{{Key: "r1", Value: nil}},
		},
	}

	out, err := MarshalYAML(inventory, DefaultYAMLOptions())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "null")
	assert.Contains(t, string(out), "r1:")

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	hosts := decoded["all"].(map[string]any)["hosts"].(map[string]any)
	assert.Contains(t, hosts, "r1")
	assert.Nil(t, hosts["r1"])
}

func TestMarshalYAMLLiteralNull(t *testing.T) {
	out, err := MarshalYAML(map[string]any{"a": nil}, YAMLOptions{Indent: 2})
	require.NoError(t, err)
	assert.Equal(t, "a: null\n", string(out))
}

func TestMapSliceKeepsOrder(t *testing.T) {
	hosts := MapSlice{
		{Key: "zeta", Value: nil},
		{Key: "alpha", Value: nil},
		{Key: "mid", Value: nil},
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, hosts.Keys())

	out, err := MarshalYAML(hosts, DefaultYAMLOptions())
	require.NoError(t, err)

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &node))
	mapping := node.Content[0]
	var keys []string
	for i := 0; i < len(mapping.Content); i += 2 {
		keys = append(keys, mapping.Content[i].Value)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
}

func TestPlainMapsAreSorted(t *testing.T) {
	out, err := MarshalYAML(map[string]any{"b": "x", "a": "z"}, DefaultYAMLOptions())
	require.NoError(t, err)
	assert.Equal(t, "a: z\nb: x\n", string(out))
}

func TestExponentNumbersKeepFloatForm(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1e3", "1.0e+3"},
		{"1E3", "1.0E+3"},
		{"-2e-5", "-2.0e-5"},
		{"1.5e+10", "1.5e+10"},
		{"42", "42"},
		{"0.25", "0.25"},
	}
	for _, tt := range tests {
		out, err := MarshalYAML([]any{json.Number(tt.in)}, DefaultYAMLOptions())
		require.NoError(t, err)
		assert.Equal(t, "- "+tt.want+"\n", string(out), tt.in)
	}

	out, err := MarshalYAML(map[string]any{"rate": json.Number("1e3")}, DefaultYAMLOptions())
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, 1000.0, decoded["rate"])
}

func TestJSONNumbersAndQuoting(t *testing.T) {
	doc := map[string]any{
		"mtu":     json.Number("1500"),
		"ratio":   json.Number("0.25"),
		"big":     json.Number("18446744073709551615"),
		"version": "15.2",
		"shut":    "yes",
		"list":    []any{nil, "a"},
	}
	out, err := MarshalYAML(doc, DefaultYAMLOptions())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, 1500, decoded["mtu"])
	assert.Equal(t, 0.25, decoded["ratio"])
	assert.Equal(t, uint64(18446744073709551615), decoded["big"])
	assert.Equal(t, "15.2", decoded["version"])
	assert.Equal(t, "yes", decoded["shut"])
	assert.Equal(t, []any{nil, "a"}, decoded["list"])
}

func TestFallbackEncodingEmptiesNulls(t *testing.T) {
	type host struct {
		Vars map[string]*string `yaml:"vars"`
	}
	out, err := MarshalYAML(host{Vars: map[string]*string{"x": nil}}, DefaultYAMLOptions())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "null")
}

func TestMarshalFormats(t *testing.T) {
	data := map[string]any{"name": "r1"}

	b, err := Marshal(data, FORMAT_JSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "r1"}`, string(b))

	b, err = Marshal(data, FORMAT_YAML)
	require.NoError(t, err)
	assert.Equal(t, "name: r1\n", string(b))

	_, err = Marshal(data, FORMAT_LIST)
	assert.Error(t, err)

	var df DataFormat
	assert.NoError(t, df.Set("yaml"))
	assert.Equal(t, FORMAT_YAML, df)
	assert.Error(t, df.Set("xml"))
}
