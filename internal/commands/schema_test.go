package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFlagType(t *testing.T) {
	require.Equal(t, "integer", normalizeFlagType("int64"))
	require.Equal(t, "number", normalizeFlagType("float64"))
	require.Equal(t, "boolean", normalizeFlagType("bool"))
	require.Equal(t, "string", normalizeFlagType("duration"))
	require.Equal(t, "string", normalizeFlagType("string"))
}

func TestTypedFlagDefault(t *testing.T) {
	require.Equal(t, true, typedFlagDefault("bool", "true"))
	require.Equal(t, 42, typedFlagDefault("int", "42"))
	require.Equal(t, 2.5, typedFlagDefault("float64", "2.5"))
	require.Equal(t, "oops", typedFlagDefault("int", "oops"))
	require.Equal(t, "abc", typedFlagDefault("string", "abc"))
}

func TestIsRequiredFlag(t *testing.T) {
	reqByAnnotation := &pflag.Flag{Annotations: map[string][]string{cobra.BashCompOneRequiredFlag: {"true"}}}
	require.True(t, isRequiredFlag(reqByAnnotation))

	reqByUsage := &pflag.Flag{Usage: "Option name (required)"}
	require.True(t, isRequiredFlag(reqByUsage))

	notReq := &pflag.Flag{Usage: "optional flag"}
	require.False(t, isRequiredFlag(notReq))
}

func TestBuildCommandSchema_AddCommand(t *testing.T) {
	root := newRootCmd("test")
	add, _, err := root.Find([]string{"add"})
	require.NoError(t, err)

	schema := buildCommandSchema(add)
	require.Equal(t, "lunchpick add", schema.Command)
	require.True(t, schema.Mutates)

	props := schema.ArgsSchema["properties"].(map[string]interface{})
	require.Contains(t, props, "name")
	require.Contains(t, props, "distance")
	require.Contains(t, props, "db-path")

	distance := props["distance"].(map[string]interface{})
	require.Equal(t, "number", distance["type"])
	require.Equal(t, float64(0), distance["default"])

	required := schema.ArgsSchema["required"].([]string)
	require.Equal(t, []string{"name"}, required)
}

func TestCollectCommandSchemas_SkipsRootSchemaAndHidden(t *testing.T) {
	root := &cobra.Command{Use: "lunchpick"}
	noop := func(*cobra.Command, []string) error { return nil }
	schemaCmd := &cobra.Command{Use: "schema", RunE: noop}
	visible := &cobra.Command{Use: "pick", Short: "Pick", RunE: noop}
	hidden := &cobra.Command{Use: "secret", Hidden: true, RunE: noop}

	root.AddCommand(schemaCmd, visible, hidden)

	var out []commandArgSchema
	collectCommandSchemas(root, &out)

	require.Len(t, out, 1)
	require.Equal(t, "lunchpick pick", out[0].Command)
	require.False(t, out[0].Mutates)
}
