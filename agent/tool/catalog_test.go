package tool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogCoversEveryTool(t *testing.T) {
	t.Parallel()

	catalog := Catalog()
	require.Len(t, catalog, len(orderedNames()))
	for _, name := range orderedNames() {
		spec, ok := catalog[name]
		require.True(t, ok, "tool %s missing from catalog", name)
		require.Equal(t, name, spec.Name)
		require.NotEmpty(t, spec.Desc)
	}
}

func TestCatalogRoutingMetadata(t *testing.T) {
	t.Parallel()

	for name, spec := range Catalog() {
		if name == ToolReportCardLost {
			// Fan-out tool; routing lives in the executor.
			require.Empty(t, spec.Service)
			continue
		}
		require.NotEmpty(t, spec.Service, "tool %s has no target service", name)
		require.NotEmpty(t, spec.Operation, "tool %s has no target operation", name)
	}
}

func TestIdentityToolsAreNeverSensitive(t *testing.T) {
	t.Parallel()

	for name, spec := range Catalog() {
		if spec.Identity {
			require.False(t, spec.Sensitive, "identity tool %s must bypass the verification gate", name)
			require.False(t, spec.NeedsConfirm, "identity tool %s must not be confirm gated", name)
		}
	}
}

func TestInfosMatchCatalogSchemas(t *testing.T) {
	t.Parallel()

	catalog := Catalog()
	infos := Infos()
	require.Len(t, infos, len(catalog))

	seen := map[string]bool{}
	for _, info := range infos {
		spec, ok := catalog[info.Name]
		require.True(t, ok, "schema published for unknown tool %s", info.Name)
		require.False(t, seen[info.Name], "tool %s published twice", info.Name)
		seen[info.Name] = true

		require.Equal(t, spec.Desc, info.Desc)
		if len(spec.Args) > 0 {
			require.NotNil(t, info.ParamsOneOf, "tool %s declares args but no schema", info.Name)
		}
	}
}
