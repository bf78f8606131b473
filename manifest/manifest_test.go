package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullManifest(t *testing.T) {
	data := []byte(`
environments:
  - name: dev
    dir: environments/dev
  - name: prod
    dir: environments/prod
stacks:
  - name: VPC
    stack: stacks/vpc
    environments: [dev, prod]
  - name: ECS
    stack: stacks/ecs
    environments: [dev, prod]
    depends_on: [stacks/vpc]
`)

	m, err := Parse(data)
	require.NoError(t, err)

	require.Len(t, m.Environments, 2)
	assert.Equal(t, "dev", m.Environments[0].Name)
	assert.Equal(t, "environments/dev", m.Environments[0].Dir)
	assert.Equal(t, "prod", m.Environments[1].Name)

	require.Len(t, m.Stacks, 2)
	assert.Equal(t, "stacks/vpc", m.Stacks[0].Stack)
	assert.Equal(t, []string{"dev", "prod"}, m.Stacks[0].Environments)
	assert.Equal(t, []string{"stacks/vpc"}, m.Stacks[1].DependsOn)
	assert.False(t, m.Empty())
}

func TestParseEmptyManifest(t *testing.T) {
	for _, data := range []string{"", "environments: []\nstacks: []\n", "# nothing declared\n"} {
		m, err := Parse([]byte(data))
		require.NoError(t, err)
		assert.True(t, m.Empty())
		assert.Empty(t, m.Environments)
		assert.Empty(t, m.Stacks)
	}
}

func TestParsePreservesDeclarationOrder(t *testing.T) {
	data := []byte(`
environments:
  - name: zulu
    dir: environments/zulu
  - name: alpha
    dir: environments/alpha
`)

	m, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "zulu", m.Environments[0].Name)
	assert.Equal(t, "alpha", m.Environments[1].Name)
}

func TestParseStackKeyFallsBackToName(t *testing.T) {
	withPath := StackDecl{Name: "VPC", Stack: "stacks/vpc"}
	withoutPath := StackDecl{Name: "Monitoring"}

	assert.Equal(t, "stacks/vpc", withPath.Key())
	assert.Equal(t, "Monitoring", withoutPath.Key())
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("environments: [unclosed"))
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "yaml", parseErr.Section)
}

func TestParseRejectsInvalidDeclarations(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		section string
		reason  string
	}{
		{
			name:    "environment without name",
			data:    "environments:\n  - dir: environments/dev\n",
			section: "environments",
			reason:  "missing name",
		},
		{
			name:    "environment without dir",
			data:    "environments:\n  - name: dev\n",
			section: "environments",
			reason:  `environment "dev" is missing dir`,
		},
		{
			name:    "duplicate environment name",
			data:    "environments:\n  - name: dev\n    dir: a\n  - name: dev\n    dir: b\n",
			section: "environments",
			reason:  `duplicate environment name "dev"`,
		},
		{
			name:    "stack without name",
			data:    "stacks:\n  - stack: stacks/vpc\n",
			section: "stacks",
			reason:  "missing name",
		},
		{
			name:    "stack referencing undeclared environment",
			data:    "environments:\n  - name: dev\n    dir: a\nstacks:\n  - name: VPC\n    environments: [staging]\n",
			section: "stacks",
			reason:  `stack "VPC" references undeclared environment "staging"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			require.Error(t, err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tc.section, parseErr.Section)
			assert.Contains(t, parseErr.Reason, tc.reason)
		})
	}
}
