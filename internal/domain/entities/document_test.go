package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicerhub/slicerhub/internal/domain/values"
)

var self = values.ConfigRef{Scope: values.ScopeSystem, Name: "test-config"}

func Test_ParseDocument_YAML(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`
metadata:
  author: someone
config:
  name: Generic PLA
  temperature: 210
  retraction:
    length: 0.8
`))
	require.NoError(t, err)

	assert.Equal(t, "someone", doc.Metadata["author"])
	assert.Equal(t, "Generic PLA", doc.Name())

	temp, ok := doc.Config.Get("temperature")
	require.True(t, ok)
	assert.Equal(t, KindScalar, temp.Kind())
}

func Test_ParseDocument_JSON(t *testing.T) {
	t.Parallel()

	// JSON is valid YAML; the same decoder handles both on-disk formats.
	doc, err := ParseDocument([]byte(`{"config": {"name": "MK4", "nozzle": 0.4}}`))
	require.NoError(t, err)
	assert.Equal(t, "MK4", doc.Name())
}

func Test_ParseDocument_RequiresConfigSection(t *testing.T) {
	t.Parallel()

	_, err := ParseDocument([]byte(`metadata: {author: x}`))
	assert.Error(t, err)
}

func Test_ParseDocument_Rejects_Garbage(t *testing.T) {
	t.Parallel()

	_, err := ParseDocument([]byte("config: [unclosed"))
	assert.Error(t, err)
}

func Test_Document_ParentRef_Defaults_To_SystemScope(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`config: {inherits: base-pla}`))
	require.NoError(t, err)

	ref, ok, err := doc.ParentRef(self)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, values.ConfigRef{Scope: values.ScopeSystem, Name: "base-pla"}, ref)
}

func Test_Document_ParentRef_ExplicitScope(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`config: {inherits: prusament, from: vendor}`))
	require.NoError(t, err)

	ref, ok, err := doc.ParentRef(self)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, values.ScopeVendor, ref.Scope)
}

func Test_Document_ParentRef_Root(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`config: {name: root}`))
	require.NoError(t, err)

	_, ok, err := doc.ParentRef(self)
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_Document_ParentRef_Malformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty inherits":      `config: {inherits: ""}`,
		"non-string inherits": `config: {inherits: [a, b]}`,
		"unknown scope":       `config: {inherits: x, from: global}`,
		"non-string from":     `config: {inherits: x, from: {scope: user}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			doc, err := ParseDocument([]byte(raw))
			require.NoError(t, err)

			_, _, err = doc.ParentRef(self)
			var invalid *InvalidInheritanceError
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func Test_Document_Instantiable(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		`config: {name: x}`:                       true,
		`config: {instantiation: true}`:           true,
		`config: {instantiation: false}`:          false,
		`config: {instantiation: "false"}`:        false,
		`config: {instantiation: "0"}`:            false,
		`config: {instantiation: "yes, please"}`:  true,
		`config: {instantiation: [not, a, bool]}`: true,
	}
	for raw, want := range cases {
		doc, err := ParseDocument([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, want, doc.Instantiable(), "input %s", raw)
	}
}
