package values

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DigestBytes_CanonicalForm(t *testing.T) {
	t.Parallel()

	d := DigestBytes([]byte("hello"))
	assert.True(t, strings.HasPrefix(d.String(), "sha256:"))
	assert.Len(t, d.String(), len("sha256:")+64)

	// Same input, same digest; different input, different digest.
	assert.True(t, d.Equals(DigestBytes([]byte("hello"))))
	assert.False(t, d.Equals(DigestBytes([]byte("hello!"))))
}

func Test_ParseDigest_RoundTrip(t *testing.T) {
	t.Parallel()

	original := DigestBytes([]byte("content"))
	parsed, err := ParseDigest(original.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equals(original))
}

func Test_ParseDigest_Rejects_Malformed(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"deadbeef",
		"md5:abc",
		"sha256:tooshort",
		"sha256:" + strings.Repeat("g", 64), // not hex
	}
	for _, c := range cases {
		_, err := ParseDigest(c)
		assert.Error(t, err, "input %q", c)
	}
}

func Test_Version_Bump(t *testing.T) {
	t.Parallel()

	v, err := ParseVersion("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "1.2.4", v.Bump(BumpPatch).String())
	assert.Equal(t, "1.3.0", v.Bump(BumpMinor).String())
	assert.Equal(t, "2.0.0", v.Bump(BumpMajor).String())

	// Bumping never mutates the receiver.
	assert.Equal(t, "1.2.3", v.String())
}

func Test_Version_BumpStrictlyIncreases(t *testing.T) {
	t.Parallel()

	v := InitialVersion()
	assert.Equal(t, "0.1.0", v.String())
	for _, kind := range []BumpKind{BumpPatch, BumpMinor, BumpMajor} {
		next := v.Bump(kind)
		assert.True(t, next.GreaterThan(v), "bump %s", kind)
	}
}

func Test_ParseVersion_Rejects_LooseForms(t *testing.T) {
	t.Parallel()

	for _, c := range []string{"", "1", "1.2", "v1.2.3", "1.2.3.4", "latest"} {
		_, err := ParseVersion(c)
		assert.Error(t, err, "input %q", c)
	}
}

func Test_ParseBumpKind(t *testing.T) {
	t.Parallel()

	for _, c := range []string{"major", "minor", "patch"} {
		kind, err := ParseBumpKind(c)
		require.NoError(t, err)
		assert.Equal(t, BumpKind(c), kind)
	}
	_, err := ParseBumpKind("huge")
	assert.Error(t, err)
}

func Test_ParseScope(t *testing.T) {
	t.Parallel()

	for _, c := range []string{"system", "vendor", "user"} {
		scope, err := ParseScope(c)
		require.NoError(t, err)
		assert.Equal(t, Scope(c), scope)
	}
	_, err := ParseScope("global")
	assert.Error(t, err)
}

func Test_ConfigRef_String_RoundTrip(t *testing.T) {
	t.Parallel()

	ref := ConfigRef{Scope: ScopeVendor, Name: "prusament-pla"}
	assert.Equal(t, "vendor/prusament-pla", ref.String())

	parsed, err := ParseConfigRef(ref.String())
	require.NoError(t, err)
	assert.Equal(t, ref, parsed)
}

func Test_ConfigRef_BareNameWithoutScope(t *testing.T) {
	t.Parallel()

	// Path-addressed targets have no scope.
	ref := ConfigRef{Name: "base/generic-pla.json"}
	assert.Equal(t, "base/generic-pla.json", ref.String())
}

func Test_ParseConfigRef_Rejects_Malformed(t *testing.T) {
	t.Parallel()

	for _, c := range []string{"", "noslash", "global/name", "system/"} {
		_, err := ParseConfigRef(c)
		assert.Error(t, err, "input %q", c)
	}
}
