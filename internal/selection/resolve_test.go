package selection

import (
	"testing"

	"adbuild/internal/network"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T, ids ...string) *network.Catalog {
	t.Helper()
	c, err := network.NewCatalog(ids)
	require.NoError(t, err)
	return c
}

func TestResolve(t *testing.T) {
	abcd := testCatalog(t, "a", "b", "c", "d")

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "numeric", input: "2,4", want: []string{"b", "d"}},
		{name: "numeric with spaces", input: " 3 , 1 ", want: []string{"c", "a"}},
		{name: "out of range dropped", input: "0,2,9", want: []string{"b"}},
		{name: "duplicates kept", input: "2,2", want: []string{"b", "b"}},
		{name: "all", input: "all", want: []string{"a", "b", "c", "d"}},
		{name: "all mixed case", input: "ALL", want: []string{"a", "b", "c", "d"}},
		{name: "names catalog order", input: "C, A", want: []string{"a", "c"}},
		{name: "names dedupe", input: "b,b,B", want: []string{"b"}},
		{name: "mixed is names", input: "2,c", want: []string{"c"}},
		{name: "unknown names ignored", input: "x, d", want: []string{"d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(abcd, tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestResolve_NoSelection(t *testing.T) {
	abcd := testCatalog(t, "a", "b", "c", "d")

	for _, input := range []string{"", "0,5", "nope", " , ", "99999999999999999999"} {
		_, err := Resolve(abcd, input)
		assert.ErrorIs(t, err, ErrNoSelection, "input %q", input)
	}
}

func TestResolve_NumericLookingName(t *testing.T) {
	// Numeric parsing wins: "2" is position 2, not the network named "2".
	c := testCatalog(t, "2", "x")
	got, err := Resolve(c, "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got)
}

func TestResolve_DefaultCatalog(t *testing.T) {
	got, err := Resolve(network.DefaultCatalog(), "Facebook,google,UNITY")
	require.NoError(t, err)
	assert.Equal(t, []string{"facebook", "google", "unity"}, got)
}
