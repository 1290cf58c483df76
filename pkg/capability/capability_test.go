package capability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gatekit/gatekit/pkg/capability"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", nil},
		{"whitespace only", "   ", nil},
		{"single name", "search", []string{"search"}},
		{"multiple names", "search cart.add checkout", []string{"search", "cart.add", "checkout"}},
		{"extra whitespace", "  search   cart.add  ", []string{"search", "cart.add"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, capability.Parse(tt.input))
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", capability.Join(nil))
	assert.Equal(t, "search cart.add", capability.Join([]string{"search", "cart.add"}))
}

func TestMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cap     string
		pattern string
		want    bool
	}{
		{"direct match", "search", "search", true},
		{"no match", "checkout", "search", false},
		{"global wildcard", "anything", "*", true},
		{"namespace wildcard match", "cart.add", "cart.*", true},
		{"namespace wildcard nested", "cart.items.remove", "cart.*", true},
		{"namespace wildcard miss", "checkout", "cart.*", false},
		{"wildcard does not match bare prefix", "cart", "cart.*", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, capability.Matches(tt.cap, tt.pattern))
		})
	}
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	allow := []string{"search", "cart.*"}

	assert.True(t, capability.Allowed(allow, "search"))
	assert.True(t, capability.Allowed(allow, "cart.add"))
	assert.False(t, capability.Allowed(allow, "checkout"))
	assert.False(t, capability.Allowed(nil, "search"))
}

func TestAllowedAll(t *testing.T) {
	t.Parallel()

	assert.True(t, capability.AllowedAll([]string{"search"}, nil))
	assert.True(t, capability.AllowedAll([]string{"*"}, []string{"anything", "else"}))
	assert.True(t, capability.AllowedAll([]string{"search", "cart.*"}, []string{"search", "cart.add"}))
	assert.False(t, capability.AllowedAll([]string{"search"}, []string{"search", "checkout"}))
	assert.False(t, capability.AllowedAll(nil, []string{"search"}))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Nil(t, capability.Normalize(nil))
	assert.Equal(t,
		[]string{"cart.add", "search"},
		capability.Normalize([]string{"search", "cart.add", "search", " ", ""}),
	)
}
