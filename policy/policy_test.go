package policy

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Kind
		err  bool
	}{
		{in: "lru", want: LRU},
		{in: "LFU", want: LFU},
		{in: " lfu ", want: LFU},
		{in: "2q", err: true},
		{in: "", err: true},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.err {
			assert.ErrorIs(t, err, ErrUnknownPolicy, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestKind_TextRoundTrip(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{LRU, LFU} {
		b, err := k.MarshalText()
		require.NoError(t, err)

		var got Kind
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, k, got)
	}

	_, err := Kind(7).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownPolicy)
	assert.Equal(t, "Kind(7)", Kind(7).String())
}

// Kind can be bound directly as a flag value.
func TestKind_Flag(t *testing.T) {
	t.Parallel()

	var k Kind
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&k, "policy", "eviction policy")
	require.NoError(t, fs.Parse([]string{"-policy", "lfu"}))
	assert.Equal(t, LFU, k)
}

func TestCheckCapacity(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, CheckCapacity(0), ErrInvalidCapacity)
	assert.ErrorIs(t, CheckCapacity(-3), ErrInvalidCapacity)
	assert.NoError(t, CheckCapacity(1))
	assert.NoError(t, CheckCapacity(MaxCapacity))
	assert.ErrorIs(t, CheckCapacity(MaxCapacity+1), ErrInvalidCapacity)
}
