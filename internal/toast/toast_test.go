package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStyles(t *testing.T) {
	cases := []struct {
		kind  Kind
		class string
		icon  string
	}{
		{KindError, "bg-error-light border-error-dark text-error-dark", "circle-alert"},
		{KindInfo, "bg-primary-light border-primary-dark text-primary-dark", "info"},
		{KindSuccess, "bg-success-light border-success-dark text-success-dark", "circle-check"},
		{KindWarning, "bg-warning-light border-warning-dark text-warning-dark", "triangle-alert"},
		{Kind("bogus"), "", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.class, tc.kind.Class(), string(tc.kind))
		assert.Equal(t, tc.icon, tc.kind.Icon(), string(tc.kind))
	}
}

func TestParseKindDefaultsToInfo(t *testing.T) {
	assert.Equal(t, KindError, ParseKind(" ERROR "))
	assert.Equal(t, KindInfo, ParseKind(""))
	assert.Equal(t, KindInfo, ParseKind("fatal"))
}

func TestDrainDropsExpiredAndClears(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	now := base
	q := NewQueue(0)
	q.now = func() time.Time { return now }

	q.Push(KindError, "user not registered")
	now = base.Add(2 * time.Second)
	q.Push("", "saved")
	q.Push(KindInfo, "   ")
	require.Equal(t, 2, q.Len())

	got := q.Drain(base.Add(3 * time.Second))
	require.Len(t, got, 1)
	assert.Equal(t, "saved", got[0].Message)
	assert.Equal(t, KindInfo, got[0].Kind)
	assert.Equal(t, int64(1500), got[0].RemainingMs(base.Add(3*time.Second)))

	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain(base))
}
