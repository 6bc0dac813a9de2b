package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitSetAddNormalizesAndDedups(t *testing.T) {
	set, changed := NewUnitSet().Add("Box")
	assert.True(t, changed)

	set, changed = set.Add("box")
	assert.False(t, changed)
	assert.Equal(t, []string{"box"}, set.Units())

	set, changed = set.Add("  KG ")
	assert.True(t, changed)
	assert.Equal(t, []string{"box", "kg"}, set.Units())
}

func TestUnitSetRejectsBlank(t *testing.T) {
	set := NewUnitSet("pcs")
	next, changed := set.Add("   ")
	assert.False(t, changed)
	assert.Equal(t, set.Units(), next.Units())
}

func TestUnitSetRemove(t *testing.T) {
	set := NewUnitSet("pcs", "kg", "PCS")
	assert.Equal(t, []string{"pcs", "kg"}, set.Units())

	next, changed := set.Remove("box")
	assert.False(t, changed)
	assert.Equal(t, set.Units(), next.Units())

	next, changed = set.Remove("pcs")
	assert.True(t, changed)
	assert.Equal(t, []string{"kg"}, next.Units())
	assert.Equal(t, []string{"pcs", "kg"}, set.Units(), "receiver must not be mutated")
}

func TestUnitManagerNotifiesOnlyOnChange(t *testing.T) {
	ctx := context.Background()
	var calls [][]string
	m := NewUnitManager([]string{"pcs"}, func(_ context.Context, units []string) error {
		calls = append(calls, units)
		return nil
	})

	changed, err := m.Add(ctx, "Dozen")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = m.Add(ctx, "dozen")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = m.Remove(ctx, "litre")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = m.Remove(ctx, "pcs")
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, [][]string{{"pcs", "dozen"}, {"dozen"}}, calls)
	assert.Equal(t, []string{"dozen"}, m.Units())
}

func TestUnitManagerKeepsSetWhenSubscriberFails(t *testing.T) {
	boom := errors.New("store down")
	m := NewUnitManager([]string{"pcs"}, func(context.Context, []string) error { return boom })

	changed, err := m.Add(context.Background(), "kg")
	assert.ErrorIs(t, err, boom)
	assert.False(t, changed)
	assert.Equal(t, []string{"pcs"}, m.Units())
}

func TestUnitManagerReplaceDoesNotNotify(t *testing.T) {
	notified := false
	m := NewUnitManager(nil, func(context.Context, []string) error {
		notified = true
		return nil
	})
	m.Replace([]string{"KG", "kg", "box"})

	assert.False(t, notified)
	assert.Equal(t, []string{"kg", "box"}, m.Units())
	assert.True(t, m.Contains("Box"))
	assert.False(t, m.Contains("pcs"))
}
