package units

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockdesk/internal/metrics"
)

type memoryStore struct {
	units   map[string][]string
	saves   int
	saveErr error
	loadErr error
}

func (m *memoryStore) LoadUnits(_ context.Context, owner string) ([]string, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.units[owner], nil
}

func (m *memoryStore) SaveUnits(_ context.Context, owner string, units []string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.units == nil {
		m.units = map[string][]string{}
	}
	m.saves++
	m.units[owner] = units
	return nil
}

func TestLoadsInitialSet(t *testing.T) {
	store := &memoryStore{units: map[string][]string{"shop": {"pcs", "KG ", "pcs"}}}

	svc, err := NewService(context.Background(), store, "shop", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"pcs", "kg"}, svc.List().Units)
	assert.Empty(t, svc.List().Message)
}

func TestEmptySetCarriesMessage(t *testing.T) {
	svc, err := NewService(context.Background(), nil, "shop", nil, nil)
	require.NoError(t, err)

	assert.Empty(t, svc.List().Units)
	assert.Equal(t, EmptyMessage, svc.List().Message)
}

func TestAddPersistsOnlyEffectiveChanges(t *testing.T) {
	store := &memoryStore{}
	recorder := metrics.NewRecorder()
	svc, err := NewService(context.Background(), store, "shop", recorder, nil)
	require.NoError(t, err)

	res, err := svc.Add(context.Background(), "Box")
	require.NoError(t, err)
	assert.True(t, res.Changed)

	res, err = svc.Add(context.Background(), " box ")
	require.NoError(t, err)
	assert.False(t, res.Changed)

	res, err = svc.Add(context.Background(), "   ")
	require.NoError(t, err)
	assert.False(t, res.Changed)

	assert.Equal(t, 1, store.saves)
	assert.Equal(t, []string{"box"}, store.units["shop"])
	expected := `
# HELP stockdesk_unit_mutations_total Effective changes to the unit set
# TYPE stockdesk_unit_mutations_total counter
stockdesk_unit_mutations_total{action="add"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(recorder.Registry(), strings.NewReader(expected), "stockdesk_unit_mutations_total"))
}

func TestRemove(t *testing.T) {
	store := &memoryStore{units: map[string][]string{"shop": {"pcs", "kg"}}}
	svc, err := NewService(context.Background(), store, "shop", nil, nil)
	require.NoError(t, err)

	res, err := svc.Remove(context.Background(), "litre")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Zero(t, store.saves)

	res, err = svc.Remove(context.Background(), "pcs")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"kg"}, res.Units)
	assert.Equal(t, []string{"kg"}, store.units["shop"])
}

func TestFailedSaveKeepsPreviousSet(t *testing.T) {
	store := &memoryStore{units: map[string][]string{"shop": {"pcs"}}}
	svc, err := NewService(context.Background(), store, "shop", nil, nil)
	require.NoError(t, err)

	store.saveErr = errors.New("mongo down")
	_, err = svc.Add(context.Background(), "kg")
	assert.Error(t, err)
	assert.Equal(t, []string{"pcs"}, svc.List().Units)
}

func TestLoadFailure(t *testing.T) {
	_, err := NewService(context.Background(), &memoryStore{loadErr: errors.New("timeout")}, "shop", nil, nil)
	assert.ErrorContains(t, err, "failed to load unit set")
}

func TestReloadPicksUpStoredSet(t *testing.T) {
	store := &memoryStore{units: map[string][]string{"shop": {"pcs"}}}
	svc, err := NewService(context.Background(), store, "shop", nil, nil)
	require.NoError(t, err)

	store.units["shop"] = []string{"pcs", "Crate"}
	listing, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"pcs", "crate"}, listing.Units)
	assert.True(t, svc.Has(" CRATE"))
	assert.Zero(t, store.saves, "reload must not write back")

	store.loadErr = errors.New("timeout")
	_, err = svc.Reload(context.Background())
	assert.ErrorContains(t, err, "failed to reload unit set")
	assert.Equal(t, []string{"pcs", "crate"}, svc.List().Units)
}

func TestHasWithoutStore(t *testing.T) {
	svc, err := NewService(context.Background(), nil, "shop", nil, nil)
	require.NoError(t, err)
	assert.False(t, svc.Has("kg"))

	_, err = svc.Add(context.Background(), "kg")
	require.NoError(t, err)
	assert.True(t, svc.Has("KG"))

	listing, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"kg"}, listing.Units)
}
