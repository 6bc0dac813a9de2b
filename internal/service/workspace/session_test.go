package workspace

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/domain/stock"
)

func TestSelectionIsPerUser(t *testing.T) {
	sm := NewSessionManager()

	sm.ToggleItem("alice", "a")
	sm.ToggleItem("bob", "b")

	assert.Equal(t, []string{"a"}, sm.GetSession("alice").Selected)
	assert.Equal(t, []string{"b"}, sm.GetSession("bob").Selected)
	assert.Empty(t, sm.GetSession("carol").Selected)
}

func TestToggleAllRoundTrip(t *testing.T) {
	sm := NewSessionManager()
	ids := []string{"a", "b", "c"}

	assert.Equal(t, ids, sm.ToggleAll("u", ids).Selected)
	assert.Empty(t, sm.ToggleAll("u", ids).Selected)
}

func TestQuickFillAndOverride(t *testing.T) {
	sm := NewSessionManager()
	sm.SetItems("u", []models.InventoryRecord{
		{ID: "a", Quantity: 1},
		{ID: "b", Quantity: 2},
	})

	s, err := sm.UpdateItemField("u", "a", stock.FieldChangeQty, "9")
	require.NoError(t, err)
	assert.Equal(t, 9, s.Items[0].ChangeQty)

	s, err = sm.ApplyQuickFill("u", models.OperationAdd, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Items[0].ChangeQty)
	assert.Equal(t, 4, s.Items[1].ChangeQty)
	assert.Equal(t, 4, s.QuickQty)

	_, err = sm.UpdateItemField("u", "a", stock.ItemField("bogus"), "1")
	assert.ErrorIs(t, err, stock.ErrInvalidField)
	assert.Equal(t, 4, sm.GetSession("u").Items[0].ChangeQty)
}

func TestSubmitGate(t *testing.T) {
	sm := NewSessionManager()

	require.NoError(t, sm.BeginSubmit("u", ActionBulkUpdate))
	assert.ErrorIs(t, sm.BeginSubmit("u", ActionBulkUpdate), ErrSubmissionInProgress)
	assert.NoError(t, sm.BeginSubmit("u", ActionStockEdit), "other screens are independent")
	assert.NoError(t, sm.BeginSubmit("v", ActionBulkUpdate), "other users are independent")

	sm.EndSubmit("u", ActionBulkUpdate)
	assert.NoError(t, sm.BeginSubmit("u", ActionBulkUpdate))
}

func TestSubmitGateUnderContention(t *testing.T) {
	sm := NewSessionManager()
	var won atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sm.BeginSubmit("u", ActionBulkUpdate) == nil {
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), won.Load())
}

func TestBulkEditsRejectedWhileSubmitting(t *testing.T) {
	sm := NewSessionManager()
	_, err := sm.SetItems("u", []models.InventoryRecord{{ID: "a", Quantity: 1}})
	require.NoError(t, err)
	require.NoError(t, sm.BeginSubmit("u", ActionBulkUpdate))

	_, err = sm.UpdateItemField("u", "a", stock.FieldChangeQty, "99")
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	_, err = sm.ApplyQuickFill("u", models.OperationAdd, 5)
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	_, err = sm.SetItems("u", []models.InventoryRecord{{ID: "b"}})
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	s := sm.GetSession("u")
	require.Len(t, s.Items, 1)
	assert.Equal(t, "a", s.Items[0].ID)
	assert.Zero(t, s.Items[0].ChangeQty)

	_, err = sm.UpdateItemField("v", "a", stock.FieldChangeQty, "1")
	assert.NoError(t, err, "other users are independent")

	sm.EndSubmit("u", ActionBulkUpdate)
	s, err = sm.UpdateItemField("u", "a", stock.FieldChangeQty, "99")
	require.NoError(t, err)
	assert.Equal(t, 99, s.Items[0].ChangeQty)
}

func TestStockEditDoesNotLockBulkItems(t *testing.T) {
	sm := NewSessionManager()
	_, err := sm.SetItems("u", []models.InventoryRecord{{ID: "a"}})
	require.NoError(t, err)
	require.NoError(t, sm.BeginSubmit("u", ActionStockEdit))

	_, err = sm.UpdateItemField("u", "a", stock.FieldChangeQty, "2")
	assert.NoError(t, err)
}

func TestClearSession(t *testing.T) {
	sm := NewSessionManager()
	sm.ToggleItem("u", "a")
	require.NoError(t, sm.BeginSubmit("u", ActionUnits))

	assert.ErrorIs(t, sm.ClearSession("u"), ErrSubmissionInProgress)
	assert.Equal(t, []string{"a"}, sm.GetSession("u").Selected)

	sm.EndSubmit("u", ActionUnits)
	require.NoError(t, sm.ClearSession("u"))
	assert.Empty(t, sm.GetSession("u").Selected)
	assert.NoError(t, sm.ClearSession("nobody"))
}

func TestClearBulk(t *testing.T) {
	sm := NewSessionManager()
	sm.ToggleItem("u", "a")
	sm.SetItems("u", []models.InventoryRecord{{ID: "a"}})
	sm.ApplyQuickFill("u", models.OperationReduce, 3)

	sm.ClearBulk("u")
	s := sm.GetSession("u")
	assert.Empty(t, s.Selected)
	assert.Empty(t, s.Items)
	assert.Equal(t, models.OperationAdd, s.QuickOperation)
}

func TestSnapshotIsACopy(t *testing.T) {
	sm := NewSessionManager()
	sm.SetItems("u", []models.InventoryRecord{{ID: "a"}})

	s := sm.GetSession("u")
	s.Items[0].ChangeQty = 100

	assert.Zero(t, sm.GetSession("u").Items[0].ChangeQty)
}
