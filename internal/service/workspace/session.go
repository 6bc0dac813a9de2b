package workspace

import (
	"errors"
	"sync"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/domain/stock"
)

// ErrSubmissionInProgress indicates the user already has a mutating request in flight.
var ErrSubmissionInProgress = errors.New("a submission is already in progress")

// Action names a screen that can submit changes.
type Action string

const (
	ActionStockEdit  Action = "stock-edit"
	ActionBulkUpdate Action = "bulk-update"
	ActionUnits      Action = "units"
	ActionProduct    Action = "product-edit"
)

// Workspace is the dashboard state of one user.
type Workspace struct {
	Selection      stock.Selection
	Items          []models.BulkAdjustmentItem
	QuickOperation models.Operation
	QuickQty       int
	submitting     map[Action]bool
}

// Snapshot is a read-only copy of a workspace.
type Snapshot struct {
	Selected       []string                    `json:"selected"`
	Items          []models.BulkAdjustmentItem `json:"items"`
	QuickOperation models.Operation            `json:"quickOperation"`
	QuickQty       int                         `json:"quickQty"`
}

// SessionManager holds one workspace per user.
type SessionManager struct {
	sessions map[string]*Workspace
	mu       sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Workspace),
	}
}

func newWorkspace() *Workspace {
	return &Workspace{QuickOperation: models.OperationAdd, submitting: make(map[Action]bool)}
}

// GetSession returns a copy of the user's workspace.
func (sm *SessionManager) GetSession(userID string) Snapshot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	ws, exists := sm.sessions[userID]
	if !exists {
		ws = newWorkspace()
	}
	return snapshot(ws)
}

// Update applies fn to the user's workspace under the lock and returns the result.
func (sm *SessionManager) Update(userID string, fn func(*Workspace) error) (Snapshot, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	ws, exists := sm.sessions[userID]
	if !exists {
		ws = newWorkspace()
		sm.sessions[userID] = ws
	}
	if err := fn(ws); err != nil {
		return snapshot(ws), err
	}
	return snapshot(ws), nil
}

// ToggleItem flips one id in the selection.
func (sm *SessionManager) ToggleItem(userID, id string) Snapshot {
	s, _ := sm.Update(userID, func(ws *Workspace) error {
		ws.Selection = ws.Selection.Toggle(id)
		return nil
	})
	return s
}

// ToggleAll applies select-all against the currently filtered ids.
func (sm *SessionManager) ToggleAll(userID string, filtered []string) Snapshot {
	s, _ := sm.Update(userID, func(ws *Workspace) error {
		ws.Selection = ws.Selection.ToggleAll(filtered)
		return nil
	})
	return s
}

// SetItems replaces the bulk items, typically after loading the selection.
func (sm *SessionManager) SetItems(userID string, records []models.InventoryRecord) (Snapshot, error) {
	return sm.Update(userID, func(ws *Workspace) error {
		if ws.submitting[ActionBulkUpdate] {
			return ErrSubmissionInProgress
		}
		ws.Items = stock.NewBulkItems(records)
		return nil
	})
}

// ApplyQuickFill overwrites every bulk item's change with qty in direction op.
func (sm *SessionManager) ApplyQuickFill(userID string, op models.Operation, qty int) (Snapshot, error) {
	return sm.Update(userID, func(ws *Workspace) error {
		if ws.submitting[ActionBulkUpdate] {
			return ErrSubmissionInProgress
		}
		ws.QuickOperation = op
		ws.QuickQty = qty
		ws.Items = stock.ApplyQuickFillOperation(ws.Items, op, qty)
		return nil
	})
}

// UpdateItemField overrides one field of one bulk item.
func (sm *SessionManager) UpdateItemField(userID, id string, field stock.ItemField, value string) (Snapshot, error) {
	return sm.Update(userID, func(ws *Workspace) error {
		if ws.submitting[ActionBulkUpdate] {
			return ErrSubmissionInProgress
		}
		items, err := stock.UpdateItemField(ws.Items, id, field, value)
		if err != nil {
			return err
		}
		ws.Items = items
		return nil
	})
}

// BeginSubmit marks action as in flight for the user. It fails when the same
// action is already running.
func (sm *SessionManager) BeginSubmit(userID string, action Action) error {
	_, err := sm.Update(userID, func(ws *Workspace) error {
		if ws.submitting[action] {
			return ErrSubmissionInProgress
		}
		ws.submitting[action] = true
		return nil
	})
	return err
}

// EndSubmit clears the in-flight mark of action.
func (sm *SessionManager) EndSubmit(userID string, action Action) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if ws, exists := sm.sessions[userID]; exists {
		delete(ws.submitting, action)
	}
}

// ClearBulk drops the selection and the bulk items after a successful submission.
func (sm *SessionManager) ClearBulk(userID string) {
	_, _ = sm.Update(userID, func(ws *Workspace) error {
		ws.Selection = stock.Selection{}
		ws.Items = nil
		ws.QuickOperation = models.OperationAdd
		ws.QuickQty = 0
		return nil
	})
}

// ClearSession removes a user's workspace. It fails while any submission of
// the user is in flight.
func (sm *SessionManager) ClearSession(userID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	ws, exists := sm.sessions[userID]
	if !exists {
		return nil
	}
	if len(ws.submitting) > 0 {
		return ErrSubmissionInProgress
	}
	delete(sm.sessions, userID)
	return nil
}

func snapshot(ws *Workspace) Snapshot {
	items := make([]models.BulkAdjustmentItem, len(ws.Items))
	copy(items, ws.Items)
	return Snapshot{
		Selected:       ws.Selection.IDs(),
		Items:          items,
		QuickOperation: ws.QuickOperation,
		QuickQty:       ws.QuickQty,
	}
}
