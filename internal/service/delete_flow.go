package service

import "fmt"

// DeleteAllConfirmation carries the two answers required to wipe the product list
type DeleteAllConfirmation struct {
	Confirmed      bool
	ConfirmedTwice bool
}

// DeleteAllState is the step of a delete-all dialog
type DeleteAllState int

const (
	DeleteAllIdle DeleteAllState = iota
	DeleteAllPendingConfirm
	DeleteAllPendingFinalConfirm
	DeleteAllExecuted
)

func (s DeleteAllState) String() string {
	switch s {
	case DeleteAllIdle:
		return "idle"
	case DeleteAllPendingConfirm:
		return "pending_confirm"
	case DeleteAllPendingFinalConfirm:
		return "pending_final_confirm"
	case DeleteAllExecuted:
		return "executed"
	default:
		return "unknown"
	}
}

// DeleteAllFlow walks the user through both confirmations
//
//	Idle -> PendingConfirm -> PendingFinalConfirm -> Executed
//
// Cancel returns to Idle from any step.
type DeleteAllFlow struct {
	state DeleteAllState
	count int64
}

// Start opens the dialog for count products. With nothing to delete it stays Idle.
func (f *DeleteAllFlow) Start(count int64) bool {
	f.count = count
	if count <= 0 {
		f.state = DeleteAllIdle
		return false
	}
	f.state = DeleteAllPendingConfirm
	return true
}

// Confirm answers the current prompt. It reports true once the second
// confirmation is given and the returned value can be passed to DeleteAll.
func (f *DeleteAllFlow) Confirm() (DeleteAllConfirmation, bool) {
	switch f.state {
	case DeleteAllPendingConfirm:
		f.state = DeleteAllPendingFinalConfirm
		return DeleteAllConfirmation{Confirmed: true}, false
	case DeleteAllPendingFinalConfirm:
		f.state = DeleteAllExecuted
		return DeleteAllConfirmation{Confirmed: true, ConfirmedTwice: true}, true
	}
	return DeleteAllConfirmation{}, false
}

// Cancel abandons the dialog
func (f *DeleteAllFlow) Cancel() {
	f.state = DeleteAllIdle
}

// Reset returns an executed flow to Idle
func (f *DeleteAllFlow) Reset() {
	f.state = DeleteAllIdle
	f.count = 0
}

// State returns the current step
func (f *DeleteAllFlow) State() DeleteAllState {
	return f.state
}

// Prompt is the question shown for the current step
func (f *DeleteAllFlow) Prompt() string {
	switch f.state {
	case DeleteAllPendingConfirm:
		return pluralPrompt(f.count)
	case DeleteAllPendingFinalConfirm:
		return "This will permanently delete ALL products. Are you absolutely sure?"
	}
	return ""
}

func pluralPrompt(n int64) string {
	if n == 1 {
		return "Are you sure you want to delete 1 product? This action cannot be undone!"
	}
	return fmt.Sprintf("Are you sure you want to delete all %d products? This action cannot be undone!", n)
}
