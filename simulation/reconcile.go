package simulation

import "github.com/mesa-game/mesa/game"

// Reconciler decides whether a predicted frame diverged far enough from the authority to need a correction.
type Reconciler struct {
	// ErrorTolerance is the largest per-axis location difference accepted without reconciling.
	ErrorTolerance float32
}

// DefaultReconciler ...
func DefaultReconciler() Reconciler {
	return Reconciler{ErrorTolerance: game.ErrorTolerance}
}

// ShouldReconcile returns true if the predicted sync state diverged from the authority's.
func (r Reconciler) ShouldReconcile(predicted, authority SyncState) bool {
	return predicted.ShouldReconcile(authority, r.ErrorTolerance)
}

// ShouldReconcileOutput compares both the sync and aux state of a predicted frame.
func (r Reconciler) ShouldReconcileOutput(predicted, authority Output) bool {
	return predicted.Sync.ShouldReconcile(authority.Sync, r.ErrorTolerance) ||
		predicted.Aux.ShouldReconcile(authority.Aux, r.ErrorTolerance)
}
