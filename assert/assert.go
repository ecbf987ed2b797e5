package assert

import "github.com/mesa-game/mesa/oerror"

// IsTrue panics with a formatted MesaError if ok is false. It is used for contract violations that are
// programming errors rather than conditions a caller could recover from, such as ticking a simulation that
// has no component to move.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
