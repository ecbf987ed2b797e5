package assert

import (
	"testing"

	"github.com/mesa-game/mesa/oerror"
)

func TestIsTruePanicsWithMesaError(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(*oerror.MesaError)
		if !ok {
			t.Fatalf("expected *oerror.MesaError panic, got %T", r)
		}
		if err.Error() != "mesa: missing component 3" {
			t.Fatalf("unexpected message %q", err.Error())
		}
	}()
	IsTrue(true, "never")
	IsTrue(false, "missing component %d", 3)
}
