package shipnames

import "testing"

func TestDefault(t *testing.T) {
	t.Parallel()

	resolve := Default()

	if got := resolve(587); got != "Rifter" {
		t.Errorf("resolve(587) = %q, want Rifter", got)
	}
	if got := resolve(CapsuleTypeID); got != "Capsule" {
		t.Errorf("resolve(%d) = %q, want Capsule", CapsuleTypeID, got)
	}
	if got := resolve(999999999); got != "Ship_999999999" {
		t.Errorf("resolve(999999999) = %q, want Ship_999999999", got)
	}
}
