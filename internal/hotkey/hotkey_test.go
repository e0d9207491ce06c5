package hotkey

import "testing"

func TestDefaultComboIsCtrlShiftR(t *testing.T) {
	combo := DefaultCombo()
	want := []string{"ctrl", "shift", "r"}
	if len(combo) != len(want) {
		t.Fatalf("unexpected combo length: %v", combo)
	}
	for i := range want {
		if combo[i] != want[i] {
			t.Fatalf("unexpected combo: %v", combo)
		}
	}
}

func TestNewManagerStartsUnstarted(t *testing.T) {
	m := New(DefaultCombo())
	if m.started {
		t.Fatal("expected a freshly constructed Manager to not be started")
	}
}

func TestStopBeforeStartIsNoop(t *testing.T) {
	m := New(DefaultCombo())
	m.Stop() // must not panic when never started
}
