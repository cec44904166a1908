package ticket

import "testing"

func TestLabel(t *testing.T) {
	tk := Ticket{Number: 1234, Name: "Fix login"}
	if got := tk.Label(); got != "1234 - Fix login" {
		t.Errorf("Label() = %q, want %q", got, "1234 - Fix login")
	}
}

func TestQueryString(t *testing.T) {
	t.Run("Lookup", func(t *testing.T) {
		q := Query{Number: 42, Assignee: "ignored"}
		if got := q.String(); got != "number=42" {
			t.Errorf("String() = %q, want %q", got, "number=42")
		}
	})

	t.Run("Filter", func(t *testing.T) {
		q := Query{CurrentCycle: true, Assignee: "u1", States: []string{"Daily", "Priorisé"}}
		want := "cycle=current assignee=u1 state in [Daily, Priorisé]"
		if got := q.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})
}
