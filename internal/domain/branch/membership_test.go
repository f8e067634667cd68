package branch

import "testing"

func TestIsMember(t *testing.T) {
	cases := []struct {
		name     string
		ref      any
		branchID string
		want     bool
	}{
		{"plain string match", "B1", "B1", true},
		{"plain string mismatch", "B2", "B1", false},
		{"object with id field", map[string]any{"id": "B1", "name": "Merkez"}, "B1", true},
		{"object with other id", map[string]any{"id": "B2"}, "B1", false},
		{"object with non-string id", map[string]any{"id": 7}, "B1", false},
		{"legacy key map", map[string]any{"B1": true}, "B1", true},
		{"legacy key map miss", map[string]any{"B2": true}, "B1", false},
		{"nil ref", nil, "B1", false},
		{"empty branch id", "B1", "", false},
		{"unrecognized shape", []any{"B1"}, "B1", false},
		{"numeric ref", 42, "B1", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsMember(c.ref, c.branchID); got != c.want {
				t.Errorf("IsMember(%v, %q) = %v, want %v", c.ref, c.branchID, got, c.want)
			}
		})
	}
}
