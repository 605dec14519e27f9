package persistence

import "testing"

func TestStatementVerb(t *testing.T) {
	cases := []struct {
		sql  string
		want string
	}{
		{"SELECT id FROM accounts", "select"},
		{"\n\tDELETE FROM accounts", "delete"},
		{"update accounts SET handle = $2", "update"},
		{"INSERT INTO activities (id)", "insert"},
		{"", "unknown"},
	}

	for _, tc := range cases {
		if got := statementVerb(tc.sql); got != tc.want {
			t.Fatalf("statementVerb(%q) = %q, want %q", tc.sql, got, tc.want)
		}
	}
}
