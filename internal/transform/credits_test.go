package transform

import "testing"

func creditRow(id, cast, crew string) *Row {
	r := GetRow(len(CreditColumns))
	r.V[CreditID] = id
	r.V[CreditCast] = cast
	r.V[CreditCrew] = crew
	return r
}

func TestNormalizeCredit_CoverageCountsBothLists(t *testing.T) {
	r := creditRow("862",
		`[{'name': 'Tom Hanks'}, {'name': 'Tim Allen'}]`,
		`[{'name': 'John Lasseter', 'job': 'Director'}]`)
	o := NormalizeCredit(r)
	if o.Disp != Keep {
		t.Fatalf("expected keep, got %v (%s)", o.Disp, o.Reason)
	}
	if o.Key != 862 {
		t.Fatalf("key = %d, want 862", o.Key)
	}
	if o.Coverage != 3 {
		t.Fatalf("coverage = %d, want 3", o.Coverage)
	}
}

func TestNormalizeCredit_UnparsableListsBecomeEmpty(t *testing.T) {
	r := creditRow("10", "not a list", "")
	o := NormalizeCredit(r)
	if o.Disp != Keep {
		t.Fatalf("expected keep, got %v (%s)", o.Disp, o.Reason)
	}
	if o.Coverage != 0 {
		t.Fatalf("coverage = %d, want 0", o.Coverage)
	}
	if r.V[CreditCast] != "[]" || r.V[CreditCrew] != "[]" {
		t.Fatalf("lists not canonicalized: cast=%q crew=%q", r.V[CreditCast], r.V[CreditCrew])
	}
}

func TestNormalizeCredit_BadID(t *testing.T) {
	o := NormalizeCredit(creditRow("", "[]", "[]"))
	if o.Disp != Drop || o.Reason != "credits_id_non_numeric" {
		t.Fatalf("got (%v, %s)", o.Disp, o.Reason)
	}
}
