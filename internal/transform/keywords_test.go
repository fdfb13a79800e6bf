package transform

import (
	"reflect"
	"testing"
)

func keywordRow(id, list string) *Row {
	r := GetRow(len(KeywordColumns))
	r.V[KeywordID] = id
	r.V[KeywordList] = list
	return r
}

func TestNormalizeKeyword_FoldsAndTrims(t *testing.T) {
	r := keywordRow("862", `[{'id': 931, 'name': '  Jealousy '}, {'id': 4290, 'name': 'TOY'}]`)
	o := NormalizeKeyword(r)
	if o.Disp != Keep || o.Key != 862 {
		t.Fatalf("got (%v, %s, key=%d)", o.Disp, o.Reason, o.Key)
	}
	if !reflect.DeepEqual(o.Names, []string{"jealousy", "toy"}) {
		t.Fatalf("names = %v", o.Names)
	}
	want := `[{"id":931,"name":"jealousy"},{"id":4290,"name":"toy"}]`
	if r.V[KeywordList] != want {
		t.Fatalf("list = %q, want %q", r.V[KeywordList], want)
	}
}

func TestNormalizeKeyword_DiscardsNamelessEntries(t *testing.T) {
	r := keywordRow("10", `[{'id': 1}, {'name': '   '}, {'name': 'robot'}, 42]`)
	o := NormalizeKeyword(r)
	if o.Disp != Keep {
		t.Fatalf("got (%v, %s)", o.Disp, o.Reason)
	}
	if !reflect.DeepEqual(o.Names, []string{"robot"}) {
		t.Fatalf("names = %v", o.Names)
	}
}

func TestNormalizeKeyword_EmptyListSurvives(t *testing.T) {
	r := keywordRow("10", "[]")
	o := NormalizeKeyword(r)
	if o.Disp != Keep {
		t.Fatalf("got (%v, %s)", o.Disp, o.Reason)
	}
	if len(o.Names) != 0 {
		t.Fatalf("names = %v", o.Names)
	}
	if r.V[KeywordList] != "[]" {
		t.Fatalf("list = %q", r.V[KeywordList])
	}
}

func TestNormalizeKeyword_BadID(t *testing.T) {
	o := NormalizeKeyword(keywordRow("nan", "[]"))
	if o.Disp != Drop || o.Reason != "keywords_id_non_numeric" {
		t.Fatalf("got (%v, %s)", o.Disp, o.Reason)
	}
}
