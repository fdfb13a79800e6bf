package transform

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"moviesetl/internal/parser/jsonish"
)

// Keyword column order ("id" is the movie id).
var KeywordColumns = []string{"id", "keywords"}

const (
	KeywordID = iota
	KeywordList
)

// ExplodedKeywordColumns is the flattened one-row-per-(movie, keyword) form.
var ExplodedKeywordColumns = []string{"movie_id", "keyword"}

// KeywordOutcome carries the normalized keyword names so the pipeline can
// produce the exploded file without re-parsing.
type KeywordOutcome struct {
	Outcome
	Names []string
}

// NormalizeKeyword coerces the movie id and rewrites the keyword list with
// trimmed, case-folded names. Entries lacking a name, or empty after trim,
// are discarded from the list; the row itself survives with an empty list.
func NormalizeKeyword(r *Row) KeywordOutcome {
	id, ok := ParseID(r.V[KeywordID])
	if !ok {
		return KeywordOutcome{Outcome: dropped("keywords_id_non_numeric")}
	}
	r.V[KeywordID] = FormatID(id)

	// cases.Caser is stateful, so build one per row rather than sharing.
	lower := cases.Lower(language.Und)

	var (
		out   []any
		names []string
	)
	for _, item := range jsonish.ParseList(r.V[KeywordList]) {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := obj["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		name = lower.String(name)

		entry := map[string]any{"name": name}
		if kid, ok := obj["id"]; ok {
			entry["id"] = kid
		}
		out = append(out, entry)
		names = append(names, name)
	}
	r.V[KeywordList] = jsonish.EncodeList(out)

	return KeywordOutcome{
		Outcome: Outcome{Disp: Keep, Key: id},
		Names:   names,
	}
}
