package transform

import "moviesetl/internal/parser/jsonish"

// Credit column order. The raw file may carry the key as either "id" or
// "movie_id"; the reader's header map folds both onto "id".
var CreditColumns = []string{"id", "cast", "crew"}

const (
	CreditID = iota
	CreditCast
	CreditCrew
)

// CreditHeaderMap folds the alternate key header onto the canonical one.
var CreditHeaderMap = map[string]string{"movie_id": "id"}

// CreditOutcome extends Outcome with the row's coverage score,
// len(cast)+len(crew), the data-richness proxy used to break duplicate keys.
type CreditOutcome struct {
	Outcome
	Coverage int
}

// NormalizeCredit coerces the movie id and re-encodes the cast and crew lists
// canonically. Unparsable lists become empty lists, never a dropped row.
func NormalizeCredit(r *Row) CreditOutcome {
	id, ok := ParseID(r.V[CreditID])
	if !ok {
		return CreditOutcome{Outcome: dropped("credits_id_non_numeric")}
	}
	r.V[CreditID] = FormatID(id)

	cast := jsonish.ParseList(r.V[CreditCast])
	crew := jsonish.ParseList(r.V[CreditCrew])
	r.V[CreditCast] = jsonish.EncodeList(cast)
	r.V[CreditCrew] = jsonish.EncodeList(crew)

	return CreditOutcome{
		Outcome:  Outcome{Disp: Keep, Key: id},
		Coverage: len(cast) + len(crew),
	}
}
