package transform

import "time"

// Rating column order.
var RatingColumns = []string{"userId", "movieId", "rating", "timestamp"}

const (
	RatingUserID = iota
	RatingMovieID
	RatingValue
	RatingTimestamp
)

// RatingOutcome carries the pair key and event time needed by the retention
// policies.
type RatingOutcome struct {
	Disp      Disposition
	Reason    string
	UserID    int64
	MovieID   int64
	EventTime time.Time
}

func ratingDropped(reason string) RatingOutcome {
	return RatingOutcome{Disp: Drop, Reason: reason}
}

// NormalizeRating coerces a rating event. Both identifiers, an in-range
// rating value and a parseable event time are mandatory; anything less drops
// the row. The timestamp is rewritten to canonical RFC3339 UTC.
func NormalizeRating(r *Row) RatingOutcome {
	userID, ok := ParseID(r.V[RatingUserID])
	if !ok {
		return ratingDropped("ratings_userId_non_numeric")
	}
	r.V[RatingUserID] = FormatID(userID)

	movieID, ok := ParseID(r.V[RatingMovieID])
	if !ok {
		return ratingDropped("ratings_movieId_non_numeric")
	}
	r.V[RatingMovieID] = FormatID(movieID)

	rating, ok := ParseFloat(r.V[RatingValue])
	if !ok || rating < 0 || rating > 10 {
		return ratingDropped("ratings_rating_out_of_range")
	}
	r.V[RatingValue] = FormatFloat(rating)

	ts, ok := ParseDate(r.V[RatingTimestamp])
	if !ok {
		return ratingDropped("ratings_timestamp_invalid")
	}
	r.V[RatingTimestamp] = ts.Format(TimestampLayout)

	return RatingOutcome{Disp: Keep, UserID: userID, MovieID: movieID, EventTime: ts}
}
