package transform

import (
	"testing"
	"time"
)

func ratingRow(user, movie, rating, ts string) *Row {
	r := GetRow(len(RatingColumns))
	r.V[RatingUserID] = user
	r.V[RatingMovieID] = movie
	r.V[RatingValue] = rating
	r.V[RatingTimestamp] = ts
	return r
}

func TestNormalizeRating_Valid(t *testing.T) {
	r := ratingRow("1", "31", "2.5", "1260759144")
	o := NormalizeRating(r)
	if o.Disp != Keep {
		t.Fatalf("expected keep, got %v (%s)", o.Disp, o.Reason)
	}
	if o.UserID != 1 || o.MovieID != 31 {
		t.Fatalf("pair = (%d, %d), want (1, 31)", o.UserID, o.MovieID)
	}
	want := time.Unix(1260759144, 0).UTC()
	if !o.EventTime.Equal(want) {
		t.Fatalf("event time = %v, want %v", o.EventTime, want)
	}
	if r.V[RatingTimestamp] != want.Format(TimestampLayout) {
		t.Fatalf("timestamp not canonicalized: %q", r.V[RatingTimestamp])
	}
}

func TestNormalizeRating_Drops(t *testing.T) {
	cases := []struct {
		name   string
		row    *Row
		reason string
	}{
		{"bad user", ratingRow("x", "31", "2.5", "1260759144"), "ratings_userId_non_numeric"},
		{"bad movie", ratingRow("1", "", "2.5", "1260759144"), "ratings_movieId_non_numeric"},
		{"rating too high", ratingRow("1", "31", "10.5", "1260759144"), "ratings_rating_out_of_range"},
		{"rating negative", ratingRow("1", "31", "-1", "1260759144"), "ratings_rating_out_of_range"},
		{"rating missing", ratingRow("1", "31", "", "1260759144"), "ratings_rating_out_of_range"},
		{"bad timestamp", ratingRow("1", "31", "2.5", "soon"), "ratings_timestamp_invalid"},
	}
	for _, tc := range cases {
		o := NormalizeRating(tc.row)
		if o.Disp != Drop || o.Reason != tc.reason {
			t.Errorf("%s: got (%v, %s), want drop %s", tc.name, o.Disp, o.Reason, tc.reason)
		}
	}
}

func TestNormalizeRating_BoundaryValues(t *testing.T) {
	for _, v := range []string{"0", "10"} {
		o := NormalizeRating(ratingRow("1", "31", v, "1260759144"))
		if o.Disp != Keep {
			t.Errorf("rating %s: expected keep, got %v (%s)", v, o.Disp, o.Reason)
		}
	}
}
