package validation

import "testing"

func TestParseID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want uint
		ok   bool
	}{
		{name: "simple", raw: "7", want: 7, ok: true},
		{name: "one", raw: "1", want: 1, ok: true},
		{name: "large", raw: "4294967295", want: 4294967295, ok: true},
		{name: "zero", raw: "0", ok: false},
		{name: "negative", raw: "-3", ok: false},
		{name: "float", raw: "7.5", ok: false},
		{name: "empty", raw: "", ok: false},
		{name: "word", raw: "abc", ok: false},
		{name: "trailing garbage", raw: "7x", ok: false},
		{name: "leading space", raw: " 7", ok: false},
		{name: "overflow", raw: "99999999999999999999", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, fieldErr := ParseID("review_id", CodeInvalidReviewID, tc.raw)
			if tc.ok {
				if fieldErr != nil {
					t.Fatalf("expected valid id, got error: %+v", fieldErr)
				}
				if got != tc.want {
					t.Fatalf("expected %d, got %d", tc.want, got)
				}
				return
			}
			if fieldErr == nil {
				t.Fatalf("expected field error, got id %d", got)
			}
			if fieldErr.Field != "review_id" {
				t.Fatalf("expected field review_id, got %q", fieldErr.Field)
			}
			if fieldErr.Code != CodeInvalidReviewID {
				t.Fatalf("expected code %s, got %q", CodeInvalidReviewID, fieldErr.Code)
			}
		})
	}
}

func TestParseOptionalID(t *testing.T) {
	t.Parallel()

	t.Run("absent means nil", func(t *testing.T) {
		id, fieldErr := ParseOptionalID("book_id", CodeInvalidBookID, "")
		if fieldErr != nil {
			t.Fatalf("expected no error for absent value, got %+v", fieldErr)
		}
		if id != nil {
			t.Fatalf("expected nil id, got %d", *id)
		}
	})

	t.Run("present and valid", func(t *testing.T) {
		id, fieldErr := ParseOptionalID("book_id", CodeInvalidBookID, "42")
		if fieldErr != nil {
			t.Fatalf("unexpected error: %+v", fieldErr)
		}
		if id == nil || *id != 42 {
			t.Fatalf("expected 42, got %v", id)
		}
	})

	t.Run("present and invalid", func(t *testing.T) {
		_, fieldErr := ParseOptionalID("book_id", CodeInvalidBookID, "banana")
		if fieldErr == nil {
			t.Fatal("expected field error")
		}
		if fieldErr.Code != CodeInvalidBookID {
			t.Fatalf("expected code %s, got %q", CodeInvalidBookID, fieldErr.Code)
		}
	})
}
