package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "ShelfSecret12!@", false},
		{"Exactly Min Length", "Abcdefghij1!", false},
		{"Exactly Max Length", "A" + strings.Repeat("b", 125) + "1!", false},
		{"Too Short", "Small1!", true},
		{"Too Long", "A" + strings.Repeat("b", 126) + "1!", true},
		{"No Upper", "shelfsecret12!", true},
		{"No Lower", "SHELFSECRET12!", true},
		{"No Digit", "ShelfSecret!!", true},
		{"No Special", "ShelfSecret123", true},
		{"Digits And Special Only", "1234567890!@", true},
		{"Unicode Characters", "ÅngstromPass12!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "shelf_reader42", false},
		{"Valid With Hyphen", "shelf-reader", false},
		{"Too Short", "sr", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Illegal Chars", "reader@42", true},
		{"Starts Dash", "-reader", true},
		{"Ends Underscore", "reader_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "reader@example.com", false},
		{"Valid Subdomain", "reader@mail.example.co.uk", false},
		{"No At", "readerexample.com", true},
		{"No TLD", "reader@example", true},
		{"Spaces", "rea der@example.com", true},
		{"Too Long", strings.Repeat("a", 250) + "@b.co", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckRegistration(t *testing.T) {
	t.Parallel()

	t.Run("valid registration", func(t *testing.T) {
		fieldErrs := CheckRegistration("shelf_reader", "reader@example.com", "ShelfSecret12!")
		assert.Empty(t, fieldErrs)
	})

	t.Run("collects all violations", func(t *testing.T) {
		fieldErrs := CheckRegistration("x", "not-an-email", "weak")
		assert.Len(t, fieldErrs, 3)
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fe.Field)
		}
		assert.ElementsMatch(t, []string{"username", "email", "password"}, fields)
	})
}
