package usecase

import (
	"testing"

	"github.com/ferdian3456/brewlog/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantParam string
	}{
		{"empty username", validateUsername(""), "username"},
		{"short username", validateUsername("ab"), "username"},
		{"valid username", validateUsername("barista"), ""},
		{"empty email", validateEmail(""), "email"},
		{"invalid email", validateEmail("not-an-email"), "email"},
		{"display name email", validateEmail("Jane <jane@example.com>"), "email"},
		{"valid email", validateEmail("jane@example.com"), ""},
		{"short password", validatePassword("12345", "password"), "password"},
		{"long password", validatePassword(string(make([]byte, 73)), "newPassword"), "newPassword"},
		{"valid password", validatePassword("123456", "password"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantParam == "" {
				assert.NoError(t, tt.err)
				return
			}

			var validationErr *model.ValidationError
			require.ErrorAs(t, tt.err, &validationErr)
			assert.Equal(t, tt.wantParam, validationErr.Param)
		})
	}
}

func TestParseDate(t *testing.T) {
	date, err := parseDate("2024-03-01", "roastDate")
	require.NoError(t, err)
	assert.Equal(t, 2024, date.Year())

	_, err = parseDate("2024-03-01T10:00:00Z", "roastDate")
	require.NoError(t, err)

	_, err = parseDate("01/03/2024", "roastDate")
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "roastDate", validationErr.Param)
}

func TestCleanNotes(t *testing.T) {
	assert.Equal(t, []string{"cherry", "cocoa"}, cleanNotes([]string{" cherry ", "", "  ", "cocoa"}))
	assert.Equal(t, []string{}, cleanNotes(nil))
}

func TestValidateBrew(t *testing.T) {
	valid := model.Brew{
		BrewMethod:      "V60",
		BrewTemperature: 93,
		BrewRatio:       model.BrewRatio{Coffee: 15, Water: 250},
		GrindSize:       "Medium-Fine",
		Rating:          8,
	}
	require.NoError(t, validateBrew(valid))

	tests := []struct {
		name      string
		mutate    func(b *model.Brew)
		wantParam string
	}{
		{"unknown method", func(b *model.Brew) { b.BrewMethod = "Percolator" }, "brewMethod"},
		{"boiling over", func(b *model.Brew) { b.BrewTemperature = 101 }, "brewTemperature"},
		{"no water", func(b *model.Brew) { b.BrewRatio.Water = 0 }, "brewRatio"},
		{"unknown grind", func(b *model.Brew) { b.GrindSize = "Powder" }, "grindSize"},
		{"rating too high", func(b *model.Brew) { b.Rating = 11 }, "rating"},
		{"rating missing", func(b *model.Brew) { b.Rating = 0 }, "rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			brew := valid
			tt.mutate(&brew)

			var validationErr *model.ValidationError
			require.ErrorAs(t, validateBrew(brew), &validationErr)
			assert.Equal(t, tt.wantParam, validationErr.Param)
		})
	}
}

func TestNormalizeBrewMethod(t *testing.T) {
	assert.Equal(t, "Pour Over", normalizeBrewMethod(" pour over "))
	assert.Equal(t, "", normalizeBrewMethod(""))
	assert.Equal(t, "Unknown", normalizeBrewMethod("Unknown"))
}
