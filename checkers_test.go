package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDateCheckerTurkishRejectsISOFormat(t *testing.T) {
	check := getChecker(TypeDate, "tr")
	assert.True(t, check("25.01.2025").ok)
	assert.False(t, check("2025-01-25").ok)
}

func TestDateCheckerLeapYear(t *testing.T) {
	check := getChecker(TypeDate, "tr")
	assert.True(t, check("29.02.2024").ok)

	res := check("29.02.2025")
	assert.False(t, res.ok)
	assert.Equal(t, subDateDay, res.sub)

	res2 := check("31.04.2025")
	assert.False(t, res2.ok)
	assert.Equal(t, subDateDay, res2.sub)
}

func TestNumberCheckerTurkishLocale(t *testing.T) {
	check := getChecker(TypeNumber, "tr")
	assert.True(t, check("1.234,56").ok)
	assert.False(t, check("999,99x").ok)
}

func TestIntegerCheckerRejectsFraction(t *testing.T) {
	check := getChecker(TypeInteger, "en")
	assert.True(t, check("1,234").ok)
	assert.False(t, check("1,234.5").ok)
}

func TestPhoneCheckerCountryCode(t *testing.T) {
	check := getChecker(TypePhone, "tr")
	assert.True(t, check("+90 532 123 45 67").ok)

	res := check("+1 555 123 4567")
	assert.False(t, res.ok)
	assert.Equal(t, subPhoneCountryCode, res.sub)
}

func TestBooleanCheckerTurkish(t *testing.T) {
	check := getChecker(TypeBoolean, "tr")
	assert.True(t, check("evet").ok)
	assert.True(t, check("hayır").ok)
	assert.False(t, check("belki").ok)
}

func TestCurrencyCheckerStripsSymbol(t *testing.T) {
	check := getChecker(TypeCurrency, "tr")
	assert.True(t, check("1.234,56 TL").ok)
}

func TestTurkishScenarioRowFailsFourWays(t *testing.T) {
	schema, err := NewSchema("tr",
		&ColumnDef{Name: "fiyat", Type: TypeNumber, Rules: []Rule{Min(1000)}},
		&ColumnDef{Name: "tarih", Type: TypeDate},
		&ColumnDef{Name: "telefon", Type: TypePhone},
		&ColumnDef{Name: "aktif", Type: TypeBoolean},
	)
	assert.NoError(t, err)

	validRow := [][]string{{"1.234,56", "25.01.2025", "+90 532 123 45 67", "evet"}}
	result := Validate(validRow, schema)
	assert.True(t, result.Valid)

	badRow := [][]string{{"999,99", "2025-01-25", "+1 555 123 4567", "belki"}}
	result2 := Validate(badRow, schema)
	assert.False(t, result2.Valid)

	codes := map[string]ErrorCode{}
	for _, e := range result2.Errors {
		codes[e.Field] = e.Code
	}
	assert.Equal(t, CodeMin, codes["fiyat"])
	assert.Equal(t, CodeType, codes["tarih"])
	assert.Equal(t, CodeType, codes["telefon"])
	assert.Equal(t, CodeType, codes["aktif"])
}
