package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/tally/internal/model"
)

const baseHeader = "Product Type Identifier\tTitle\tSKU\tCountry Code\tDevice\tUnits\tDeveloper Proceeds\tCustomer Price\tCustomer Currency\tPromo Code"

func rawReport(date string, lines ...string) *model.RawReport {
	return &model.RawReport{Date: date, Body: strings.Join(lines, "\n") + "\n"}
}

func TestNormalize_SingleDownloadRow(t *testing.T) {
	raw := rawReport("2024-03-01",
		baseHeader+"\tInstallation Type",
		"1\tMyApp\tSKU1\tJP\tiPhone\t5\t0.00\t0\tJPY\t\tFree",
	)

	records, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "2024-03-01", rec.Date)
	assert.Equal(t, 2024, rec.Year)
	assert.Equal(t, 3, rec.Month)
	assert.Equal(t, 9, rec.Week)
	assert.Equal(t, "Friday", rec.Weekday)
	assert.Equal(t, "MyApp", rec.AppName)
	assert.Equal(t, "SKU1", rec.SKU)
	assert.Equal(t, "JP", rec.Country)
	assert.Equal(t, "Asia", rec.Region)
	assert.Equal(t, "iPhone", rec.Device)
	assert.Equal(t, "Free", rec.InstallType)
	assert.Equal(t, 5, rec.Units)
	assert.Equal(t, "0.00", rec.Proceeds.Text('f'))
	assert.Equal(t, "0", rec.CustomerPrice)
	assert.Equal(t, "JPY", rec.Currency)
	assert.Equal(t, "1", rec.ProductType)
	assert.Equal(t, "", rec.PromoCode)
}

func TestNormalize_EmptyReport(t *testing.T) {
	records, err := Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = Normalize(&model.RawReport{Date: "2024-03-01"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNormalize_FiltersNonDownloadProductTypes(t *testing.T) {
	raw := rawReport("2024-03-01",
		baseHeader,
		"3\tMyApp\tSKU1\tJP\tiPhone\t5\t1.99\t2.99\tUSD\t", // in-app purchase, excluded
		"1F\tMyApp\tSKU1\tUS\tiPad\t2\t0.00\t0\tUSD\t",
		"7\tMyApp\tSKU1\tGB\tiPhone\t1\t0.00\t0\tGBP\t",
	)

	records, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Contains(t, []string{"1", "1F", "7"}, rec.ProductType)
	}
}

func TestNormalize_NoDownloadRowsYieldsEmpty(t *testing.T) {
	raw := rawReport("2024-03-01",
		baseHeader,
		"IA1\tMyApp\tSKU1\tJP\tiPhone\t5\t1.99\t2.99\tJPY\t",
	)

	records, err := Normalize(raw)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNormalize_CalendarUniformAcrossRecords(t *testing.T) {
	raw := rawReport("2024-03-01",
		baseHeader,
		"1\tAppA\tSKU1\tJP\tiPhone\t5\t0.00\t0\tJPY\t",
		"1F\tAppB\tSKU2\tDE\tiPad\t3\t0.00\t0\tEUR\t",
		"7\tAppA\tSKU1\tBR\tiPhone\t1\t0.00\t0\tBRL\t",
	)

	records, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.Equal(t, "2024-03-01", rec.Date)
		assert.Equal(t, 2024, rec.Year)
		assert.Equal(t, 3, rec.Month)
		assert.Equal(t, 9, rec.Week)
		assert.Equal(t, "Friday", rec.Weekday)
	}
}

func TestNormalize_InstallTypePrecedence(t *testing.T) {
	t.Run("installation type wins", func(t *testing.T) {
		raw := rawReport("2024-03-01",
			baseHeader+"\tInstallation Type\tInstall Event",
			"1\tMyApp\tSKU1\tJP\tiPhone\t5\t0.00\t0\tJPY\t\tFirst-time\tRedownload",
		)
		records, err := Normalize(raw)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "First-time", records[0].InstallType)
	})

	t.Run("install event fallback", func(t *testing.T) {
		raw := rawReport("2024-03-01",
			baseHeader+"\tInstall Event",
			"1\tMyApp\tSKU1\tJP\tiPhone\t5\t0.00\t0\tJPY\t\tRedownload",
		)
		records, err := Normalize(raw)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Redownload", records[0].InstallType)
	})

	t.Run("sentinel when both columns absent", func(t *testing.T) {
		raw := rawReport("2024-03-01",
			baseHeader,
			"1\tMyApp\tSKU1\tJP\tiPhone\t5\t0.00\t0\tJPY\t",
		)
		records, err := Normalize(raw)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "N/A", records[0].InstallType)
	})
}

func TestNormalize_MissingRequiredColumnFailsBatch(t *testing.T) {
	// Header lacks SKU entirely; nothing should be emitted.
	raw := rawReport("2024-03-01",
		"Product Type Identifier\tTitle\tCountry Code\tDevice\tUnits\tDeveloper Proceeds\tCustomer Price\tCustomer Currency\tPromo Code",
		"1\tMyApp\tJP\tiPhone\t5\t0.00\t0\tJPY\t",
	)

	records, err := Normalize(raw)
	var malformed *MalformedReportError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 0, malformed.Row)
	assert.Equal(t, "SKU", malformed.Column)
	assert.Nil(t, records)
}

func TestNormalize_ShortRowFailsBatch(t *testing.T) {
	raw := rawReport("2024-03-01",
		baseHeader,
		"1\tAppA\tSKU1\tJP\tiPhone\t5\t0.00\t0\tJPY\t",
		"1\tAppB\tSKU2", // truncated row
	)

	_, err := Normalize(raw)
	var malformed *MalformedReportError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.Row)
}

func TestNormalize_BadUnits(t *testing.T) {
	raw := rawReport("2024-03-01",
		baseHeader,
		"1\tMyApp\tSKU1\tJP\tiPhone\tfive\t0.00\t0\tJPY\t",
	)

	_, err := Normalize(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "units")
}

func TestRegionFor(t *testing.T) {
	cases := map[string]string{
		"JP": "Asia",
		"US": "North America",
		"GB": "Europe",
		"BR": "South America",
		"AU": "Oceania",
		"ZA": "Other",
		"":   "Other",
	}
	for country, want := range cases {
		assert.Equal(t, want, RegionFor(country), "country %q", country)
	}
}
