package model

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	h := Header()
	require.Len(t, h, 17)
	assert.Equal(t, HeaderSentinel, h[0])
	assert.Equal(t, "Promo Code", h[16])
}

func TestDownloadRecord_Row(t *testing.T) {
	var proceeds apd.Decimal
	_, _, err := proceeds.SetString("0.70")
	require.NoError(t, err)

	rec := DownloadRecord{
		Date:          "2024-03-01",
		Year:          2024,
		Month:         3,
		Week:          9,
		Weekday:       "Friday",
		AppName:       "MyApp",
		SKU:           "SKU1",
		Country:       "JP",
		Region:        "Asia",
		Device:        "iPhone",
		InstallType:   "Free",
		Units:         5,
		Proceeds:      proceeds,
		CustomerPrice: "120",
		Currency:      "JPY",
		ProductType:   "1",
		PromoCode:     "",
	}

	row := rec.Row()
	require.Len(t, row, len(Header()))
	assert.Equal(t, []string{
		"2024-03-01", "2024", "3", "9", "Friday",
		"MyApp", "SKU1", "JP", "Asia", "iPhone",
		"Free", "5", "0.70", "120", "JPY", "1", "",
	}, row)
}

func TestDownloadRecord_Row_ProceedsScalePreserved(t *testing.T) {
	// "0.00" must serialize back as "0.00", not "0" — stored rows round-trip.
	var proceeds apd.Decimal
	_, _, err := proceeds.SetString("0.00")
	require.NoError(t, err)

	rec := DownloadRecord{Proceeds: proceeds}
	assert.Equal(t, "0.00", rec.Row()[12])
}

func TestRawReport_Empty(t *testing.T) {
	var nilReport *RawReport
	assert.True(t, nilReport.Empty())
	assert.True(t, (&RawReport{Date: "2024-03-01"}).Empty())
	assert.False(t, (&RawReport{Date: "2024-03-01", Body: "x"}).Empty())
}
