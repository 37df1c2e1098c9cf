package leepa

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parseFixture(t *testing.T) *Record {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "10453180.html"))
	require.NoError(t, err)
	defer f.Close()

	rec, err := Parse(context.Background(), f, "10453180")
	require.NoError(t, err)
	return rec
}

func TestParseIdentifiers(t *testing.T) {
	rec := parseFixture(t)
	require.Equal(t, "10-44-22-33-00001.0010", rec.Strap)
	require.Equal(t, "10453180", rec.Folio)
}

func TestParsePropertyAttributes(t *testing.T) {
	rec := parseFixture(t)

	require.Equal(t,
		"HARBOR TOWERS CONDO DESC IN OR 1234 PG 567 UNIT 304",
		rec.Description["Property Description"])
	require.Equal(t, "1,500", rec.Description["Gross Living Area"])
	require.Equal(t, "2,000", rec.Description["Total Gross Building Area"])
	require.Equal(t, "3/2.5", rec.Description["Total Bedrooms / Bathrooms"])
	require.Equal(t, "1998", rec.Description["1st Year Building on Tax Roll"])

	// interleaved location table rows
	require.Equal(t, "10", rec.Description["Section"])
	require.Equal(t, "44", rec.Description["Township"])
	require.Equal(t, "26.5629", rec.Description["Latitude"])
	require.Equal(t, "-81.9495", rec.Description["Longitude"])

	require.Equal(t, "https://maps.example.com/?q=26.5629,-81.9495", rec.Description["Google Map Link"])
	require.Equal(t, SiteRoot+"/dotnet/photo/photo.aspx?id=77", rec.Description["Image of Structure"])
	require.Equal(t, "04/12/2023", rec.Description["Last Inspection Date"])
}

func TestParseSiteAddresses(t *testing.T) {
	rec := parseFixture(t)
	require.Len(t, rec.SiteAddresses, 1, "rows empty apart from the maintenance date must be dropped")

	expected := Fields{
		"Address":          "123 Main St",
		"City":             "Fort Myers",
		"Maintenance Date": "01/01/2020",
		"county_name":      "lee",
	}
	if diff := cmp.Diff(expected, rec.SiteAddresses[0]); diff != "" {
		t.Fatal(diff)
	}
}

func TestParseAlternateAddress(t *testing.T) {
	rec := parseFixture(t)
	require.Equal(t, "456 Second St Unit 4", rec.AlternateAddress)
}

func TestParseSalesSection(t *testing.T) {
	rec := parseFixture(t)

	// the trailing generation timestamp is stripped from the title
	sales, ok := rec.Generic["Sales / Transactions"]
	require.True(t, ok, "sections: %v", rec.Generic)
	require.Len(t, sales, 2, "the all-empty row must be dropped")

	require.Equal(t, "06/15/2023", sales[0].Values["Date"])
	require.Equal(t, "250,000", sales[0].Values["Sale Price"])
	require.Equal(t, "2023000123", sales[0].Values["ClerkFile Number"])
	require.Equal(t,
		[]string{SiteRoot + "/Deed.aspx?id=1"},
		sales[0].Links["ClerkFile Number"])

	require.Equal(t, "01/01/2020", sales[1].Values["Date"])
	require.Equal(t, []string{SiteRoot}, sales[1].Links["ClerkFile Number"])
}

func TestParseTrimSection(t *testing.T) {
	rec := parseFixture(t)

	trim := rec.Generic["Property Values / Exemptions / TRIM Notices"]
	require.Len(t, trim, 2)
	require.Equal(t, "2023 TRIM", trim[0].Values["Tax Year"])
	require.Equal(t, "120,000", trim[0].Values["Taxable"])
	require.Equal(t, "2021", trim[1].Values["Tax Year"])
}

func TestParseLandSections(t *testing.T) {
	rec := parseFixture(t)

	require.Equal(t, "0400", rec.Details.LandTracts["Use Code"])
	require.Equal(t, "CONDOMINIUM", rec.Details.LandTracts["Description"])

	require.Equal(t, []Feature{
		{Description: "DOCK", YearAdded: "2001", Units: "1"},
	}, rec.Details.LandFeatures)
}

func TestParseBuildings(t *testing.T) {
	rec := parseFixture(t)
	require.Len(t, rec.Details.Buildings, 1)

	b := rec.Details.Buildings[0]
	expected := Characteristics{
		ImprovementType:    "CONDO",
		ModelType:          "HIGH RISE",
		Stories:            "10",
		LivingUnits:        "1",
		Bedrooms:           "2",
		Bathrooms:          "2.0",
		YearBuilt:          "1998",
		EffectiveYearBuilt: "2000",
	}
	if diff := cmp.Diff(expected, b.Characteristics); diff != "" {
		t.Fatal(diff)
	}

	require.Equal(t, []Subarea{
		{Description: "LIVING AREA", HeatedUnderAir: "Y", AreaSqFt: "1200"},
	}, b.Subareas)
	require.Equal(t, []Feature{
		{Description: "BALCONY", YearAdded: "1998", Units: "1"},
	}, b.Features)

	require.Equal(t, SiteRoot+"/dotnet/photo/photo.aspx?id=9", b.Photos.FrontPhoto)
	require.Equal(t, "Photo Date 01/05/2022", b.Photos.PhotoDate)
}

func TestParseCondo(t *testing.T) {
	rec := parseFixture(t)
	require.NotNil(t, rec.Details.Condo)

	condo := rec.Details.Condo
	require.Equal(t, "HARBOR TOWERS", condo.ComplexInfo["Complex Name"])
	require.Equal(t, "48", condo.ComplexInfo["Units In Complex"])
	require.Equal(t, []string{"Pool", "Elevator"}, condo.Amenities)
	require.Equal(t, Fields{"Floor": "3", "Unit": "304"}, condo.UnitDetail)
	require.Equal(t, []Subarea{
		{Description: "LIVING AREA", HeatedUnderAir: "Y", AreaSqFt: "1200"},
	}, condo.UnitSubareas)
	require.Equal(t, SiteRoot+"/dotnet/photo/photo.aspx?id=12", condo.Photos.FrontPhoto)
}

func TestParseFixedPositionSections(t *testing.T) {
	rec := parseFixture(t)

	require.Equal(t, "Residential", rec.Garbage["Roll Type"])
	require.Equal(t, "MON", rec.Garbage["Collection Days - Garbage"])
	require.Equal(t, "WED", rec.Garbage["Collection Days - Recycling"])
	require.Equal(t, "FRI", rec.Garbage["Collection Days - Horticulture"])

	require.Equal(t, "https://flood.example.com/insurance", rec.Flood["Flood Insurance Link"])
	require.Equal(t, "125124", rec.Flood["Community"])
	require.Equal(t, "B", rec.Flood["Evacuation Zone"])

	require.Len(t, rec.RealPropertyTags, 1)
	require.Equal(t, Fields{
		"Tag Number":       "R123",
		"DCA / HUD Number": "H456",
		"Serial Number":    "S789",
		"Year":             "1999",
	}, rec.RealPropertyTags[0])
}

func TestParseMissingSectionsAreEmpty(t *testing.T) {
	rec, err := Parse(context.Background(), strings.NewReader("<html><body></body></html>"), "555")
	require.NoError(t, err)
	require.Equal(t, "555", rec.Folio)
	require.Empty(t, rec.Strap)
	require.Empty(t, rec.Generic)
	require.Empty(t, rec.SiteAddresses)
	require.Nil(t, rec.Garbage)
	require.Nil(t, rec.Flood)
	require.Nil(t, rec.Details.Condo)
}

func TestParseUnreadableDocument(t *testing.T) {
	broken := iotest.ErrReader(errors.New("truncated download"))
	_, err := Parse(context.Background(), broken, "555")
	require.Error(t, err)
	require.Contains(t, err.Error(), "555")
}
