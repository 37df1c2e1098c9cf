package leepa

// Fields is a flat header -> value mapping extracted from one table
// section.
type Fields map[string]string

// Row is one data row of a generically parsed table. Keys of Values
// come from the table's own header row, or a synthesized Col_<n>
// placeholder when a column has no header. Links holds the absolute
// urls of any anchors found inside a cell, keyed by that cell's
// header.
type Row struct {
	Values Fields              `json:"values"`
	Links  map[string][]string `json:"links,omitempty"`
}

// Record is the intermediate form of one parsed appraisal document,
// section by section. Sections the parser recognizes get typed
// fields; every other titled box lands in Generic keyed by its
// section title.
type Record struct {
	// Folio is the document's folio identifier, preserved verbatim
	// (it may carry leading zeros).
	Folio string `json:"folio_id"`
	// Strap is the alternate parcel identifier printed in the
	// "Property Data" box, raw (separators included).
	Strap string `json:"strap,omitempty"`

	Description      Fields              `json:"property_description,omitempty"`
	AlternateAddress string              `json:"alternate_address,omitempty"`
	SiteAddresses    []Fields            `json:"site_addresses,omitempty"`
	Generic          map[string][]Row    `json:"sections,omitempty"`
	Garbage          Fields              `json:"garbage_roll,omitempty"`
	Flood            Fields              `json:"flood_and_storm,omitempty"`
	RealPropertyTags []Fields            `json:"real_property_tags,omitempty"`
	Details          PropertyDetails     `json:"property_details"`
}

// PropertyDetails is the compound "Property Details" section: grouped
// tables that share markup but describe different things.
type PropertyDetails struct {
	LandTracts   Fields     `json:"land_tracts,omitempty"`
	LandFeatures []Feature  `json:"land_features,omitempty"`
	Buildings    []Building `json:"buildings,omitempty"`
	Condo        *Condo     `json:"condominium,omitempty"`
}

// Feature is one land or building feature row.
type Feature struct {
	Description string `json:"description"`
	YearAdded   string `json:"year_added"`
	Units       string `json:"units"`
}

// Subarea is one building/unit subarea row.
type Subarea struct {
	Description    string `json:"description"`
	HeatedUnderAir string `json:"heated_under_air"`
	AreaSqFt       string `json:"area_sq_ft"`
}

// Characteristics holds the two fixed-width rows of a building's
// characteristics table. The first 4-value row fills the improvement
// fields, the second fills the bedroom fields (positional contract
// of the source markup).
type Characteristics struct {
	ImprovementType    string `json:"improvement_type,omitempty"`
	ModelType          string `json:"model_type,omitempty"`
	Stories            string `json:"stories,omitempty"`
	LivingUnits        string `json:"living_units,omitempty"`
	Bedrooms           string `json:"bedrooms,omitempty"`
	Bathrooms          string `json:"bathrooms,omitempty"`
	YearBuilt          string `json:"year_built,omitempty"`
	EffectiveYearBuilt string `json:"effective_year_built,omitempty"`
}

// Photos holds the image urls attached to a building or condo unit.
type Photos struct {
	FrontPhoto string   `json:"front_photo,omitempty"`
	PhotoDate  string   `json:"photo_date,omitempty"`
	Footprint  []string `json:"footprint,omitempty"`
}

// Building is one building group of the property details section.
type Building struct {
	Characteristics Characteristics `json:"characteristics"`
	Subareas        []Subarea       `json:"subareas,omitempty"`
	Features        []Feature       `json:"features,omitempty"`
	Photos          Photos          `json:"photos"`
}

// Condo is the condominium detail block.
type Condo struct {
	ComplexInfo  Fields    `json:"complex_info,omitempty"`
	Amenities    []string  `json:"amenities,omitempty"`
	UnitDetail   Fields    `json:"unit_detail,omitempty"`
	UnitSubareas []Subarea `json:"unit_subareas,omitempty"`
	Photos       Photos    `json:"photos"`
}
