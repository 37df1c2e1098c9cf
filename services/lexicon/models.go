// Package lexicon turns parsed appraisal records into normalized
// entity graphs: one self-contained document per folio, entities
// linked by ULID references. Placeholder values never survive into
// the output; see Prune.
package lexicon

// Entity type tags, serialized under "@type".
const (
	typeCompany           = "company"
	typePerson            = "person"
	typeCommunication     = "communication"
	typeOwnership         = "ownership"
	typePropertyValuation = "property_valuation"
	typeProperty          = "property"
	typeDocument          = "document"
	typeAddress           = "address"
	typeSalesTransaction  = "sales_transaction"
	typeFinanceRelation   = "finance_relation"
)

// Graph is the full entity graph built from one appraisal record.
// Collections may be empty; pruning removes them from the serialized
// form entirely.
type Graph struct {
	Companies          []Company           `json:"companies"`
	People             []Person            `json:"people"`
	Communications     []Communication     `json:"communications"`
	Ownerships         []Ownership         `json:"ownerships"`
	PropertyValuations []PropertyValuation `json:"property_valuations"`
	Properties         []Property          `json:"properties"`
	Documents          []Document          `json:"documents"`
	Addresses          []Address           `json:"addresses"`
	SalesTransactions  []SalesTransaction  `json:"sales_transactions"`
	Relationships      []FinanceRelation   `json:"relationships"`
}

type Company struct {
	ID                  string `json:"@id"`
	Type                string `json:"@type"`
	Name                string `json:"name"`
	CommunicationMethod string `json:"has_communication_method"`
}

type Person struct {
	ID                  string `json:"@id"`
	Type                string `json:"@type"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	MiddleName          string `json:"middle_name"`
	PrefixName          string `json:"prefix_name"`
	SuffixName          string `json:"suffix_name"`
	RawName             string `json:"raw_name"`
	CommunicationMethod string `json:"has_communication_method"`
}

type Communication struct {
	ID             string `json:"@id"`
	Type           string `json:"@type"`
	MailingAddress string `json:"has_mailing_address"`
}

// Address covers both mailing addresses (line1/line2 form) and site
// addresses (decomposed street form). Unused fields prune away.
type Address struct {
	ID                    string   `json:"@id"`
	Type                  string   `json:"@type"`
	AddressLine1          string   `json:"address_line_1,omitempty"`
	AddressLine2          string   `json:"address_line_2,omitempty"`
	SequenceNumber        string   `json:"sequence_number,omitempty"`
	StreetName            string   `json:"street_name,omitempty"`
	StreetPreDirectional  string   `json:"street_pre_directional_text,omitempty"`
	StreetPostDirectional string   `json:"street_post_directional_text,omitempty"`
	StreetSuffixType      string   `json:"street_suffix_type,omitempty"`
	CityName              string   `json:"city_name,omitempty"`
	StateCode             string   `json:"state_code,omitempty"`
	PostalCode            string   `json:"postal_code,omitempty"`
	CountyName            string   `json:"county_name,omitempty"`
	CountryName           string   `json:"country_name,omitempty"`
	CountryCode           string   `json:"country_code,omitempty"`
	UnitIdentifier        string   `json:"unit_identifier,omitempty"`
	Latitude              *float64 `json:"latitude,omitempty"`
	Longitude             *float64 `json:"longitude,omitempty"`
}

// Ownership links one owner (person or company, never both) to the
// property.
type Ownership struct {
	ID            string `json:"@id"`
	Type          string `json:"@type"`
	OwnedBy       string `json:"owned_by,omitempty"`
	OwnerCompany  string `json:"has_owner_company,omitempty"`
	OwnedProperty string `json:"owned_property"`
	DateAcquired  string `json:"date_acquired"`
}

// Document is either a recorded deed (instrument fields) or a
// structure photo (image url).
type Document struct {
	ID                 string `json:"@id"`
	Type               string `json:"@type"`
	InstrumentNumber   string `json:"instrument_number,omitempty"`
	DocumentIdentifier string `json:"document_identifier"`
	DocumentDate       string `json:"document_date,omitempty"`
	DocumentURL        string `json:"document_url,omitempty"`
	PropertyImageURL   string `json:"property_image_url,omitempty"`
}

type SalesTransaction struct {
	ID       string `json:"@id"`
	Type     string `json:"@type"`
	Date     string `json:"sales_date"`
	Amount   any    `json:"sales_transaction_amount"`
	Document string `json:"has_document,omitempty"`
}

type PropertyValuation struct {
	ID          string  `json:"@id"`
	Type        string  `json:"@type"`
	Date        string  `json:"valuation_date"`
	ActualValue float64 `json:"actual_value"`
	MethodType  string  `json:"valuation_method_type"`
}

// FinanceRelation ties a sale to the property, and for the most
// recent sale, to the current ownerships.
type FinanceRelation struct {
	ID               string   `json:"@id"`
	Type             string   `json:"@type"`
	Property         string   `json:"has_property"`
	SalesTransaction string   `json:"has_sales_transactions"`
	Valuation        string   `json:"has_property_valuation,omitempty"`
	Ownerships       []string `json:"has_ownership,omitempty"`
}

// Property fields that come out of tolerant numeric parsing are typed
// any: they hold a number when the source text parsed and an empty
// string (pruned later) when it did not.
type Property struct {
	ID                   string   `json:"@id"`
	Type                 string   `json:"@type"`
	ParcelIdentifier     string   `json:"parcel_identifier"`
	ConditionDescription string   `json:"property_condition_description"`
	LotSizeSquareFeet    any      `json:"lot_size_square_feet"`
	LivingSizeSquareFeet any      `json:"lot_living_size_square_feet"`
	TaxableValueAmount   any      `json:"property_taxable_value_amount"`
	AssessedValueAmount  any      `json:"property_assessed_value_amount"`
	ExemptionAmount      any      `json:"property_exemption_amount"`
	Lot                  string   `json:"lot"`
	Section              string   `json:"section"`
	Block                string   `json:"block"`
	Township             string   `json:"township"`
	Range                string   `json:"range"`
	Address              string   `json:"has_address"`
	PropertyType         string   `json:"property_type"`
	Photos               []string `json:"has_photos,omitempty"`
	BedroomCount         any      `json:"bedroom_count,omitempty"`
	FullBathroomCount    any      `json:"full_bathroom_count,omitempty"`
	HalfBathroomCount    any      `json:"half_bathroom_count,omitempty"`
	StructureBuiltYear   any      `json:"property_structure_built_year,omitempty"`
}

// useCodeTypes maps the significant digit of a land-tract use code to
// a property type. Codes of length 4 starting with "0" use their
// second digit, everything else the first; unmapped digits are
// "Other".
var useCodeTypes = map[byte]string{
	'1': "SingleFamily",
	'2': "MobileHome",
	'3': "MultipleFamily",
	'4': "Condominium",
	'5': "Cooperative",
	'8': "MultipleFamily",
}

func propertyType(useCode string) string {
	if useCode == "" {
		return ""
	}
	digit := useCode[0]
	if len(useCode) == 4 && useCode[0] == '0' {
		digit = useCode[1]
	}
	if t, ok := useCodeTypes[digit]; ok {
		return t
	}
	return "Other"
}
