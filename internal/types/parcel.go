package types

// Stage is one step of the acquisition funnel.
type Stage string

const (
	StageScouted   Stage = "Scouted"
	StageRetrieved Stage = "Retrieved"
	StageContacted Stage = "Contacted"
)

// Stages lists the funnel stages in dependency order.
var Stages = []Stage{StageScouted, StageRetrieved, StageContacted}

// Parcel holds one row of the Input register after identity resolution.
// Raw spatial fields are kept as received; the resolved province fields and
// ExternalID are derived from them.
type Parcel struct {
	ParcelID string // business key, not unique

	ProvinceRaw  string
	ProvinceCode string
	Region       string
	ProvinceName string

	Municipality string
	Section      string
	Sheet        string
	Number       string

	Area       string
	PostalCode string

	ExternalID string
}

// RawOwner is one row of the All_Raw_Data sheet.
type RawOwner struct {
	ParcelID     string
	FiscalCode   string
	Denomination string
	FirstName    string
	LastName     string
	CombinedName string
	OwnerType    string
	PostalCode   string
	Municipality string
}

// NormalizedOwner is one row of the Owners_Normalized sheet.
type NormalizedOwner struct {
	ParcelID   string
	Name       string
	FiscalCode string
	Quota      string
}

// CompanyContact maps a corporate fiscal code to its certified email.
type CompanyContact struct {
	FiscalCode string
	Email      string
}

// MailingEntry is one row of the Final_Mailing_By_Parcel sheet.
type MailingEntry struct {
	ParcelID   string
	Name       string
	FiscalCode string
}

// ResolvedParcel is a Parcel merged with the outcome of owner resolution.
type ResolvedParcel struct {
	Parcel

	OwnerFirstName string
	OwnerLastName  string
	FiscalCode     string
	Email          string
	OwnerPostal    string
	OwnerCount     int
	AllOwners      string
}

// PostalCodeOrDefault returns the owner postal code when resolution found
// one, otherwise the parcel's own.
func (r ResolvedParcel) PostalCodeOrDefault() string {
	if r.OwnerPostal != "" {
		return r.OwnerPostal
	}
	return r.PostalCode
}
