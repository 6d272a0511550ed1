// Package catalog provides the business logic for turning raw spreadsheet
// rows into validated catalog records. This package has no I/O dependencies
// and can be used by any frontend.
package catalog

// Row is a single spreadsheet row keyed by header name. A missing key means
// the source sheet has no such column; an empty value means the cell is blank.
type Row map[string]string

// Spreadsheet column headers used by the Invoice Pro workbooks.
const (
	ColCode    = "Код"
	ColName    = "Стока"
	ColMeasure = "Мярка"
	ColPrice   = "Цена"
	ColVatRate = "ДДС ID"
	ColGroup   = "Група ID"
	ColStatus  = "Статус ID"
	ColVatTerm = "ДДС Срок ID"
)

// ItemColumns is the mandatory column set for an items import. Sheets missing
// any of these are rejected before any database contact.
var ItemColumns = []string{ColCode, ColName, ColMeasure, ColPrice}

// PartnerNameColumns lists the accepted name column headers for a partners
// import, in resolution order.
var PartnerNameColumns = []string{"Име", "Name", "Company"}

// Default ID values applied when an ID-like cell is empty or unparsable.
const (
	DefaultVatRateID = 1
	DefaultGroupID   = 1
	DefaultStatusID  = 3
	DefaultVatTermID = 7

	DefaultMeasure = "бр."

	DefaultPartnerGroupID  = 1
	DefaultPartnerStatusID = 1
)

// ItemRecord is a normalized product-catalog row ready for insertion.
// Code and Name are never empty; rows failing that are rejected, not defaulted.
type ItemRecord struct {
	Code      string
	Name      string
	Name2     string // transliterated Name
	Measure   string
	Measure2  string // transliterated Measure
	SalePrice float64
	GroupID   int
	VatRateID int
	StatusID  int
	VatTermID int
}

// ItemInsertColumns is the explicit column list for the items insert.
var ItemInsertColumns = []string{
	"Code", "Name", "Name2", "Measure", "Measure2", "SalePrice", "GroupID", "VatRateID",
	"StatusID", "VatTermID", "Visible", "FixedPrice", "EcoTax", "Priority", "IsService",
	"MainItemID", "Barcode", "Permit",
}

// InsertValues returns the values matching ItemInsertColumns. New rows are
// always visible; the trailing flags are the fixed catalog defaults.
func (r ItemRecord) InsertValues() []any {
	return []any{
		r.Code, r.Name, r.Name2, r.Measure, r.Measure2, r.SalePrice, r.GroupID, r.VatRateID,
		r.StatusID, r.VatTermID, 1, 0, 0, 0, 0,
		0, "", "",
	}
}

// PartnerRecord is a normalized partner-catalog row. Partners are keyed by
// Name; all other fields default independently to the empty string or zero.
type PartnerRecord struct {
	Name               string
	NameEnglish        string
	ContactName        string
	ContactNameEnglish string
	EMail              string
	Bulstat            string
	VatID              string
	BankName           string
	BankCode           string
	BankAccount        string
	Priority           int
	GroupID            int
	StatusID           int
	CountryID          int
}

// PartnerInsertColumns is the explicit column list for the partners insert.
// PartnerID leads the list because the import assigns keys explicitly.
var PartnerInsertColumns = []string{
	"PartnerID", "Name", "NameEnglish", "ContactName", "ContactNameEnglish", "EMail", "Bulstat",
	"VatId", "BankName", "BankCode", "BankAccount", "Priority", "GroupID", "Visible", "MainPartnerID",
	"StatusID", "IsExported", "IsOSSPartner", "CountryID", "DocumentEndDatePeriod",
}

// InsertValues returns the values matching PartnerInsertColumns for the given
// assigned key. MainPartnerID mirrors the key, per the Invoice Pro schema.
func (r PartnerRecord) InsertValues(partnerID int64) []any {
	return []any{
		partnerID, r.Name, r.NameEnglish, r.ContactName, r.ContactNameEnglish, r.EMail, r.Bulstat,
		r.VatID, r.BankName, r.BankCode, r.BankAccount, r.Priority, r.GroupID, 1, partnerID,
		r.StatusID, 0, 0, r.CountryID, 0,
	}
}
