package services

import "time"

// LaborEntry is one staff member's logged time on a job.
type LaborEntry struct {
	StaffName   string
	HourlyRate  float64
	HoursLogged float64
}

// Material is a supplier invoice line.
type Material struct {
	Description string
	Supplier    string
	Amount      float64
	InvoiceDate *time.Time
}

// SubTrade is a contractor invoice line.
type SubTrade struct {
	Trade       string
	Contractor  string
	Amount      float64
	InvoiceDate *time.Time
}

type OtherCost struct {
	Description string
	Amount      float64
}

// TipFee is a waste-disposal charge. TotalAmount is the value of record and
// is never derived from BaseAmount and CartageAmount.
type TipFee struct {
	Description   string
	BaseAmount    float64
	CartageAmount float64
	TotalAmount   float64
}

type TimesheetEntry struct {
	Date      time.Time
	Hours     float64
	StaffName string
	Note      string
	Approved  bool
}

// ComplianceSignature is a signed safety-document acknowledgment.
type ComplianceSignature struct {
	DocumentTitle string
	SignerName    string
	Occupation    string
	SignedAt      time.Time
}

// AttachedFile is a file stored against the job. ExternalLink is empty when
// the file is only reachable from inside the system.
type AttachedFile struct {
	Name         string
	ExternalLink string
}

// JobDocument is the read-only snapshot rendered into a job cost sheet.
type JobDocument struct {
	ID                   string
	Address              string
	ClientName           string
	ManagerName          string
	Status               string
	BuilderMarginPercent float64
	DefaultHourlyRate    float64

	Labor      []LaborEntry
	Materials  []Material
	SubTrades  []SubTrade
	OtherCosts []OtherCost
	TipFees    []TipFee

	Timesheets []TimesheetEntry
	Compliance []ComplianceSignature
	Files      []AttachedFile
}

// QuoteItem is one priced line of a quote's scope of work.
type QuoteItem struct {
	ItemType    string
	Description string
	Quantity    float64
	UnitPrice   float64
	TotalPrice  float64
}

// Signature is the client's acceptance of a quote. ImageData holds a data URL
// or bare base64 image payload.
type Signature struct {
	SignerName string
	ImageData  string
	SignedAt   time.Time
}

// QuoteDocument is the read-only snapshot rendered into a client quote.
// Subtotal, GSTAmount and TotalAmount are persisted values.
type QuoteDocument struct {
	QuoteNumber          string
	ClientName           string
	ClientContact        string
	ProjectDescription   string
	ProjectAddress       string
	Status               string
	ValidUntil           *time.Time
	BuilderMarginPercent float64
	Subtotal             float64
	GSTAmount            float64
	TotalAmount          float64
	Notes                string
	Items                []QuoteItem
	Signature            *Signature
}

// JobListRow is one job printed on a manager's job list.
type JobListRow struct {
	Address    string `json:"address"`
	ClientName string `json:"clientName"`
}

// JobListData holds everything printed on a job list.
type JobListData struct {
	ManagerName string
	Jobs        []JobListRow
}
