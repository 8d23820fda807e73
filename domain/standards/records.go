package standards

import "time"

// Identifiers the compliance framework keys this standard by.
const (
	StandardName       = "SendReceiveLimitTenant"
	LogAPI             = "Standards"
	BPAFieldName       = "SendReceiveLimit"
	CompareFieldName   = "standards.SendReceiveLimitTenant"
	SystemMailboxLocal = "SystemMailbox{bb558c35-97f1-4cb9-8ff7-d53741dc928c}"
)

// RequiredCapabilities lists the service plans that make a tenant eligible.
var RequiredCapabilities = []string{"EXCHANGE_S_STANDARD", "EXCHANGE_S_ENTERPRISE", "EXCHANGE_LITE"}

// Log and alert messages.
const (
	MsgAlreadyCorrect  = "The tenant send and receive limits are already set correctly"
	MsgCorrect         = "The tenant send and receive limits are set correctly"
	MsgNotCorrect      = "The tenant send and receive limits are not set correctly"
	MsgSetFailedPrefix = "Failed to set the tenant send and receive limits. Error: "
)

// Severity of a framework log entry.
type Severity string

const (
	SeverityDebug   Severity = "Debug"
	SeverityInfo    Severity = "Info"
	SeverityWarning Severity = "Warning"
	SeverityError   Severity = "Error"
)

// LogEntry is one message written to the framework log side channel.
type LogEntry struct {
	ID        int64     `json:"id,omitempty"`
	API       string    `json:"api"`
	Tenant    string    `json:"tenant"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Data      any       `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Alert is a structured standards alert raised for a drifted tenant.
type Alert struct {
	ID           string    `json:"id,omitempty"`
	Tenant       string    `json:"tenant"`
	StandardName string    `json:"standard_name"`
	StandardID   string    `json:"standard_id,omitempty"`
	Message      string    `json:"message"`
	Object       any       `json:"object"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// StoreAs selects how a compliance field value is serialised.
type StoreAs string

const (
	StoreAsJSON   StoreAs = "json"
	StoreAsBool   StoreAs = "bool"
	StoreAsString StoreAs = "string"
)

// ComplianceField is a stored best-practice or comparable field.
type ComplianceField struct {
	Tenant    string    `json:"tenant"`
	Name      string    `json:"name"`
	StoreAs   StoreAs   `json:"store_as,omitempty"`
	Value     any       `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReportValue is the value recorded for a run: true when conforming, else the drifted plans.
func ReportValue(nonConforming []MailboxPlan) any {
	if len(nonConforming) == 0 {
		return true
	}
	return nonConforming
}
