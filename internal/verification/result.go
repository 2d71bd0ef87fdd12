package verification

import (
	"encoding/json"
	"time"

	"github.com/LACRA/agritrace360/internal/records/model"
)

// ResultType identifies which collection a query resolved against.
type ResultType string

const (
	ResultTypeCertificate ResultType = "certificate"
	ResultTypeCommodity   ResultType = "commodity"
	ResultTypeReport      ResultType = "report"
	ResultTypeNotFound    ResultType = "not_found"
)

// ResultStatus is the verdict of a verification.
type ResultStatus string

const (
	StatusValid   ResultStatus = "valid"
	StatusInvalid ResultStatus = "invalid"
)

// MatchField names the record field that equalled the normalized query.
type MatchField string

const (
	MatchCertificateNumber MatchField = "certificateNumber"
	MatchExporterName      MatchField = "exporterName"
	MatchBatchNumber       MatchField = "batchNumber"
	MatchReportID          MatchField = "reportId"
)

// Collections is a read-only snapshot of the records a query is resolved against.
type Collections struct {
	Certifications []model.Certification `json:"certifications"`
	Commodities    []model.Commodity     `json:"commodities"`
	Reports        []model.Report        `json:"reports"`
}

// CertificateData is a matched certification joined with its commodity.
// Commodity is nil when no commodity carries the certification's CommodityID.
type CertificateData struct {
	*model.Certification
	Commodity *model.Commodity `json:"commodity"`
}

// Result is the outcome of one verification. It is never persisted.
type Result struct {
	Type         ResultType   `json:"type"`
	Status       ResultStatus `json:"status"`
	VerifiedAt   time.Time    `json:"verifiedAt"`
	DocumentType string       `json:"documentType"`
	MatchedOn    MatchField   `json:"matchedOn,omitempty"`

	Certificate *CertificateData `json:"-"`
	Commodity   *model.Commodity `json:"-"`
	Report      *model.Report    `json:"-"`
}

// Valid reports whether the query identified a known document.
func (r Result) Valid() bool {
	return r.Status == StatusValid
}

// Data returns the matched record, or nil for a not_found result.
func (r Result) Data() any {
	switch r.Type {
	case ResultTypeCertificate:
		if r.Certificate != nil {
			return r.Certificate
		}
	case ResultTypeCommodity:
		if r.Commodity != nil {
			return r.Commodity
		}
	case ResultTypeReport:
		if r.Report != nil {
			return r.Report
		}
	}
	return nil
}

// MarshalJSON flattens the typed record into the "data" field.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return json.Marshal(struct {
		alias
		Data any `json:"data"`
	}{alias: alias(r), Data: r.Data()})
}
