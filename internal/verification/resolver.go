package verification

import (
	"strings"
	"time"
	"unicode"

	"github.com/LACRA/agritrace360/internal/records/model"
)

// Resolver matches a free-text reference code against certifications, commodities
// and reports, in that order. The first match wins.
type Resolver struct {
	matchExporterName bool
	now               func() time.Time
}

// NewResolver creates a Resolver. matchExporterName keeps the legacy behaviour of
// accepting an exporter name in place of a certificate number.
func NewResolver(matchExporterName bool) *Resolver {
	return &Resolver{
		matchExporterName: matchExporterName,
		now:               time.Now,
	}
}

// Normalize trims surrounding whitespace and upper-cases the query.
func Normalize(query string) string {
	return strings.ToUpper(strings.TrimSpace(query))
}

// Resolve looks the query up in c. It does not modify c, and a query that matches
// nothing yields a not_found result rather than an error.
func (r *Resolver) Resolve(query string, c Collections) (Result, error) {
	q := Normalize(query)
	if q == "" {
		return Result{}, ErrEmptyQuery
	}

	if i, field := r.findCertification(q, c.Certifications); i >= 0 {
		cert := &c.Certifications[i]
		data := &CertificateData{
			Certification: cert,
			Commodity:     findCommodityByID(cert.CommodityID, c.Commodities),
		}
		return r.found(ResultTypeCertificate, field, certificateLabel(cert.CertificateType), func(res *Result) {
			res.Certificate = data
		}), nil
	}

	for i := range c.Commodities {
		if strings.ToUpper(c.Commodities[i].BatchNumber) == q {
			commodity := &c.Commodities[i]
			return r.found(ResultTypeCommodity, MatchBatchNumber, DocumentTypeCommodity, func(res *Result) {
				res.Commodity = commodity
			}), nil
		}
	}

	for i := range c.Reports {
		if strings.ToUpper(c.Reports[i].ReportID) == q {
			report := &c.Reports[i]
			return r.found(ResultTypeReport, MatchReportID, DocumentTypeReport, func(res *Result) {
				res.Report = report
			}), nil
		}
	}

	return Result{
		Type:         ResultTypeNotFound,
		Status:       StatusInvalid,
		VerifiedAt:   r.now(),
		DocumentType: DocumentTypeUnknown,
	}, nil
}

func (r *Resolver) found(t ResultType, field MatchField, label string, set func(*Result)) Result {
	res := Result{
		Type:         t,
		Status:       StatusValid,
		VerifiedAt:   r.now(),
		DocumentType: label,
		MatchedOn:    field,
	}
	set(&res)
	return res
}

// findCertification scans once, matching either field on each record, so an
// exporter-name hit on an earlier record beats a number hit on a later one.
func (r *Resolver) findCertification(q string, certs []model.Certification) (int, MatchField) {
	for i := range certs {
		if strings.ToUpper(certs[i].CertificateNumber) == q {
			return i, MatchCertificateNumber
		}
		if r.matchExporterName && strings.ToUpper(certs[i].ExporterName) == q {
			return i, MatchExporterName
		}
	}
	return -1, ""
}

// findCommodityByID returns the first commodity with the given id in slice order.
func findCommodityByID(id uint, commodities []model.Commodity) *model.Commodity {
	for i := range commodities {
		if commodities[i].ID == id {
			return &commodities[i]
		}
	}
	return nil
}

// Document type labels shown to users.
const (
	DocumentTypeCommodity = "Commodity Batch"
	DocumentTypeReport    = "Compliance Report"
	DocumentTypeUnknown   = "Unknown"
)

func certificateLabel(t model.CertificateType) string {
	if t == "" {
		return "Certificate"
	}
	return TitleCase(string(t)) + " Certificate"
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '_' || r == '-' })
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
