package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/LACRA/agritrace360/internal/verification"
)

var (
	// ErrNotVerified is returned when asked to render a result that is not valid.
	ErrNotVerified = errors.New("only verified documents can be rendered")
	// ErrIncompleteRecord is returned when the matched record lacks a rendered field.
	ErrIncompleteRecord = errors.New("matched record is incomplete")
)

const (
	timestampLayout = "1/2/2006, 3:04:05 PM"
	dateLayout      = "1/2/2006"
	notAvailable    = "N/A"
)

// Renderer turns a valid verification result into a standalone HTML document.
type Renderer struct {
	organization string
	loc          *time.Location
	now          func() time.Time
	validate     *validator.Validate
}

// NewRenderer creates a Renderer printing times in loc (UTC when nil).
func NewRenderer(organization string, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{
		organization: organization,
		loc:          loc,
		now:          time.Now,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

type field struct {
	Label string
	Value string
}

type page struct {
	Organization string
	Query        string
	DocumentType string
	VerifiedAt   string
	Status       string
	Fields       []field
	GeneratedAt  string
}

// Render produces the report for res, echoing the query the user searched for.
// Everything except the generation timestamp is a function of its inputs.
func (r *Renderer) Render(query string, res verification.Result) (string, error) {
	if !res.Valid() {
		return "", ErrNotVerified
	}

	fields, err := r.fields(res)
	if err != nil {
		return "", err
	}

	p := page{
		Organization: r.organization,
		Query:        query,
		DocumentType: res.DocumentType,
		VerifiedAt:   r.timestamp(res.VerifiedAt),
		Status:       strings.ToUpper(string(res.Status)),
		Fields:       fields,
		GeneratedAt:  r.timestamp(r.now()),
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

type certificateView struct {
	CertificateNumber string `validate:"required"`
	CertificateType   string `validate:"required"`
	ExporterName      string `validate:"required"`
	Commodity         string
	IssuedDate        string `validate:"required"`
	ExpiryDate        string `validate:"required"`
	Status            string `validate:"required"`
	CertificationBody string `validate:"required"`
}

type commodityView struct {
	BatchNumber  string `validate:"required"`
	Name         string `validate:"required"`
	Type         string `validate:"required"`
	QualityGrade string `validate:"required"`
	County       string `validate:"required"`
	Quantity     string `validate:"required"`
	Unit         string `validate:"required"`
	Status       string `validate:"required"`
	CreatedAt    string `validate:"required"`
}

type reportView struct {
	ReportID   string `validate:"required"`
	Title      string `validate:"required"`
	Department string `validate:"required"`
	DateRange  string `validate:"required"`
}

func (r *Renderer) fields(res verification.Result) ([]field, error) {
	switch res.Type {
	case verification.ResultTypeCertificate:
		if res.Certificate == nil || res.Certificate.Certification == nil {
			return nil, fmt.Errorf("%w: certificate data missing", ErrIncompleteRecord)
		}
		c := res.Certificate
		v := certificateView{
			CertificateNumber: c.CertificateNumber,
			CertificateType:   verification.TitleCase(string(c.CertificateType)),
			ExporterName:      c.ExporterName,
			Commodity:         notAvailable,
			IssuedDate:        r.date(c.IssuedDate),
			ExpiryDate:        r.date(c.ExpiryDate),
			Status:            string(c.Status),
			CertificationBody: c.CertificationBody,
		}
		if c.Commodity != nil && c.Commodity.Name != "" {
			v.Commodity = c.Commodity.Name
		}
		if err := r.check(v); err != nil {
			return nil, err
		}
		return []field{
			{"Certificate Number", v.CertificateNumber},
			{"Certificate Type", v.CertificateType},
			{"Exporter Name", v.ExporterName},
			{"Commodity", v.Commodity},
			{"Issued Date", v.IssuedDate},
			{"Expiry Date", v.ExpiryDate},
			{"Status", v.Status},
			{"Certification Body", v.CertificationBody},
		}, nil

	case verification.ResultTypeCommodity:
		if res.Commodity == nil {
			return nil, fmt.Errorf("%w: commodity data missing", ErrIncompleteRecord)
		}
		c := res.Commodity
		v := commodityView{
			BatchNumber:  c.BatchNumber,
			Name:         c.Name,
			Type:         c.Type,
			QualityGrade: c.QualityGrade,
			County:       c.County,
			Quantity:     c.Quantity.String(),
			Unit:         c.Unit,
			Status:       c.Status,
			CreatedAt:    r.date(c.CreatedAt),
		}
		if err := r.check(v); err != nil {
			return nil, err
		}
		return []field{
			{"Batch Number", v.BatchNumber},
			{"Commodity Name", v.Name},
			{"Type", v.Type},
			{"Quality Grade", v.QualityGrade},
			{"County", v.County},
			{"Quantity", v.Quantity + " " + v.Unit},
			{"Status", v.Status},
			{"Registration Date", v.CreatedAt},
		}, nil

	case verification.ResultTypeReport:
		if res.Report == nil {
			return nil, fmt.Errorf("%w: report data missing", ErrIncompleteRecord)
		}
		v := reportView{
			ReportID:   res.Report.ReportID,
			Title:      res.Report.Title,
			Department: res.Report.Department,
			DateRange:  res.Report.DateRange,
		}
		if err := r.check(v); err != nil {
			return nil, err
		}
		return []field{
			{"Report ID", v.ReportID},
			{"Title", v.Title},
			{"Department", v.Department},
			{"Date Range", v.DateRange},
		}, nil
	}
	return nil, fmt.Errorf("%w: unsupported result type %q", ErrIncompleteRecord, res.Type)
}

// check validates a view and names every missing field.
func (r *Renderer) check(view any) error {
	err := r.validate.Struct(view)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate record: %w", err)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return fmt.Errorf("%w: missing %s", ErrIncompleteRecord, strings.Join(missing, ", "))
}

func (r *Renderer) timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(r.loc).Format(timestampLayout)
}

// date prints a calendar date. Dates are stored as UTC midnight, so they are
// formatted in UTC rather than shifted into the report timezone.
func (r *Renderer) date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// FileName is the download name of a report: verification-report-{query}-{YYYY-MM-DD}.html,
// where the date is the UTC calendar date of at.
func FileName(query string, at time.Time) string {
	return fmt.Sprintf("verification-report-%s-%s.html", query, at.UTC().Format("2006-01-02"))
}
