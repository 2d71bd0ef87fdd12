package report

import "html/template"

var reportTemplate = template.Must(template.New("verification-report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Document Verification Report - {{.Query}}</title>
<style>
  body { font-family: Arial, Helvetica, sans-serif; margin: 0; padding: 40px; color: #1f2937; background: #ffffff; }
  .letterhead { text-align: center; border-bottom: 3px solid #15803d; padding-bottom: 20px; margin-bottom: 30px; }
  .letterhead .org { font-size: 20px; font-weight: bold; color: #14532d; }
  .letterhead h1 { font-size: 26px; margin: 12px 0; letter-spacing: 1px; }
  .badge { display: inline-block; padding: 6px 16px; border-radius: 999px; font-weight: bold; font-size: 13px; }
  .badge-verified { background: #16a34a; color: #ffffff; }
  .badge-status { background: #dcfce7; color: #166534; border: 1px solid #16a34a; }
  .panel { background: #f0fdf4; border: 1px solid #bbf7d0; border-radius: 8px; padding: 20px; margin-bottom: 30px; }
  .panel h2, .section h2 { font-size: 18px; margin: 0 0 14px 0; color: #14532d; }
  .panel table { width: 100%; border-collapse: collapse; }
  .panel td { padding: 6px 0; }
  .panel td.label { font-weight: bold; width: 35%; }
  .grid { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
  .field { border: 1px solid #e5e7eb; border-radius: 6px; padding: 12px; }
  .field .label { font-size: 12px; text-transform: uppercase; color: #6b7280; margin-bottom: 4px; }
  .field .value { font-size: 15px; font-weight: 600; }
  .footer { margin-top: 40px; border-top: 1px solid #e5e7eb; padding-top: 16px; font-size: 12px; color: #6b7280; text-align: center; }
</style>
</head>
<body>
<div class="letterhead">
  <div class="org">{{.Organization}}</div>
  <h1>DOCUMENT VERIFICATION REPORT</h1>
  <span class="badge badge-verified">VERIFIED AUTHENTIC</span>
</div>
<div class="panel">
  <h2>Verification Details</h2>
  <table>
    <tr><td class="label">Reference Searched:</td><td>{{.Query}}</td></tr>
    <tr><td class="label">Document Type:</td><td>{{.DocumentType}}</td></tr>
    <tr><td class="label">Verified At:</td><td>{{.VerifiedAt}}</td></tr>
    <tr><td class="label">Verification Status:</td><td><span class="badge badge-status">{{.Status}}</span></td></tr>
  </table>
</div>
<div class="section">
  <h2>Document Information</h2>
  <div class="grid">
{{- range .Fields}}
    <div class="field"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{- end}}
  </div>
</div>
<div class="footer">
  <p>This report was generated on {{.GeneratedAt}} and certifies that the document referenced above was found in the official registry at the time of verification.</p>
  <p>Any alteration of this report renders it invalid. For inquiries, contact the Liberia Agriculture Commodity Regulatory Authority, Monrovia, Liberia.</p>
</div>
</body>
</html>
`))
