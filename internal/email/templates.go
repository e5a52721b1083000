package email

var defaultTemplates = map[string]string{
	templateEnrollmentReceived: `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Thank you, {{.FirstName}}!</h2>
  <p>We received your <strong>{{.EnrollmentType}}</strong> application{{if .CompanyName}} for <strong>{{.CompanyName}}</strong>{{end}}.</p>
  <p>Our team reviews every application. You will receive an email as soon as its status changes.</p>
  <p>Reference: <code>{{.EnrollmentID}}</code></p>
  {{if .StatusURL}}<p><a href="{{.StatusURL}}">Follow your application</a></p>{{end}}
  <p>BAY SA WAAR</p>
</body>
</html>`,

	templateEnrollmentReview: `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>New {{.EnrollmentType}} application</h2>
  <ul>
    <li>Applicant: {{.FirstName}} {{.LastName}}</li>
    <li>Email: {{.ContactEmail}}</li>
    {{if .ContactPhone}}<li>Phone: {{.ContactPhone}}</li>{{end}}
    {{if .CompanyName}}<li>Company: {{.CompanyName}}</li>{{end}}
    <li>Documents: {{.DocumentCount}}</li>
  </ul>
  <p>Reference: <code>{{.EnrollmentID}}</code></p>
</body>
</html>`,

	templateStatusChanged: `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Hello {{.FirstName}},</h2>
  <p>Your {{.EnrollmentType}} application is now <strong>{{.StatusLabel}}</strong>.</p>
  {{if .Notes}}<p>{{.Notes}}</p>{{end}}
  {{if .RejectionReason}}<p>Reason: {{.RejectionReason}}</p>{{end}}
  {{if .ApprovalConditions}}
  <p>Conditions:</p>
  <ul>{{range .ApprovalConditions}}<li>{{.}}</li>{{end}}</ul>
  {{end}}
  {{if .StatusURL}}<p><a href="{{.StatusURL}}">View your application</a></p>{{end}}
  <p>BAY SA WAAR</p>
</body>
</html>`,

	templateContactReceived: `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>{{.Subject}}</h2>
  <p>From {{.ContactName}} &lt;{{.ContactEmail}}&gt;{{if .CompanyName}}, {{.CompanyName}}{{end}}</p>
  {{if .ContactPhone}}<p>Phone: {{.ContactPhone}}</p>{{end}}
  <p>Category: {{.Category}}</p>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
</body>
</html>`,

	templateContactAck: `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Hello {{.ContactName}},</h2>
  <p>Thank you for contacting BAY SA WAAR. We received your message "{{.Subject}}" and will get back to you shortly.</p>
  <p>BAY SA WAAR</p>
</body>
</html>`,
}
