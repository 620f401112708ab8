package certificates

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	trainingapp "github.com/formax/backend/internal/application/training"
)

// certificateTemplate is the single built-in certificate layout. Spanish
// wording matches the paper certificates the office issued by hand.
const certificateTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Number}}</title>
<style>
  @page { size: A4 portrait; }
  body {
    font-family: Georgia, "Times New Roman", serif;
    color: #1a1a2e;
    margin: 0;
    padding: 48px 56px;
  }
  .frame {
    border: 3px double #1f3a5f;
    padding: 56px 48px;
    text-align: center;
  }
  .heading {
    font-size: 28px;
    letter-spacing: 4px;
    text-transform: uppercase;
    color: #1f3a5f;
    margin-bottom: 8px;
  }
  .number {
    font-size: 12px;
    color: #6b7280;
    letter-spacing: 2px;
    margin-bottom: 40px;
  }
  .certifies { font-size: 14px; color: #4b5563; }
  .attendee {
    font-size: 24px;
    font-weight: bold;
    margin: 16px 0 4px;
  }
  .nif { font-size: 12px; color: #6b7280; margin-bottom: 32px; }
  .course {
    font-size: 18px;
    font-style: italic;
    margin: 8px 0;
  }
  .details { font-size: 13px; color: #4b5563; margin-top: 24px; line-height: 1.7; }
  .issued { font-size: 12px; color: #6b7280; margin-top: 48px; }
</style>
</head>
<body>
  <div class="frame">
    <div class="heading">Certificado de Formación</div>
    <div class="number">{{.Number}}</div>
    <div class="certifies">Se certifica que</div>
    <div class="attendee">{{.AttendeeName}}</div>
    <div class="nif">NIF {{.AttendeeNIF}}</div>
    <div class="certifies">ha superado con aprovechamiento el curso</div>
    <div class="course">{{.CourseTitle}}</div>
    <div class="details">
      Duración: {{.Hours}} horas lectivas<br>
      Fecha de impartición: {{formatDate .SessionDate}}
    </div>
    <div class="issued">Expedido el {{formatDate .IssuedAt}}</div>
  </div>
</body>
</html>`

// BuildCertificateHTML renders the certificate layout with the given data
func BuildCertificateHTML(data trainingapp.CertificateData) (string, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("02/01/2006")
		},
	}

	tmpl, err := template.New("certificate").Funcs(funcMap).Parse(certificateTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse certificate template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute certificate template: %w", err)
	}

	return buf.String(), nil
}
