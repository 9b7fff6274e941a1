package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/sis-enrollment-api/internal/models"
)

// SlipExporter renders enrollment slips as printable PDFs.
type SlipExporter struct {
	schoolName string
}

// NewSlipExporter constructs a slip exporter.
func NewSlipExporter(schoolName string) *SlipExporter {
	if schoolName == "" {
		schoolName = "Student Information System"
	}
	return &SlipExporter{schoolName: schoolName}
}

// Render produces the enrollment slip for a submitted enrollment.
func (e *SlipExporter) Render(record models.EnrollmentRecord) ([]byte, error) {
	if record.UserID == "" {
		return nil, fmt.Errorf("slip requires a submitted enrollment")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 15)
	pdf.CellFormat(0, 10, strings.ToUpper(e.schoolName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Enrollment Slip - S.Y. %s", record.SchoolYear), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	rows := [][2]string{
		{"Reference", record.ID},
		{"Name", record.PersonalInfo.FullName()},
		{"Level", string(record.Level)},
		{"Student Type", string(record.StudentType)},
		{"Status", string(record.Status)},
	}
	switch record.Level {
	case models.LevelCollege:
		rows = append(rows,
			[2]string{"Course", fmt.Sprintf("%s - %s", record.CourseCode, record.CourseName)},
			[2]string{"Year / Semester", fmt.Sprintf("Year %d, %s", record.YearLevel, record.Semester)},
		)
	case models.LevelHighSchool:
		rows = append(rows, [2]string{"Grade", fmt.Sprintf("Grade %d (%s)", record.GradeLevel, record.Department)})
		if record.Strand != "" {
			rows = append(rows, [2]string{"Strand", record.Strand})
		}
		if record.Semester != "" {
			rows = append(rows, [2]string{"Semester", string(record.Semester)})
		}
	}
	rows = append(rows, [2]string{"Submitted", record.SubmittedAt.Format("2006-01-02 15:04")})

	for _, row := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 8, row[0], "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(130, 8, row[1], "1", 1, "", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "Present this slip to the registrar upon request.", "", 1, "L", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render slip: %w", err)
	}
	return buf.Bytes(), nil
}
