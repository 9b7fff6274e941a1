package models

// GradeLevel describes a selectable grade within a high school department.
type GradeLevel struct {
	ID         string     `db:"id" json:"id"`
	GradeLevel int        `db:"grade_level" json:"grade_level"`
	Department Department `db:"department" json:"department"`
	Strand     string     `db:"strand" json:"strand,omitempty"`
}

// Course describes a college program offering.
type Course struct {
	ID   string `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// Pagination carries page metadata for list endpoints.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
