package models

// Course is the catalog view of a course as seen by the scheduler.
type Course struct {
	ID         string     `db:"id" json:"id"`
	Code       string     `db:"code" json:"code"`
	Name       string     `db:"name" json:"name"`
	Credit     float64    `db:"credit" json:"credit"`
	Department Department `db:"department" json:"department"`
}
