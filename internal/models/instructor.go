package models

// Instructor is a roster member that can be assigned to schedule entries.
type Instructor struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}
