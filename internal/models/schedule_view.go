package models

// ScheduleView is a schedule entry joined with course and instructor display fields.
type ScheduleView struct {
	Schedule       ScheduleEntry `json:"schedule"`
	CourseCode     string        `json:"course_code,omitempty"`
	CourseName     string        `json:"course_name,omitempty"`
	CourseCredit   float64       `json:"course_credit,omitempty"`
	InstructorName string        `json:"instructor_name,omitempty"`
}

// DaySchedule groups views by weekday. Every weekday key is present.
type DaySchedule map[Weekday][]ScheduleView

// NewDaySchedule returns a DaySchedule with an empty list for each weekday.
func NewDaySchedule() DaySchedule {
	days := make(DaySchedule, len(Weekdays))
	for _, day := range Weekdays {
		days[day] = []ScheduleView{}
	}
	return days
}

// Count returns the number of entries across all days.
func (d DaySchedule) Count() int {
	total := 0
	for _, items := range d {
		total += len(items)
	}
	return total
}
