package models

// StatisticsFilter narrows the entries considered by the statistics aggregator.
type StatisticsFilter struct {
	Department   Department
	AcademicYear string
	Semester     int
}

// DayLoad counts entries and distinct courses on a weekday.
type DayLoad struct {
	DayOfWeek       Weekday `json:"day_of_week"`
	Entries         int     `json:"entries"`
	DistinctCourses int     `json:"distinct_courses"`
}

// DepartmentStat summarises a department's weekly load.
type DepartmentStat struct {
	Department      Department `json:"department"`
	TotalEntries    int        `json:"total_entries"`
	DistinctCourses int        `json:"distinct_courses"`
	Days            []DayLoad  `json:"days"`
}

// RoomUtilization summarises bookings of a room.
type RoomUtilization struct {
	RoomNumber   string `json:"room_number"`
	Bookings     int    `json:"bookings"`
	DistinctDays int    `json:"distinct_days"`
	Minutes      int    `json:"minutes"`
}

// InstructorLoad summarises the teaching load of an instructor.
type InstructorLoad struct {
	InstructorID    string `json:"instructor_id"`
	InstructorName  string `json:"instructor_name,omitempty"`
	Entries         int    `json:"entries"`
	DistinctCourses int    `json:"distinct_courses"`
	DistinctDays    int    `json:"distinct_days"`
	Minutes         int    `json:"minutes"`
}

// ScheduleStatistics is the derived, non-persisted load summary.
type ScheduleStatistics struct {
	DepartmentStats []DepartmentStat  `json:"department_stats"`
	RoomUtilization []RoomUtilization `json:"room_utilization"`
	InstructorLoad  []InstructorLoad  `json:"instructor_load"`
}
