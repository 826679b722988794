package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Class Scheduling API",
        "description": "Weekly class timetables with instructor and room conflict detection",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Schedules", "description": "Schedule entry lifecycle"},
        {"name": "Availability", "description": "Free instructors and rooms for a slot"},
        {"name": "Statistics", "description": "Department, room and instructor load"},
        {"name": "Timetables", "description": "Weekday-grouped views"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedules",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "academicYear", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "integer", "enum": [1, 2]},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "courseId", "in": "query", "type": "string"},
                    {"name": "instructorId", "in": "query", "type": "string"},
                    {"name": "room", "in": "query", "type": "string"},
                    {"name": "dayOfWeek", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["ACTIVE", "RETIRED"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string", "enum": ["asc", "desc"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Create schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Scheduling conflict", "schema": {"$ref": "#/definitions/ConflictEnvelope"}},
                    "429": {"description": "Too many requests"}
                }
            }
        },
        "/api/v1/schedules/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Schedules"],
                "summary": "Update schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Scheduling conflict or retired schedule", "schema": {"$ref": "#/definitions/ConflictEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete schedule",
                "description": "Removes the entry, or retires it when attendance records reference it.",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "{deleted: true} or {deactivated: true}", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/available/instructors": {
            "get": {
                "tags": ["Availability"],
                "summary": "Available instructors",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/dayOfWeek"},
                    {"$ref": "#/parameters/startTime"},
                    {"$ref": "#/parameters/endTime"},
                    {"$ref": "#/parameters/academicYear"},
                    {"$ref": "#/parameters/semester"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid slot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/available/rooms": {
            "get": {
                "tags": ["Availability"],
                "summary": "Available rooms",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/dayOfWeek"},
                    {"$ref": "#/parameters/startTime"},
                    {"$ref": "#/parameters/endTime"},
                    {"$ref": "#/parameters/academicYear"},
                    {"$ref": "#/parameters/semester"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid slot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/sessions": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Sessions of a course on a date",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "query", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "academicYear", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/schedules/statistics": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Schedule statistics",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "academicYear", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK; X-Cache reports HIT or MISS", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/departments/{department}/schedule": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Department timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "department", "in": "path", "required": true, "type": "string"},
                    {"name": "academicYear", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/students/{id}/schedule": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Student timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "academicYear", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/instructors/{id}/schedule": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Instructor timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "academicYear", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "parameters": {
        "dayOfWeek": {"name": "dayOfWeek", "in": "query", "required": true, "type": "string"},
        "startTime": {"name": "startTime", "in": "query", "required": true, "type": "string", "description": "HH:MM"},
        "endTime": {"name": "endTime", "in": "query", "required": true, "type": "string", "description": "HH:MM"},
        "academicYear": {"name": "academicYear", "in": "query", "required": true, "type": "string", "description": "e.g. 2024-2025"},
        "semester": {"name": "semester", "in": "query", "required": true, "type": "integer", "enum": [1, 2]}
    },
    "definitions": {
        "CreateScheduleRequest": {
            "type": "object",
            "required": ["course_id", "instructor_id", "academic_year", "semester", "department", "day_of_week", "start_time", "end_time"],
            "properties": {
                "course_id": {"type": "string"},
                "instructor_id": {"type": "string"},
                "academic_year": {"type": "string", "example": "2024-2025"},
                "semester": {"type": "integer", "enum": [1, 2]},
                "department": {"type": "string", "enum": ["ICT", "CSE", "EEE", "CE", "ME", "BBA", "ENGLISH", "MATHEMATICS"]},
                "day_of_week": {"type": "string", "example": "Monday"},
                "start_time": {"type": "string", "example": "08:00"},
                "end_time": {"type": "string", "example": "09:30"},
                "room_number": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "UpdateScheduleRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "instructor_id": {"type": "string"},
                "academic_year": {"type": "string"},
                "semester": {"type": "integer"},
                "department": {"type": "string"},
                "day_of_week": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "room_number": {"type": "string", "description": "empty string clears the room"},
                "notes": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ConflictEnvelope": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string", "example": "SCHEDULING_CONFLICT"},
                        "message": {"type": "string"},
                        "status": {"type": "integer", "example": 409},
                        "details": {
                            "type": "object",
                            "properties": {
                                "instructor_conflicts": {"type": "array", "items": {"type": "object"}},
                                "room_conflicts": {"type": "array", "items": {"type": "object"}}
                            }
                        }
                    }
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
