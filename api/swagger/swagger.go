package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "University ADP API",
        "description": "University administration service with automated timetable generation",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Departments", "description": "Department catalogue"},
        {"name": "Subjects", "description": "Subject catalogue"},
        {"name": "Classrooms", "description": "Classroom inventory"},
        {"name": "Staff", "description": "Teaching staff and subject selections"},
        {"name": "Constraints", "description": "Workload constraints"},
        {"name": "Timetables", "description": "Timetable generation, validation and retrieval"}
    ],
    "paths": {
        "/departments": {
            "get": {
                "tags": ["Departments"],
                "summary": "List departments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Departments"],
                "summary": "Create department",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDepartmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/departments/{id}": {
            "get": {
                "tags": ["Departments"],
                "summary": "Get department",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "parameters": [
                    {"name": "departmentId", "in": "query", "type": "string"},
                    {"name": "subjectType", "in": "query", "type": "string", "enum": ["theory", "lab"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Get subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/classrooms": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "List classrooms",
                "parameters": [
                    {"name": "departmentId", "in": "query", "type": "string"},
                    {"name": "roomType", "in": "query", "type": "string", "enum": ["lecture", "lab", "seminar"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Classrooms"],
                "summary": "Create classroom",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassroomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff": {
            "get": {
                "tags": ["Staff"],
                "summary": "List staff members",
                "parameters": [
                    {"name": "departmentId", "in": "query", "type": "string"},
                    {"name": "lockedOnly", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Staff"],
                "summary": "Register staff member",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStaffRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/{id}/subjects": {
            "put": {
                "tags": ["Staff"],
                "summary": "Replace subject selection",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStaffSubjectsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Selection locked"}
                }
            }
        },
        "/staff/{id}/subjects/lock": {
            "post": {
                "tags": ["Staff"],
                "summary": "Lock subject selection",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Empty selection"}
                }
            }
        },
        "/constraints": {
            "get": {
                "tags": ["Constraints"],
                "summary": "List workload constraints",
                "parameters": [
                    {"name": "departmentId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Constraints"],
                "summary": "Create workload constraint",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateConstraintRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/constraints/{id}": {
            "delete": {
                "tags": ["Constraints"],
                "summary": "Delete workload constraint",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate a new timetable version",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "Generated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Queued"},
                    "412": {"description": "Missing subjects, staff or classrooms"}
                }
            }
        },
        "/timetables/validate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Validate a timetable proposal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateProposalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{departmentId}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get a stored timetable version",
                "parameters": [
                    {"name": "departmentId", "in": "path", "required": true, "type": "string"},
                    {"name": "version", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/timetables/{departmentId}/versions": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List stored timetable versions",
                "parameters": [
                    {"name": "departmentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{departmentId}/export": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Export a timetable version as CSV or PDF",
                "parameters": [
                    {"name": "departmentId", "in": "path", "required": true, "type": "string"},
                    {"name": "version", "in": "query", "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        }
    },
    "definitions": {
        "CreateDepartmentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "code": {"type": "string"}
            },
            "required": ["name", "code"]
        },
        "CreateSubjectRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "code": {"type": "string"},
                "credits": {"type": "integer", "minimum": 1, "maximum": 10},
                "department_id": {"type": "string"},
                "subject_type": {"type": "string", "enum": ["theory", "lab"]}
            },
            "required": ["name", "code", "credits", "department_id", "subject_type"]
        },
        "CreateClassroomRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "capacity": {"type": "integer"},
                "department_id": {"type": "string"},
                "room_type": {"type": "string", "enum": ["lecture", "lab", "seminar"]}
            },
            "required": ["name", "capacity", "department_id", "room_type"]
        },
        "CreateStaffRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "staff_role": {"type": "string", "enum": ["assistant_professor", "professor", "hod"]},
                "department_id": {"type": "string"}
            },
            "required": ["name", "email", "staff_role", "department_id"]
        },
        "UpdateStaffSubjectsRequest": {
            "type": "object",
            "properties": {
                "subject_ids": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["subject_ids"]
        },
        "CreateConstraintRequest": {
            "type": "object",
            "properties": {
                "department_id": {"type": "string"},
                "staff_role": {"type": "string", "enum": ["assistant_professor", "professor", "hod"]},
                "subject_type": {"type": "string", "enum": ["theory", "lab", "both"]},
                "max_subjects": {"type": "integer"},
                "max_hours": {"type": "integer"}
            },
            "required": ["staff_role", "subject_type", "max_subjects", "max_hours"]
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "department_id": {"type": "string"},
                "use_proposals": {"type": "boolean"},
                "async": {"type": "boolean"}
            },
            "required": ["department_id"]
        },
        "TimetableSlotInput": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "time_slot": {"type": "string"},
                "subject_id": {"type": "string"},
                "staff_id": {"type": "string"},
                "classroom_id": {"type": "string"}
            },
            "required": ["day", "time_slot", "subject_id", "staff_id", "classroom_id"]
        },
        "ValidateProposalRequest": {
            "type": "object",
            "properties": {
                "department_id": {"type": "string"},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/TimetableSlotInput"}}
            },
            "required": ["department_id", "slots"]
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
                "status": {"type": "integer"}
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
