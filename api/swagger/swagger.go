package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Registry API",
        "description": "Course enrollment, seat allocation and registry services",
        "version": "0.1.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Course catalog and capacity"},
        {"name": "Enrollments", "description": "Enrollment requests and seat allocation"},
        {"name": "Students", "description": "Student registry"},
        {"name": "Fees", "description": "Fee payments and clearance"},
        {"name": "Library", "description": "Book catalog and loans"},
        {"name": "Analytics", "description": "Performance analytics"},
        {"name": "Reports", "description": "Queued report generation"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OkEnvelope"}},
                    "400": {"description": "Validation or duplicate", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Inspect a course waitlist",
                "parameters": [
                    {"name": "courseCode", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Submit enrollment request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentRequestPayload"}}
                ],
                "responses": {
                    "200": {"description": "Queued", "schema": {"$ref": "#/definitions/OkEnvelope"}},
                    "400": {"description": "Duplicate or validation", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "404": {"description": "Unknown course or student", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/enrollments/allocate": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Allocate the next seat for a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AllocatePayload"}}
                ],
                "responses": {
                    "200": {"description": "Allocation outcome", "schema": {"$ref": "#/definitions/OkEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "503": {"description": "Ledger unavailable", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/enrollments/reject": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Reject a waiting enrollment request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentRequestPayload"}}
                ],
                "responses": {
                    "200": {"description": "Rejected", "schema": {"$ref": "#/definitions/OkEnvelope"}},
                    "404": {"description": "No waiting request", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "Search students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Add student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OkEnvelope"}},
                    "400": {"description": "Duplicate or validation", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/students/remove/{id}": {
            "post": {
                "tags": ["Students"],
                "summary": "Remove student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Removed", "schema": {"$ref": "#/definitions/OkEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/fees": {
            "get": {
                "tags": ["Fees"],
                "summary": "List fee payments",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/fees/pay": {
            "post": {
                "tags": ["Fees"],
                "summary": "Record a fee payment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordPaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OkEnvelope"}},
                    "404": {"description": "Unknown student", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/fees/clearance/{studentId}": {
            "get": {
                "tags": ["Fees"],
                "summary": "Fee clearance status",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/library": {
            "get": {
                "tags": ["Library"],
                "summary": "Search books",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/library/borrow": {
            "post": {
                "tags": ["Library"],
                "summary": "Borrow a book",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoanRequest"}}
                ],
                "responses": {
                    "200": {"description": "Borrowed", "schema": {"$ref": "#/definitions/OkEnvelope"}},
                    "400": {"description": "Book unavailable", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/library/return": {
            "post": {
                "tags": ["Library"],
                "summary": "Return a book",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoanRequest"}}
                ],
                "responses": {
                    "200": {"description": "Returned", "schema": {"$ref": "#/definitions/OkEnvelope"}}
                }
            }
        },
        "/analytics/overview": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Performance overview",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/analytics/top": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Top performers",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/analytics/graph": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Course averages",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "Queued", "schema": {"$ref": "#/definitions/OkEnvelope"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateCourseRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "title": {"type": "string"},
                "capacity": {"type": "integer"}
            },
            "required": ["code", "title", "capacity"]
        },
        "EnrollmentRequestPayload": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "studentId": {"type": "string"}
            },
            "required": ["courseCode", "studentId"]
        },
        "AllocatePayload": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"}
            },
            "required": ["courseCode"]
        },
        "AddStudentRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "grade": {"type": "string"},
                "contact": {"type": "string"}
            },
            "required": ["id", "name"]
        },
        "RecordPaymentRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"},
                "amount": {"type": "number"}
            },
            "required": ["studentId", "amount"]
        },
        "LoanRequest": {
            "type": "object",
            "properties": {
                "bookId": {"type": "string"},
                "studentId": {"type": "string"}
            },
            "required": ["bookId", "studentId"]
        },
        "CreateReportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "courseCode": {"type": "string"},
                "format": {"type": "string"}
            },
            "required": ["type", "format"]
        },
        "OkEnvelope": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"}
            }
        },
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "code": {"type": "string"},
                "message": {"type": "string"}
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
