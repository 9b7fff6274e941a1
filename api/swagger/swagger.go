// Package swagger serves the hand-maintained OpenAPI document.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SIS Enrollment API",
        "description": "Student enrollment wizard and records service",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Wizard", "description": "Enrollment wizard flow"},
        {"name": "Enrollment", "description": "Submitted enrollment records"},
        {"name": "Catalog", "description": "Course and grade-level catalogs"}
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
        "/wizard": {
            "get": {
                "tags": ["Wizard"],
                "summary": "Current wizard session",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Wizard"],
                "summary": "Discard the wizard session",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/compliance": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Accept the compliance notice",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/level": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Pick the schooling level",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectLevelRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Enrollment period closed for the level"}
                }
            }
        },
        "/wizard/grade": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Pick a high-school grade",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectGradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/irregular/confirm": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Accept the irregular-standing prompt",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/irregular/cancel": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Dismiss the irregular-standing prompt",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/course": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Pick a college course",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/course-change/confirm": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Commit a staged course switch",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/course-change/cancel": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Discard a staged course switch",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/year": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Pick the college year level",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectYearRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/semester": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Pick a semester",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectSemesterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK; the availability verdict rides in the response data", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/personal-info": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Store the student's personal data",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PersonalInfo"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/wizard/re-enroll": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Seed the wizard from the previous enrollment",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No previous enrollment on record"}
                }
            }
        },
        "/wizard/submit": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Submit the enrollment",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "A submission is already in progress"}
                }
            }
        },
        "/wizard/back": {
            "post": {
                "tags": ["Wizard"],
                "summary": "Step backwards through the wizard",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollment": {
            "get": {
                "tags": ["Enrollment"],
                "summary": "Current school-year enrollment",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No enrollment for the current school year"}
                }
            },
            "delete": {
                "tags": ["Enrollment"],
                "summary": "Delete the current enrollment",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeleteEnrollmentRequest"}}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "412": {"description": "Deletion not confirmed or delay not elapsed"}
                }
            }
        },
        "/enrollment/previous": {
            "get": {
                "tags": ["Enrollment"],
                "summary": "Most recent enrollment on record",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollment/slip": {
            "get": {
                "tags": ["Enrollment"],
                "summary": "Download the enrollment slip as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "PDF payload"}
                }
            }
        },
        "/enrollment/delete-confirmation": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Stage an enrollment deletion",
                "parameters": [
                    {"name": "X-User-ID", "in": "header", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List college courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grade-levels": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List grade levels",
                "parameters": [
                    {"name": "department", "in": "query", "type": "string", "enum": ["JHS", "SHS"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SelectLevelRequest": {
            "type": "object",
            "required": ["level"],
            "properties": {
                "level": {"type": "string", "enum": ["high-school", "college"]}
            }
        },
        "SelectGradeRequest": {
            "type": "object",
            "required": ["gradeId"],
            "properties": {
                "gradeId": {"type": "string"}
            }
        },
        "SelectCourseRequest": {
            "type": "object",
            "required": ["courseCode"],
            "properties": {
                "courseCode": {"type": "string"}
            }
        },
        "SelectYearRequest": {
            "type": "object",
            "required": ["year"],
            "properties": {
                "year": {"type": "integer", "minimum": 1}
            }
        },
        "SelectSemesterRequest": {
            "type": "object",
            "required": ["semester"],
            "properties": {
                "semester": {"type": "string", "enum": ["first-sem", "second-sem"]}
            }
        },
        "PersonalInfo": {
            "type": "object",
            "required": ["first_name", "last_name", "birth_day", "birth_month", "birth_year", "gender", "phone", "email", "address"],
            "properties": {
                "first_name": {"type": "string"},
                "middle_name": {"type": "string"},
                "last_name": {"type": "string"},
                "suffix": {"type": "string"},
                "birth_day": {"type": "integer"},
                "birth_month": {"type": "integer"},
                "birth_year": {"type": "integer"},
                "gender": {"type": "string", "enum": ["male", "female"]},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "guardian": {"type": "string"}
            }
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "documents": {
                    "type": "object",
                    "properties": {
                        "birth_certificate": {"type": "boolean"},
                        "report_card": {"type": "boolean"},
                        "good_moral": {"type": "boolean"}
                    }
                }
            }
        },
        "DeleteEnrollmentRequest": {
            "type": "object",
            "required": ["token"],
            "properties": {
                "token": {"type": "string"},
                "acknowledged": {"type": "boolean"}
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
