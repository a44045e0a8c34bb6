package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Homeschool Tracker API",
        "description": "Household homeschool record keeping: students, subjects, time entries, reports.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student roster and annual requirements"},
        {"name": "Subjects", "description": "Areas of study (Core / Non-Core)"},
        {"name": "TimeEntries", "description": "Study-time logging, including recurring series"},
        {"name": "Reports", "description": "Hour aggregations and requirement progress"},
        {"name": "Exports", "description": "CSV and PDF downloads"}
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
        "/api/v1/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register student",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["Students"],
                "summary": "Update student (partial)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student and cascade their time entries",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/api/v1/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/v1/subjects/{id}": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Get subject",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["Subjects"],
                "summary": "Update subject (partial)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Delete subject and cascade its time entries",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/api/v1/time-entries": {
            "get": {
                "tags": ["TimeEntries"],
                "summary": "List time entries",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["TimeEntries"],
                "summary": "Log a time entry",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/v1/time-entries/recurring": {
            "post": {
                "tags": ["TimeEntries"],
                "summary": "Log a recurring series (one series per selected student)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/v1/time-entries/{id}": {
            "get": {
                "tags": ["TimeEntries"],
                "summary": "Get time entry",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["TimeEntries"],
                "summary": "Update time entry (partial)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["TimeEntries"],
                "summary": "Delete time entry",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/api/v1/reports/summary": {
            "get": {
                "tags": ["Reports"],
                "summary": "Aggregate hours by subject, category, location and student",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/reports/progress/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Progress against annual hour requirements",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/api/v1/reports/school-years": {
            "get": {
                "tags": ["Reports"],
                "summary": "School years with logged entries",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/exports/entries.csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download time entries as CSV",
                "produces": ["text/csv"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/exports/summary.pdf": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the hours report as PDF",
                "produces": ["application/pdf"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
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
                "requestId": {"type": "string"}
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
