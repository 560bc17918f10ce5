// Package docs registers the Swagger specification served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "summary": "Readiness check (pings the database)",
                "responses": {
                    "200": {"description": "healthy"},
                    "503": {"description": "dependency unavailable"}
                }
            }
        },
        "/register": {
            "post": {
                "summary": "Register a new auditor account",
                "responses": {
                    "201": {"description": "created"},
                    "409": {"description": "email already registered"}
                }
            }
        },
        "/login": {
            "post": {
                "summary": "Authenticate and receive an access token",
                "responses": {
                    "200": {"description": "user and signed token"},
                    "401": {"description": "invalid credentials"}
                }
            }
        },
        "/audit-template": {
            "post": {
                "summary": "Create a blank audit template",
                "responses": {"201": {"description": "created template"}}
            }
        },
        "/audit-templates": {
            "get": {
                "summary": "List templates pending fill",
                "responses": {"200": {"description": "template list"}}
            }
        },
        "/audit-template/{id}": {
            "get": {
                "summary": "Get a template",
                "responses": {"200": {"description": "template"}, "404": {"description": "not found"}}
            },
            "put": {
                "summary": "Update a template's name and sections in place",
                "responses": {"200": {"description": "updated template"}}
            },
            "delete": {
                "summary": "Delete a template",
                "responses": {"204": {"description": "deleted"}}
            }
        },
        "/audit-form": {
            "post": {
                "summary": "Fill the default audit template into a new form version",
                "responses": {
                    "201": {"description": "form and ledger entry"},
                    "409": {"description": "version conflict"},
                    "502": {"description": "object storage failure"}
                }
            }
        },
        "/audit-form/{id}": {
            "post": {
                "summary": "Fill a specific template into a new form version",
                "responses": {"201": {"description": "form and ledger entry"}}
            },
            "delete": {
                "summary": "Delete a form (ledger entries remain)",
                "responses": {"204": {"description": "deleted"}}
            }
        },
        "/audit-forms/{id}": {
            "put": {
                "summary": "Produce the next version of a form and re-render its PDF",
                "responses": {
                    "200": {"description": "new form version and ledger entry"},
                    "409": {"description": "version conflict"}
                }
            }
        },
        "/audit-form/{id}/version/{version}": {
            "get": {
                "summary": "Get the snapshot of a form lineage at an exact version",
                "responses": {"200": {"description": "form snapshot"}, "404": {"description": "not found"}}
            }
        },
        "/audit-form/{formId}": {
            "get": {
                "summary": "Get the latest rendered artifact (presigned PDF URL) for a form",
                "responses": {"200": {"description": "ledger entry"}, "404": {"description": "no artifact"}}
            }
        },
        "/user-audit-forms/{userId}": {
            "get": {
                "summary": "List a user's audit forms",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "description": "FILLED restricts to filled forms"},
                    {"name": "sort", "in": "query", "type": "string", "description": "version_desc orders newest version first"}
                ],
                "responses": {"200": {"description": "form list"}}
            }
        },
        "/user-details/{userId}": {
            "get": {
                "summary": "Get an auditor's profile",
                "responses": {"200": {"description": "user"}, "404": {"description": "not found"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Audit API",
	Description:      "Restaurant HACCP audit management backend: templates, versioned audit forms, deterministic PDF artifacts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
