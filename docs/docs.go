// Package docs registers the OpenAPI document served at /swagger/*.
// It follows the layout swag init emits; keep it in step with the handler
// annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/users/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List upcoming events",
                "parameters": [
                    {"type": "string", "description": "Lower bound on start date (YYYY-MM-DD)", "name": "from", "in": "query", "required": true},
                    {"type": "integer", "description": "Rows to skip", "name": "offset", "in": "query"},
                    {"type": "integer", "description": "Maximum rows", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.eventsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/users/reserve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["reservations"],
                "summary": "Reserve or cancel a seat",
                "parameters": [
                    {"description": "Target event and desired state", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.reserveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.toggleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/companies/events": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List the calling host's events with attendee counts",
                "parameters": [
                    {"description": "Listing window", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.hostEventsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.hostEventsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "code": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "group_id": {"type": "integer"}}
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {"code": {"type": "integer"}, "token": {"type": "string"}, "user": {"$ref": "#/definitions/handler.userResponse"}}
        },
        "handler.eventResponse": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "user_id": {"type": "integer"}, "name": {"type": "string"}, "start_date": {"type": "string", "example": "2024-03-09 18:30:00"}}
        },
        "handler.eventsResponse": {
            "type": "object",
            "properties": {"code": {"type": "integer"}, "events": {"type": "array", "items": {"$ref": "#/definitions/handler.eventResponse"}}}
        },
        "handler.hostEventResponse": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "user_id": {"type": "integer"}, "name": {"type": "string"}, "start_date": {"type": "string"}, "attendee_count": {"type": "integer"}, "number_of_attendees": {"type": "integer"}}
        },
        "handler.hostEventsResponse": {
            "type": "object",
            "properties": {"code": {"type": "integer"}, "events": {"type": "array", "items": {"$ref": "#/definitions/handler.hostEventResponse"}}}
        },
        "handler.hostEventsRequest": {
            "type": "object",
            "required": ["from"],
            "properties": {"from": {"type": "string"}, "offset": {"type": "string"}, "limit": {"type": "string"}}
        },
        "handler.reserveRequest": {
            "type": "object",
            "required": ["event_id", "reserve"],
            "properties": {"event_id": {"type": "integer"}, "reserve": {"type": "string", "enum": ["true", "false"]}}
        },
        "handler.toggleResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "enum": [200, 501, 502]},
                "outcome": {"type": "string", "enum": ["OK", "ALREADY_RESERVED", "NOT_RESERVED_CANNOT_CANCEL"]},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Event Reservations API",
	Description:      "Event catalog and seat reservations for attendees and hosts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
