// Package docs registers the swagger document served under /swagger.
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
        "/api/v1/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Get dashboard state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DashboardStateResponse"}}
                }
            }
        },
        "/api/v1/dashboard/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Get KPI summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "Stats unavailable", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/dashboard/logs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Get recent logs",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/dashboard/charts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["charts"],
                "summary": "List chart facets",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}
                }
            }
        },
        "/api/v1/dashboard/charts/{facet}": {
            "get": {
                "produces": ["image/png", "image/svg+xml"],
                "tags": ["charts"],
                "summary": "Get chart image",
                "parameters": [
                    {
                        "enum": ["status_codes", "services", "response_times", "hourly_traffic", "top_endpoints", "success_error"],
                        "type": "string",
                        "description": "Chart facet",
                        "name": "facet",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Unknown facet", "schema": {"$ref": "#/definitions/model.Response"}},
                    "404": {"description": "Nothing drawn", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/dashboard/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Refresh the dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DashboardStateResponse"}},
                    "409": {"description": "Cycle already in flight", "schema": {"$ref": "#/definitions/model.Response"}},
                    "502": {"description": "Gateway unreachable", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/dashboard/auto-refresh": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Configure auto-refresh",
                "parameters": [
                    {
                        "description": "Refresh interval",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.AutoRefreshRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AutoRefreshResponse"}},
                    "400": {"description": "Invalid interval", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/dashboard/download": {
            "get": {
                "tags": ["dashboard"],
                "summary": "Download the full log export",
                "responses": {"302": {"description": "Found"}}
            }
        },
        "/api/v1/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Get session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}}
                }
            }
        },
        "/api/v1/session/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Sign in",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LoginResponse"}},
                    "401": {"description": "Rejected credentials", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/session/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Register an account",
                "parameters": [
                    {
                        "description": "Account",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.RegisterResponse"}}
                }
            }
        },
        "/api/v1/session/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Sign out",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/session/validate": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Validate the stored token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}}
                }
            }
        },
        "/api/v1/tasks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List tasks",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Create a task",
                "parameters": [
                    {
                        "description": "Task",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.CreateTaskRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CreateTaskResponse"}},
                    "400": {"description": "Invalid field", "schema": {"$ref": "#/definitions/model.Response"}},
                    "401": {"description": "Not signed in", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Log source unreachable", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        }
    },
    "definitions": {
        "dto.AutoRefreshRequest": {
            "type": "object",
            "properties": {"interval_seconds": {"type": "integer", "minimum": 0, "maximum": 86400}}
        },
        "dto.AutoRefreshResponse": {
            "type": "object",
            "properties": {"enabled": {"type": "boolean"}, "interval_seconds": {"type": "integer"}}
        },
        "dto.CreateTaskRequest": {
            "type": "object",
            "properties": {
                "deadline": {"type": "string"},
                "desc_task": {"type": "string"},
                "isActive": {"type": "boolean"},
                "name_task": {"type": "string"},
                "status": {"type": "integer", "enum": [1, 2, 3]}
            }
        },
        "dto.CreateTaskResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "task_id": {"type": "integer"}}
        },
        "dto.DashboardStateResponse": {
            "type": "object",
            "properties": {
                "auto_refresh_seconds": {"type": "integer"},
                "charts": {"type": "array", "items": {"type": "object"}},
                "error": {"type": "string"},
                "last_cycle_at": {"type": "string"},
                "last_cycle_id": {"type": "string"},
                "loading": {"type": "boolean"},
                "logs_error": {"type": "string"},
                "recent_logs": {"type": "array", "items": {"type": "object"}},
                "snapshot": {"type": "object"},
                "stats_error": {"type": "string"},
                "summary": {"type": "object"},
                "total_logs": {"type": "integer"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "services": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"otp": {"type": "string"}, "password": {"type": "string"}, "username": {"type": "string"}}
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"},
                "user_id": {"type": "integer"},
                "username": {"type": "string"}
            }
        },
        "dto.RegisterRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "dto.RegisterResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "otpAuthUrl": {"type": "string"}, "user_id": {"type": "integer"}}
        },
        "dto.SessionResponse": {
            "type": "object",
            "properties": {
                "authenticated": {"type": "boolean"},
                "expired": {"type": "boolean"},
                "user_id": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "model.Response": {
            "type": "object",
            "properties": {"data": {}, "message": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Logs Dashboard API",
	Description:      "Dashboard over the API gateway's request logs: KPIs, chart facets, recent logs, auto-refresh, session and task forwarding.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
