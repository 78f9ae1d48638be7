// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}},
        "/news": {
            "get": {"tags": ["feed"], "summary": "List articles", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["feed"], "summary": "Create article", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/news/upload": {"post": {"tags": ["feed"], "summary": "Create article with image", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/news/{id}": {
            "get": {"tags": ["feed"], "summary": "Get article", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["feed"], "summary": "Update article", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["feed"], "summary": "Delete article", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/news/{id}/like": {"post": {"tags": ["feed"], "summary": "Toggle like", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/news/{id}/comments": {
            "get": {"tags": ["feed"], "summary": "List comments", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["feed"], "summary": "Add comment", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/news/{id}/comments/{commentId}": {"delete": {"tags": ["feed"], "summary": "Delete comment", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/posts": {
            "get": {"tags": ["feed"], "summary": "List posts", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["feed"], "summary": "Create post", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/drinks": {
            "get": {"tags": ["drinks"], "summary": "List drinks", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["drinks"], "summary": "Create drink", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/drinks/upload": {"post": {"tags": ["drinks"], "summary": "Create drink with image", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/drinks/{id}": {
            "get": {"tags": ["drinks"], "summary": "Get drink", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["drinks"], "summary": "Update drink", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "delete": {"tags": ["drinks"], "summary": "Delete drink", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/drinks/{id}/reviews": {
            "get": {"tags": ["drinks"], "summary": "List reviews", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["drinks"], "summary": "Add review", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/drinks/{id}/reviews/{reviewId}": {"delete": {"tags": ["drinks"], "summary": "Delete review", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/user/profile": {"get": {"tags": ["user"], "summary": "Current user profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/user/avatar": {
            "post": {"tags": ["user"], "summary": "Upload avatar", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["user"], "summary": "Delete avatar", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/user/{userId}": {"get": {"tags": ["user"], "summary": "Public profile", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/user/{userId}/reputation-status": {"get": {"tags": ["user"], "summary": "Reputation vote status", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/user/{userId}/reputation": {"post": {"tags": ["user"], "summary": "Vote on reputation", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/users": {"get": {"tags": ["admin"], "summary": "List users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/admin/users/{id}": {"delete": {"tags": ["admin"], "summary": "Delete user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/users/{id}/role": {"patch": {"tags": ["admin"], "summary": "Assign role", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/users/{id}/reputation": {"patch": {"tags": ["admin"], "summary": "Set reputation", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/audit": {"get": {"tags": ["admin"], "summary": "Audit trail", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/schedule": {
            "get": {"tags": ["schedule"], "summary": "Get schedule", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"tags": ["schedule"], "summary": "Create shift", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/schedule/{id}": {
            "patch": {"tags": ["schedule"], "summary": "Update shift", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["schedule"], "summary": "Delete shift", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/schedule/employees": {"get": {"tags": ["schedule"], "summary": "List employees", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/schedule/templates": {"get": {"tags": ["schedule"], "summary": "List shift templates", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/uploads": {"post": {"tags": ["uploads"], "summary": "Upload image", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Coffee Shop Site API",
	Description:      "Accounts, news and posts, drinks with reviews, staff schedule and admin tools.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
