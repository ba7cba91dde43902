// Package docs registers the OpenAPI description served at /swagger.
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
        "/register": {"post": {"tags": ["auth"], "summary": "User signup", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/login": {"post": {"tags": ["auth"], "summary": "User login", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/refresh": {"get": {"tags": ["auth"], "summary": "Issue a new access token from the refresh cookie", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/logout": {"get": {"tags": ["auth"], "summary": "Forget the refresh token", "responses": {"204": {"description": "No Content"}}}},
        "/forgetPassword": {"post": {"tags": ["auth"], "summary": "Send a password reset link", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/resetPassword/{token}": {"put": {"tags": ["auth"], "summary": "Set a new password with a reset token", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/posts": {
            "get": {"tags": ["posts"], "summary": "List all posts, newest first", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["posts"], "summary": "Create a post", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/posts/user": {"get": {"tags": ["posts"], "summary": "List the current user's posts", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/posts/{id}": {
            "get": {"tags": ["posts"], "summary": "Get a post", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["posts"], "summary": "Delete a post with its comments and likes", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/posts/{id}/comments": {"get": {"tags": ["posts"], "summary": "List the top-level comments of a post", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/comments": {
            "get": {"tags": ["comments"], "summary": "List every comment and reply", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["comments"], "summary": "Comment on a post", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/comments/{id}": {
            "get": {"tags": ["comments"], "summary": "Get a comment or reply", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["comments"], "summary": "Delete one of your comments with its replies", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/comments/replies": {"post": {"tags": ["comments"], "summary": "Reply to a comment", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/comments/replies/{id}": {
            "get": {"tags": ["comments"], "summary": "List the replies of a comment", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["comments"], "summary": "Delete one of your replies", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/comments/replies/{id}/total": {"get": {"tags": ["comments"], "summary": "Count the replies of a comment", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/likes": {
            "post": {"tags": ["likes"], "summary": "Like a post, comment or reply", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["likes"], "summary": "Remove one of your likes", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/likes/{id}": {"get": {"tags": ["likes"], "summary": "Count the likes of a post, comment or reply", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/users": {"get": {"tags": ["users"], "summary": "List all users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/users/{id}": {
            "get": {"tags": ["users"], "summary": "Get a user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["users"], "summary": "Delete a user (admin only)", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/users/updateMe": {"put": {"tags": ["users"], "summary": "Change the current user's username", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/users/updateMyPassword": {"put": {"tags": ["users"], "summary": "Change the current user's password", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/following": {
            "get": {"tags": ["following"], "summary": "List who the current user follows", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["following"], "summary": "Follow a user", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["following"], "summary": "Remove one of your follows", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/following/{id}": {"get": {"tags": ["following"], "summary": "List who a user follows", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/following/{id}/followers": {"get": {"tags": ["following"], "summary": "List the followers of a user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3500",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Inkwell API",
	Description:      "Social blogging API with posts, comments, replies, likes and follows",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
