// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/daemon/main.go -o internal/docs
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/daemon.HealthResponse"}}}
            }
        },
        "/config": {
            "get": {
                "produces": ["application/json"],
                "tags": ["config"],
                "summary": "Get extraction defaults",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["config"],
                "summary": "Update extraction defaults",
                "parameters": [{"in": "body", "name": "request", "schema": {"$ref": "#/definitions/daemon.ConfigUpdateRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/daemon.ErrorResponse"}}
                }
            }
        },
        "/folders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["folders"],
                "summary": "List scanned folders",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["folders"],
                "summary": "Scan a folder and register its videos",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/daemon.AddFolderRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/daemon.AddFolderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/daemon.ErrorResponse"}}
                }
            }
        },
        "/videos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "List videos",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Register a video",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/daemon.AddVideoRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/daemon.AddVideoResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/daemon.ErrorResponse"}}
                }
            }
        },
        "/videos/{videoID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Get video details",
                "parameters": [{"type": "string", "name": "videoID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/daemon.ErrorResponse"}}
                }
            }
        },
        "/videos/{videoID}/extract": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Start extraction job",
                "parameters": [
                    {"type": "string", "name": "videoID", "in": "path", "required": true},
                    {"in": "body", "name": "request", "schema": {"$ref": "#/definitions/daemon.ExtractRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/daemon.StartJobResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/daemon.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/daemon.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/daemon.ErrorResponse"}}
                }
            }
        },
        "/videos/{videoID}/cancel": {
            "post": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Cancel extraction job",
                "parameters": [{"type": "string", "name": "videoID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/daemon.CancelJobResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/daemon.ErrorResponse"}}
                }
            }
        },
        "/videos/{videoID}/frames": {
            "get": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "List extracted frames",
                "parameters": [{"type": "string", "name": "videoID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/daemon.FramesResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/daemon.ErrorResponse"}}
                }
            }
        },
        "/jobs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "List jobs",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/jobs/{jobID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Get job",
                "parameters": [{"type": "string", "name": "jobID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/daemon.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "daemon.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "daemon.HealthResponse": {"type": "object", "properties": {"status": {"type": "string"}, "version": {"type": "string"}}},
        "daemon.ConfigUpdateRequest": {"type": "object", "properties": {
            "frame_count": {"type": "integer"}, "quality": {"type": "integer"}, "workers": {"type": "integer"},
            "backend": {"type": "string"}, "clamp_frame_count": {"type": "boolean"}, "cap_frame_count": {"type": "boolean"}}},
        "daemon.AddFolderRequest": {"type": "object", "properties": {"path": {"type": "string"}, "recursive": {"type": "boolean"}}},
        "daemon.AddFolderResponse": {"type": "object", "properties": {
            "folder_id": {"type": "string"}, "status": {"type": "string"}, "video_ids": {"type": "array", "items": {"type": "string"}}}},
        "daemon.AddVideoRequest": {"type": "object", "properties": {"path": {"type": "string"}}},
        "daemon.AddVideoResponse": {"type": "object", "properties": {"video_id": {"type": "string"}, "status": {"type": "string"}}},
        "daemon.ExtractRequest": {"type": "object", "properties": {
            "frame_count": {"type": "integer"}, "output_dir": {"type": "string"}, "quality": {"type": "integer"}}},
        "daemon.StartJobResponse": {"type": "object", "properties": {"status": {"type": "string"}, "job_id": {"type": "string"}}},
        "daemon.CancelJobResponse": {"type": "object", "properties": {"status": {"type": "string"}}},
        "daemon.FramesResponse": {"type": "object", "properties": {
            "video_id": {"type": "string"}, "files": {"type": "array", "items": {"type": "string"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Frame Sampler API",
	Description:      "Schedules frame sampling jobs over local video files.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
