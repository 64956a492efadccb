// Package docs registers the OpenAPI document served under /swagger.
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
        "/route/generate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["route"],
                "summary": "Generate a walking route",
                "parameters": [
                    {
                        "description": "Route request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.UserInterestRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RouteResponse"}},
                    "400": {"description": "Bad Request"},
                    "422": {"description": "Unprocessable Entity"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "List categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.CategoriesResponse"}}
                }
            }
        },
        "/categories/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Get category",
                "parameters": [
                    {"type": "integer", "description": "Category ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Category"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Usage statistics",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/stats/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Category popularity",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/maps/config": {
            "get": {
                "produces": ["application/json"],
                "tags": ["maps"],
                "summary": "Map configuration",
                "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/maps/geocode": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["maps"],
                "summary": "Geocode an address",
                "parameters": [
                    {
                        "description": "Address",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object", "properties": {"address": {"type": "string"}}}
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/maps/suggestions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["maps"],
                "summary": "Address suggestions",
                "parameters": [
                    {
                        "description": "Partial address",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object", "properties": {"query": {"type": "string"}}}
                    }
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "types.UserLocation": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "types.UserInterestRequest": {
            "type": "object",
            "properties": {
                "user_interests": {"type": "string"},
                "available_time_hours": {"type": "integer", "minimum": 1, "maximum": 8},
                "user_location": {"$ref": "#/definitions/types.UserLocation"}
            }
        },
        "types.Category": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "avg_visit_duration": {"type": "integer"},
                "keywords": {"type": "array", "items": {"type": "string"}},
                "icon": {"type": "string"},
                "places_count": {"type": "integer"}
            }
        },
        "types.CategoriesResponse": {
            "type": "object",
            "properties": {
                "categories": {"type": "array", "items": {"$ref": "#/definitions/types.Category"}},
                "total": {"type": "integer"}
            }
        },
        "types.CandidatePlace": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "address": {"type": "string"},
                "coordinates": {
                    "type": "object",
                    "properties": {"latitude": {"type": "number"}, "longitude": {"type": "number"}}
                },
                "category": {
                    "type": "object",
                    "properties": {"id": {"type": "integer"}, "name": {"type": "string"}}
                },
                "description": {"type": "string"},
                "visit_duration": {"type": "integer"},
                "distance_from_user": {"type": "number"},
                "reasoning": {"type": "string"}
            }
        },
        "types.RouteResult": {
            "type": "object",
            "properties": {
                "places": {"type": "array", "items": {"$ref": "#/definitions/types.CandidatePlace"}},
                "route_order": {"type": "array", "items": {"type": "integer"}},
                "total_places": {"type": "integer"},
                "total_time_minutes": {"type": "integer"},
                "total_distance_km": {"type": "number"},
                "walking_time_minutes": {"type": "integer"},
                "visit_time_minutes": {"type": "integer"},
                "map_center": {"type": "array", "items": {"type": "number"}},
                "selected_categories": {"type": "array", "items": {"type": "integer"}},
                "map_data": {
                    "type": "object",
                    "properties": {
                        "center": {"type": "array", "items": {"type": "number"}},
                        "zoom": {"type": "integer"}
                    }
                }
            }
        },
        "types.RouteResponse": {
            "type": "object",
            "properties": {
                "route": {"$ref": "#/definitions/types.RouteResult"},
                "metadata": {
                    "type": "object",
                    "properties": {
                        "selected_categories": {"type": "array", "items": {"type": "integer"}},
                        "filtered_places_count": {"type": "integer"},
                        "request_id": {"type": "string"},
                        "execution_time_ms": {"type": "integer"},
                        "strategy": {"type": "string"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "AI Tourist Assistant API",
	Description:      "Personal walking routes around Nizhny Novgorod.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
