// Package docs provides swagger documentation for the Booking Demo API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Booking Demo API",
        "description": "Demo booking service used as the system under test for the QA automation suite",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "1.0"
    },
    "host": "{{.Host}}",
    "basePath": "/",
    "paths": {
        "/health": {
            "get": {
                "description": "Returns ok when the service is ready to accept requests",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "Service status",
                        "schema": {"$ref": "#/definitions/HealthResponse"}
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "description": "Authenticate with username and password, returns a session token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "credentials",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Session token",
                        "schema": {"$ref": "#/definitions/LoginResponse"}
                    },
                    "400": {
                        "description": "Invalid request body",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "401": {
                        "description": "Invalid credentials",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    }
                }
            }
        },
        "/auth/logout": {
            "post": {
                "description": "Delete the current session and clear the session cookie",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log out",
                "responses": {
                    "200": {
                        "description": "Logged out",
                        "schema": {"$ref": "#/definitions/SuccessResponse"}
                    }
                }
            }
        },
        "/api/bookings": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Returns all bookings, newest first",
                "produces": ["application/json"],
                "tags": ["Bookings"],
                "summary": "List all bookings",
                "responses": {
                    "200": {
                        "description": "List of bookings",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/Booking"}
                        }
                    },
                    "401": {
                        "description": "Unauthorized - invalid or missing API key",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    }
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Create a new booking for a stay",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Bookings"],
                "summary": "Create a booking",
                "parameters": [
                    {
                        "description": "Booking to create",
                        "name": "booking",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateBookingRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created booking",
                        "schema": {"$ref": "#/definitions/Booking"}
                    },
                    "400": {
                        "description": "Invalid request body",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "401": {
                        "description": "Unauthorized - invalid or missing API key",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    }
                }
            }
        },
        "/api/bookings/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Returns a single booking by its ID",
                "produces": ["application/json"],
                "tags": ["Bookings"],
                "summary": "Get booking by ID",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Booking ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Booking details",
                        "schema": {"$ref": "#/definitions/Booking"}
                    },
                    "401": {
                        "description": "Unauthorized - invalid or missing API key",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "404": {
                        "description": "Booking not found",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    }
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Replace all fields of an existing booking",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Bookings"],
                "summary": "Update a booking",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Booking ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Booking fields",
                        "name": "booking",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateBookingRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated booking",
                        "schema": {"$ref": "#/definitions/Booking"}
                    },
                    "400": {
                        "description": "Invalid request body",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "401": {
                        "description": "Unauthorized - invalid or missing API key",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "404": {
                        "description": "Booking not found",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    }
                }
            },
            "patch": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Update only the provided fields of an existing booking",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Bookings"],
                "summary": "Patch a booking",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Booking ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Booking fields to update",
                        "name": "booking",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/PatchBookingRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated booking",
                        "schema": {"$ref": "#/definitions/Booking"}
                    },
                    "400": {
                        "description": "Invalid request body",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "401": {
                        "description": "Unauthorized - invalid or missing API key",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "404": {
                        "description": "Booking not found",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    }
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Delete a booking by its ID",
                "tags": ["Bookings"],
                "summary": "Delete a booking",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Booking ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Booking deleted"
                    },
                    "401": {
                        "description": "Unauthorized - invalid or missing API key",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "404": {
                        "description": "Booking not found",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "Booking": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "description": "Booking ID",
                    "example": "6f1c7f0a-4a2e-4e87-a64e-7a3e8f9b2c11"
                },
                "firstname": {
                    "type": "string",
                    "example": "Jim"
                },
                "lastname": {
                    "type": "string",
                    "example": "Brown"
                },
                "totalprice": {
                    "type": "integer",
                    "example": 111
                },
                "depositpaid": {
                    "type": "boolean",
                    "example": true
                },
                "checkin": {
                    "type": "string",
                    "description": "Check-in date (YYYY-MM-DD)",
                    "example": "2026-09-01"
                },
                "checkout": {
                    "type": "string",
                    "description": "Check-out date (YYYY-MM-DD)",
                    "example": "2026-09-05"
                },
                "additionalneeds": {
                    "type": "string",
                    "example": "Breakfast"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "CreateBookingRequest": {
            "type": "object",
            "required": ["firstname", "lastname", "checkin", "checkout"],
            "properties": {
                "firstname": {"type": "string", "example": "Sally"},
                "lastname": {"type": "string", "example": "Jones"},
                "totalprice": {"type": "integer", "example": 250},
                "depositpaid": {"type": "boolean", "example": false},
                "checkin": {"type": "string", "example": "2026-09-04"},
                "checkout": {"type": "string", "example": "2026-09-06"},
                "additionalneeds": {"type": "string", "example": "Lunch"}
            }
        },
        "UpdateBookingRequest": {
            "type": "object",
            "required": ["firstname", "lastname", "checkin", "checkout"],
            "properties": {
                "firstname": {"type": "string"},
                "lastname": {"type": "string"},
                "totalprice": {"type": "integer"},
                "depositpaid": {"type": "boolean"},
                "checkin": {"type": "string"},
                "checkout": {"type": "string"},
                "additionalneeds": {"type": "string"}
            }
        },
        "PatchBookingRequest": {
            "type": "object",
            "properties": {
                "firstname": {"type": "string"},
                "lastname": {"type": "string"},
                "totalprice": {"type": "integer"},
                "depositpaid": {"type": "boolean"},
                "checkin": {"type": "string"},
                "checkout": {"type": "string"},
                "additionalneeds": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {
                    "type": "string",
                    "example": "admin"
                },
                "password": {
                    "type": "string",
                    "example": "admin123"
                }
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "token": {
                    "type": "string",
                    "description": "Session token",
                    "example": "3b9f2a44-8d7e-4c1a-9f2b-0a6e5d4c3b2a"
                }
            }
        },
        "HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "example": "ok"
                }
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "description": "Error message",
                    "example": "invalid request body"
                }
            }
        },
        "SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "string",
                    "description": "Success message",
                    "example": "logged out"
                }
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header",
            "description": "API Key for protected endpoints"
        },
        "SessionAuth": {
            "type": "apiKey",
            "name": "session_token",
            "in": "cookie",
            "description": "Session cookie for authenticated users"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Booking Demo API",
	Description:      "Demo booking service used as the system under test for the QA automation suite",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
