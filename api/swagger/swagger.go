package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Library Seat API",
        "description": "Real-time seat reservations for the library study room",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Projections",
            "description": "Read-only views"
        },
        {
            "name": "Bookings",
            "description": "Seat reservations"
        },
        {
            "name": "Admin",
            "description": "Shift and seat management"
        }
    ],
    "paths": {
        "/seats": {
            "get": {
                "tags": [
                    "Projections"
                ],
                "summary": "List seats",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/SeatView"
                            }
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                }
            }
        },
        "/bookings": {
            "get": {
                "tags": [
                    "Projections"
                ],
                "summary": "List active bookings",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/BookingView"
                            }
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                }
            }
        },
        "/stats": {
            "get": {
                "tags": [
                    "Projections"
                ],
                "summary": "Dashboard counters",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Stats"
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                }
            }
        },
        "/shifts": {
            "get": {
                "tags": [
                    "Projections"
                ],
                "summary": "List shifts",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/Shift"
                            }
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                }
            }
        },
        "/students": {
            "get": {
                "tags": [
                    "Projections"
                ],
                "summary": "List students",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/Student"
                            }
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                }
            }
        },
        "/bookings/export": {
            "get": {
                "tags": [
                    "Bookings"
                ],
                "summary": "Export active bookings",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ],
                        "default": "csv"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Roster file",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Unsupported format",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                }
            }
        },
        "/book-seat": {
            "post": {
                "tags": [
                    "Bookings"
                ],
                "summary": "Book a seat",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/BookSeatRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                }
            }
        },
        "/cancel-booking": {
            "post": {
                "tags": [
                    "Bookings"
                ],
                "summary": "Cancel a booking",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CancelBookingRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                }
            }
        },
        "/add-shift": {
            "post": {
                "tags": [
                    "Admin"
                ],
                "summary": "Add a shift",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AddShiftRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/delete-shift": {
            "post": {
                "tags": [
                    "Admin"
                ],
                "summary": "Delete a shift",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/DeleteShiftRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/add-seat": {
            "post": {
                "tags": [
                    "Admin"
                ],
                "summary": "Add a seat",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AddSeatRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/delete-seat": {
            "post": {
                "tags": [
                    "Admin"
                ],
                "summary": "Delete a seat",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/DeleteSeatRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admin/login": {
            "post": {
                "tags": [
                    "Admin"
                ],
                "summary": "Admin login",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AdminLoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/AdminLoginResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/MutationResult"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "MutationResult": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                }
            }
        },
        "SeatView": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "seat_number": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "available",
                        "occupied"
                    ]
                },
                "student_name": {
                    "type": "string",
                    "x-nullable": true
                },
                "shift_name": {
                    "type": "string",
                    "x-nullable": true
                }
            }
        },
        "BookingView": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "student_name": {
                    "type": "string"
                },
                "student_phone": {
                    "type": "string"
                },
                "shift_name": {
                    "type": "string"
                },
                "seat_number": {
                    "type": "string"
                },
                "booking_date": {
                    "type": "string",
                    "format": "date"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "Stats": {
            "type": "object",
            "properties": {
                "students": {
                    "type": "integer"
                },
                "seats": {
                    "type": "integer"
                },
                "bookings": {
                    "type": "integer"
                },
                "shifts": {
                    "type": "integer"
                },
                "occupied_seats": {
                    "type": "integer"
                },
                "available_seats": {
                    "type": "integer"
                }
            }
        },
        "Shift": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "start_time": {
                    "type": "string"
                },
                "end_time": {
                    "type": "string"
                },
                "max_seats": {
                    "type": "integer"
                }
            }
        },
        "Student": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string",
                    "x-nullable": true
                }
            }
        },
        "BookSeatRequest": {
            "type": "object",
            "required": [
                "student_name",
                "student_email",
                "shift_id",
                "seat_id",
                "booking_date"
            ],
            "properties": {
                "student_name": {
                    "type": "string"
                },
                "student_email": {
                    "type": "string"
                },
                "student_phone": {
                    "type": "string"
                },
                "shift_id": {
                    "description": "integer id, as a number or a string",
                    "type": "string"
                },
                "seat_id": {
                    "description": "integer id, as a number or a string",
                    "type": "string"
                },
                "booking_date": {
                    "type": "string",
                    "format": "date"
                }
            }
        },
        "CancelBookingRequest": {
            "type": "object",
            "required": [
                "booking_id"
            ],
            "properties": {
                "booking_id": {
                    "description": "integer id, as a number or a string",
                    "type": "string"
                }
            }
        },
        "AddShiftRequest": {
            "type": "object",
            "required": [
                "name",
                "start_time",
                "end_time",
                "max_seats"
            ],
            "properties": {
                "name": {
                    "type": "string"
                },
                "start_time": {
                    "type": "string"
                },
                "end_time": {
                    "type": "string"
                },
                "max_seats": {
                    "description": "integer id, as a number or a string",
                    "type": "string"
                }
            }
        },
        "DeleteShiftRequest": {
            "type": "object",
            "required": [
                "shift_id"
            ],
            "properties": {
                "shift_id": {
                    "description": "integer id, as a number or a string",
                    "type": "string"
                }
            }
        },
        "AddSeatRequest": {
            "type": "object",
            "required": [
                "seat_number"
            ],
            "properties": {
                "seat_number": {
                    "type": "string"
                }
            }
        },
        "DeleteSeatRequest": {
            "type": "object",
            "required": [
                "seat_id"
            ],
            "properties": {
                "seat_id": {
                    "description": "integer id, as a number or a string",
                    "type": "string"
                }
            }
        },
        "AdminLoginRequest": {
            "type": "object",
            "required": [
                "email",
                "password"
            ],
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "AdminLoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {
                    "type": "string"
                },
                "expires_in": {
                    "type": "integer"
                },
                "issued_at": {
                    "type": "string",
                    "format": "date-time"
                }
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
