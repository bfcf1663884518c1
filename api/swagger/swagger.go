package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Intervention API",
        "description": "Behavioral intervention escalation engine: decision tree, Tier-A coaching, Tier-B reset conferences, Tier-C case management and re-entry protocols. Probes (/health, /ready) and /metrics are served outside the API prefix.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
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
            "name": "Assessments",
            "description": "Escalation decision tree"
        },
        {
            "name": "Domains",
            "description": "Behavioral domain catalog"
        },
        {
            "name": "LevelA",
            "description": "Tier-A coaching"
        },
        {
            "name": "LevelB",
            "description": "Tier-B reset conferences"
        },
        {
            "name": "LevelC",
            "description": "Tier-C case management"
        },
        {
            "name": "Reentry",
            "description": "Re-entry protocols"
        },
        {
            "name": "Audit",
            "description": "State transition trail"
        }
    ],
    "paths": {
        "/assessments": {
            "post": {
                "tags": [
                    "Assessments"
                ],
                "summary": "Recommend an intervention tier for an incident",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Unknown domain",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/IncidentAssessment"
                        }
                    }
                ]
            }
        },
        "/domains": {
            "get": {
                "tags": [
                    "Domains"
                ],
                "summary": "List behavioral domains",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/domains/{id}": {
            "get": {
                "tags": [
                    "Domains"
                ],
                "summary": "Get a behavioral domain",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Domain ID"
                    }
                ]
            }
        },
        "/level-a": {
            "get": {
                "tags": [
                    "LevelA"
                ],
                "summary": "List Tier-A interventions",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "student_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "domain_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "staff_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "date_from",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "date_to",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "today_only",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "tags": [
                    "LevelA"
                ],
                "summary": "Record a Tier-A intervention",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateLevelARequest"
                        }
                    }
                ]
            }
        },
        "/level-a/{id}": {
            "get": {
                "tags": [
                    "LevelA"
                ],
                "summary": "Get a Tier-A intervention",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Tier-A ID"
                    }
                ]
            }
        },
        "/level-b": {
            "get": {
                "tags": [
                    "LevelB"
                ],
                "summary": "List Tier-B reset conferences",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "student_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "domain_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "staff_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "active_monitoring",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "tags": [
                    "LevelB"
                ],
                "summary": "Open a Tier-B reset conference",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateLevelBRequest"
                        }
                    }
                ]
            }
        },
        "/level-b/{id}": {
            "get": {
                "tags": [
                    "LevelB"
                ],
                "summary": "Get a Tier-B reset conference",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Tier-B ID"
                    }
                ]
            }
        },
        "/level-b/{id}/steps": {
            "patch": {
                "tags": [
                    "LevelB"
                ],
                "summary": "Record one conference step",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Tier-B ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateStepRequest"
                        }
                    }
                ]
            }
        },
        "/level-b/{id}/monitoring": {
            "post": {
                "tags": [
                    "LevelB"
                ],
                "summary": "Start the Tier-B monitoring period",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Tier-B ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/StartLevelBMonitoringRequest"
                        }
                    }
                ]
            }
        },
        "/level-b/{id}/daily-rates": {
            "post": {
                "tags": [
                    "LevelB"
                ],
                "summary": "Record a daily success rate",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Tier-B ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LogDailyRateRequest"
                        }
                    }
                ]
            }
        },
        "/level-b/{id}/complete": {
            "post": {
                "tags": [
                    "LevelB"
                ],
                "summary": "Close monitoring and decide success or escalation",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "500": {
                        "description": "PARTIAL_ESCALATION when the re-entry spawn failed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Tier-B ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CompleteLevelBRequest"
                        }
                    }
                ]
            }
        },
        "/level-c": {
            "get": {
                "tags": [
                    "LevelC"
                ],
                "summary": "List Tier-C cases",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "student_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "case_manager_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "my_caseload",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "name": "pending_reentries",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "tags": [
                    "LevelC"
                ],
                "summary": "Open a Tier-C case",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateLevelCRequest"
                        }
                    }
                ]
            }
        },
        "/level-c/{id}": {
            "get": {
                "tags": [
                    "LevelC"
                ],
                "summary": "Get a Tier-C case",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Case ID"
                    }
                ]
            }
        },
        "/level-c/{id}/case-manager": {
            "put": {
                "tags": [
                    "LevelC"
                ],
                "summary": "Assign the case manager",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Case ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AssignCaseManagerRequest"
                        }
                    }
                ]
            }
        },
        "/level-c/{id}/context-packet": {
            "patch": {
                "tags": [
                    "LevelC"
                ],
                "summary": "Update the context packet",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Case ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateContextPacketRequest"
                        }
                    }
                ]
            }
        },
        "/level-c/{id}/admin-response": {
            "post": {
                "tags": [
                    "LevelC"
                ],
                "summary": "Record the administrative response",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Case ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RecordAdminResponseRequest"
                        }
                    }
                ]
            }
        },
        "/level-c/{id}/reentry-plan": {
            "post": {
                "tags": [
                    "LevelC"
                ],
                "summary": "Plan re-entry",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "500": {
                        "description": "PARTIAL_ESCALATION when the re-entry spawn failed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Case ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateReentryPlanRequest"
                        }
                    }
                ]
            }
        },
        "/level-c/{id}/monitoring": {
            "post": {
                "tags": [
                    "LevelC"
                ],
                "summary": "Start Tier-C monitoring",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Case ID"
                    }
                ]
            }
        },
        "/level-c/{id}/check-ins": {
            "post": {
                "tags": [
                    "LevelC"
                ],
                "summary": "Record a daily check-in",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Case ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LogCheckInRequest"
                        }
                    }
                ]
            }
        },
        "/level-c/{id}/close": {
            "post": {
                "tags": [
                    "LevelC"
                ],
                "summary": "Close the case",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Case ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CloseCaseRequest"
                        }
                    }
                ]
            }
        },
        "/level-c/{id}/export": {
            "get": {
                "tags": [
                    "LevelC"
                ],
                "summary": "Export the case packet",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Document"
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Case ID"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/pdf",
                    "text/csv"
                ]
            }
        },
        "/reentry": {
            "get": {
                "tags": [
                    "Reentry"
                ],
                "summary": "List re-entry protocols",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "student_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "source_type",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "pending",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "name": "active",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "tags": [
                    "Reentry"
                ],
                "summary": "Create a re-entry protocol or repair a partial escalation",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateReentryRequest"
                        }
                    }
                ]
            }
        },
        "/reentry/{id}": {
            "get": {
                "tags": [
                    "Reentry"
                ],
                "summary": "Get a re-entry protocol",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Protocol ID"
                    }
                ]
            }
        },
        "/reentry/{id}/checklist": {
            "patch": {
                "tags": [
                    "Reentry"
                ],
                "summary": "Toggle readiness checklist items",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Protocol ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateChecklistRequest"
                        }
                    }
                ]
            }
        },
        "/reentry/{id}/first-rep": {
            "post": {
                "tags": [
                    "Reentry"
                ],
                "summary": "Mark the first behavioral rep completed",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Protocol ID"
                    }
                ]
            }
        },
        "/reentry/{id}/start": {
            "post": {
                "tags": [
                    "Reentry"
                ],
                "summary": "Start re-entry monitoring",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Protocol ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/StartReentryRequest"
                        }
                    }
                ]
            }
        },
        "/reentry/{id}/daily-logs": {
            "post": {
                "tags": [
                    "Reentry"
                ],
                "summary": "Record a daily re-entry log",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Protocol ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LogDailyEntryRequest"
                        }
                    }
                ]
            }
        },
        "/reentry/{id}/complete": {
            "post": {
                "tags": [
                    "Reentry"
                ],
                "summary": "Complete the protocol",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Protocol ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CompleteReentryRequest"
                        }
                    }
                ]
            }
        },
        "/reentry/{id}/script": {
            "get": {
                "tags": [
                    "Reentry"
                ],
                "summary": "Render the re-entry script",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Document"
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Protocol ID"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "produces": [
                    "text/plain",
                    "application/pdf"
                ]
            }
        },
        "/audit-logs/{resource}/{id}": {
            "get": {
                "tags": [
                    "Audit"
                ],
                "summary": "List the recorded transitions of one record",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "resource",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "level_a",
                            "level_b",
                            "level_c",
                            "reentry"
                        ]
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Unknown resource",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "IncidentAssessment": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "domain_id": {
                    "type": "string"
                },
                "safety_or_major_harm": {
                    "type": "boolean"
                },
                "demerit_assigned": {
                    "type": "boolean"
                },
                "ignored_prompts_count": {
                    "type": "integer"
                },
                "occurrences_in_last_10_days": {
                    "type": "integer"
                },
                "peer_impact": {
                    "type": "boolean"
                },
                "space_disruption": {
                    "type": "boolean"
                },
                "safety_risk": {
                    "type": "boolean"
                },
                "prior_level_b_attempts_for_pattern": {
                    "type": "integer"
                }
            },
            "required": [
                "student_id",
                "domain_id"
            ]
        },
        "CreateLevelARequest": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "domain_id": {
                    "type": "string"
                },
                "intervention_type": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                }
            },
            "required": [
                "student_id",
                "domain_id",
                "intervention_type"
            ]
        },
        "CreateLevelBRequest": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "domain_id": {
                    "type": "string"
                },
                "escalation_trigger": {
                    "type": "string"
                },
                "escalated_from_level_a_id": {
                    "type": "string"
                }
            },
            "required": [
                "student_id",
                "domain_id",
                "escalation_trigger"
            ]
        },
        "UpdateStepRequest": {
            "type": "object",
            "properties": {
                "step": {
                    "type": "string",
                    "enum": [
                        "b1",
                        "b2",
                        "b3",
                        "b4",
                        "b5",
                        "b6",
                        "b7"
                    ]
                },
                "data": {
                    "type": "object"
                }
            },
            "required": [
                "step"
            ]
        },
        "StartLevelBMonitoringRequest": {
            "type": "object",
            "properties": {
                "monitoring_method": {
                    "type": "string"
                }
            },
            "required": [
                "monitoring_method"
            ]
        },
        "LogDailyRateRequest": {
            "type": "object",
            "properties": {
                "date": {
                    "type": "string",
                    "format": "date"
                },
                "success_rate": {
                    "type": "number"
                }
            },
            "required": [
                "date",
                "success_rate"
            ]
        },
        "CompleteLevelBRequest": {
            "type": "object",
            "properties": {
                "consequence_type": {
                    "type": "string",
                    "enum": [
                        "detention",
                        "iss",
                        "oss"
                    ]
                }
            }
        },
        "CreateLevelCRequest": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "trigger_type": {
                    "type": "string",
                    "enum": [
                        "safety_or_major_harm",
                        "repeated_level_b",
                        "level_b_escalation",
                        "admin_referral"
                    ]
                },
                "escalated_from_level_b_id": {
                    "type": "string"
                },
                "context_packet": {
                    "$ref": "#/definitions/ContextPacket"
                }
            },
            "required": [
                "student_id",
                "trigger_type"
            ]
        },
        "AssignCaseManagerRequest": {
            "type": "object",
            "properties": {
                "case_manager_id": {
                    "type": "string"
                },
                "case_manager_name": {
                    "type": "string"
                }
            },
            "required": [
                "case_manager_id",
                "case_manager_name"
            ]
        },
        "UpdateContextPacketRequest": {
            "$ref": "#/definitions/ContextPacket"
        },
        "RecordAdminResponseRequest": {
            "type": "object",
            "properties": {
                "type": {
                    "type": "string",
                    "enum": [
                        "parent_conference",
                        "restorative_conference",
                        "loss_of_privilege",
                        "detention",
                        "iss",
                        "oss"
                    ]
                },
                "details": {
                    "type": "string"
                },
                "consequence_start_date": {
                    "type": "string",
                    "format": "date"
                },
                "consequence_end_date": {
                    "type": "string",
                    "format": "date"
                }
            },
            "required": [
                "type"
            ]
        },
        "CreateReentryPlanRequest": {
            "type": "object",
            "properties": {
                "support_plan_goal": {
                    "type": "string"
                },
                "strategies": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "mentor": {
                    "type": "string"
                },
                "repair_actions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "reentry_date": {
                    "type": "string",
                    "format": "date"
                },
                "reentry_type": {
                    "type": "string"
                },
                "restrictions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "readiness_checklist": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            },
            "required": [
                "support_plan_goal",
                "reentry_date",
                "reentry_type"
            ]
        },
        "LogCheckInRequest": {
            "type": "object",
            "properties": {
                "date": {
                    "type": "string",
                    "format": "date"
                },
                "success_rate": {
                    "type": "number"
                },
                "notes": {
                    "type": "string"
                },
                "concerns": {
                    "type": "string"
                }
            },
            "required": [
                "date"
            ]
        },
        "CloseCaseRequest": {
            "type": "object",
            "properties": {
                "outcome_status": {
                    "type": "string",
                    "enum": [
                        "success",
                        "partial",
                        "unsuccessful",
                        "referred"
                    ]
                },
                "outcome_notes": {
                    "type": "string"
                },
                "closure_criteria": {
                    "type": "string"
                }
            },
            "required": [
                "outcome_status"
            ]
        },
        "CreateReentryRequest": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "source_type": {
                    "type": "string",
                    "enum": [
                        "level_b",
                        "detention",
                        "iss",
                        "oss"
                    ]
                },
                "source_id": {
                    "type": "string"
                },
                "reentry_date": {
                    "type": "string",
                    "format": "date"
                },
                "receiving_teacher": {
                    "type": "string"
                },
                "reset_goal_from_intervention": {
                    "type": "string"
                },
                "readiness_checklist": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            },
            "required": [
                "student_id",
                "source_type"
            ]
        },
        "UpdateChecklistRequest": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "index": {
                                "type": "integer"
                            },
                            "completed": {
                                "type": "boolean"
                            }
                        }
                    }
                }
            },
            "required": [
                "items"
            ]
        },
        "StartReentryRequest": {
            "type": "object",
            "properties": {
                "monitoring_type": {
                    "type": "string",
                    "enum": [
                        "3_day",
                        "5_day",
                        "10_day"
                    ]
                }
            },
            "required": [
                "monitoring_type"
            ]
        },
        "LogDailyEntryRequest": {
            "type": "object",
            "properties": {
                "date": {
                    "type": "string",
                    "format": "date"
                },
                "notes": {
                    "type": "string"
                },
                "success_indicators": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "concerns": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            },
            "required": [
                "date"
            ]
        },
        "CompleteReentryRequest": {
            "type": "object",
            "properties": {
                "outcome": {
                    "type": "string",
                    "enum": [
                        "success",
                        "partial",
                        "escalated"
                    ]
                },
                "notes": {
                    "type": "string"
                }
            },
            "required": [
                "outcome"
            ]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "limit": {
                    "type": "integer"
                },
                "offset": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "details": {
                    "type": "object"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "count": {
                    "type": "integer"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
            }
        },
        "ContextPacket": {
            "type": "object",
            "properties": {
                "incident_summary": {
                    "type": "string"
                },
                "pattern_review": {
                    "type": "string"
                },
                "environmental_factors": {
                    "type": "string"
                },
                "prior_interventions_summary": {
                    "type": "string"
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
