package swagger

import "github.com/swaggo/swag"

// Health, readiness and metrics live outside basePath and are not documented here.
const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "NS Acad Attainment API",
        "description": "CO-PO / CO-PSO attainment pipeline for course offerings.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
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
            "name": "Offerings",
            "description": "Course offerings and assessment configuration"
        },
        {
            "name": "Marks",
            "description": "Rosters and raw marks"
        },
        {
            "name": "CO Mapping",
            "description": "Course outcome definitions and CO-PO strengths"
        },
        {
            "name": "Attainment",
            "description": "Attainment calculation, reports and exports"
        }
    ],
    "paths": {
        "/offerings": {
            "get": {
                "tags": [
                    "Offerings"
                ],
                "summary": "List course offerings",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "subjectCode",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "academicYear",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "semester",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "branch",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "section",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "facultyId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer"
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
            },
            "post": {
                "tags": [
                    "Offerings"
                ],
                "summary": "Create course offering",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateOfferingRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Offering already exists",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/offerings/{id}": {
            "get": {
                "tags": [
                    "Offerings"
                ],
                "summary": "Get course offering",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
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
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/offerings/{id}/config": {
            "put": {
                "tags": [
                    "Offerings"
                ],
                "summary": "Replace assessment configuration and thresholds",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateOfferingConfigRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Invalid weightage or thresholds",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/offerings/{id}/roster": {
            "put": {
                "tags": [
                    "Marks"
                ],
                "summary": "Import the student roster",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ImportRosterRequest"
                        }
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
        "/offerings/{id}/students/{rollNo}": {
            "get": {
                "tags": [
                    "Marks"
                ],
                "summary": "Get a student's marks record",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "rollNo",
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
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/offerings/{id}/students/{rollNo}/marks/{family}": {
            "put": {
                "tags": [
                    "Marks"
                ],
                "summary": "Record one assessment sitting for a student",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "rollNo",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "family",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "TMS",
                            "TCA",
                            "TES"
                        ]
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpsertMarksRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Impossible marks",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/offerings/{id}/co-mapping": {
            "get": {
                "tags": [
                    "CO Mapping"
                ],
                "summary": "Get course outcome definitions",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
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
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "CO Mapping"
                ],
                "summary": "Replace course outcome definitions",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpsertCoMappingRequest"
                        }
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
        "/co-po-mappings": {
            "get": {
                "tags": [
                    "CO Mapping"
                ],
                "summary": "List CO-PO mappings for a subject",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "subjectCode",
                        "in": "query",
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
                    }
                }
            }
        },
        "/copomap": {
            "get": {
                "tags": [
                    "CO Mapping"
                ],
                "summary": "List all CO-PO mappings",
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
        "/offerings/{id}/attainment/calculate": {
            "post": {
                "tags": [
                    "Attainment"
                ],
                "summary": "Calculate and store CO-PO attainment",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
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
                    "409": {
                        "description": "Calculation already running",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "412": {
                        "description": "Course outcomes not defined",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Invalid weightage",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/offerings/{id}/attainment/recalculate": {
            "post": {
                "tags": [
                    "Attainment"
                ],
                "summary": "Schedule a background recalculation",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/offerings/{id}/attainment": {
            "get": {
                "tags": [
                    "Attainment"
                ],
                "summary": "Get the stored attainment report",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
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
                    "404": {
                        "description": "Not calculated",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/offerings/{id}/attainment/statistics": {
            "get": {
                "tags": [
                    "Attainment"
                ],
                "summary": "Get class statistics and CO/PO attainment",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
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
                    }
                }
            }
        },
        "/offerings/{id}/attainment/students/{rollNo}": {
            "get": {
                "tags": [
                    "Attainment"
                ],
                "summary": "Get one student's CO attainment",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "rollNo",
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
                    }
                }
            }
        },
        "/offerings/{id}/attainment/export": {
            "post": {
                "tags": [
                    "Attainment"
                ],
                "summary": "Export the attainment report",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ExportRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": [
                    "Attainment"
                ],
                "summary": "Download an exported report through a signed link",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "token",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "403": {
                        "description": "Expired or invalid link",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "CreateOfferingRequest": {
            "type": "object",
            "properties": {
                "subjectCode": {
                    "type": "string"
                },
                "academicYear": {
                    "type": "string"
                },
                "semester": {
                    "type": "integer"
                },
                "branch": {
                    "type": "string"
                },
                "section": {
                    "type": "string"
                },
                "subjectName": {
                    "type": "string"
                },
                "facultyId": {
                    "type": "string"
                }
            },
            "required": [
                "subjectCode",
                "academicYear",
                "semester",
                "branch",
                "section",
                "subjectName"
            ]
        },
        "AssessmentConfig": {
            "type": "object",
            "properties": {
                "weightage": {
                    "type": "number"
                },
                "coMapping": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                }
            }
        },
        "Thresholds": {
            "type": "object",
            "properties": {
                "thresholdPercentage": {
                    "type": "number"
                },
                "targetStudentPercentage": {
                    "type": "number"
                },
                "level2StudentPercentage": {
                    "type": "number"
                },
                "studentLevel2Percentage": {
                    "type": "number"
                },
                "passPercentage": {
                    "type": "number"
                }
            }
        },
        "UpdateOfferingConfigRequest": {
            "type": "object",
            "properties": {
                "assessments": {
                    "type": "object",
                    "additionalProperties": {
                        "$ref": "#/definitions/AssessmentConfig"
                    }
                },
                "thresholds": {
                    "$ref": "#/definitions/Thresholds"
                }
            },
            "required": [
                "assessments"
            ]
        },
        "RosterStudent": {
            "type": "object",
            "properties": {
                "rollNo": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                }
            },
            "required": [
                "rollNo",
                "name"
            ]
        },
        "ImportRosterRequest": {
            "type": "object",
            "properties": {
                "students": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/RosterStudent"
                    }
                }
            },
            "required": [
                "students"
            ]
        },
        "MarkInput": {
            "type": "object",
            "properties": {
                "question": {
                    "type": "integer"
                },
                "part": {
                    "type": "string"
                },
                "maxMarks": {
                    "type": "number"
                },
                "marksObtained": {
                    "type": "number",
                    "description": "-1 marks an unattempted part"
                }
            },
            "required": [
                "question",
                "part"
            ]
        },
        "UpsertMarksRequest": {
            "type": "object",
            "properties": {
                "assessment": {
                    "type": "string",
                    "description": "TMS sub-type: Tutorial, MiniProject or SurpriseTest"
                },
                "assessmentNumber": {
                    "type": "integer",
                    "description": "TCA sitting, 1 or 2"
                },
                "marks": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/MarkInput"
                    }
                }
            },
            "required": [
                "marks"
            ]
        },
        "CoDefinition": {
            "type": "object",
            "properties": {
                "coIdentifier": {
                    "type": "string"
                },
                "targetAttainmentLevel": {
                    "type": "number"
                },
                "poStrengths": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                }
            },
            "required": [
                "coIdentifier"
            ]
        },
        "UpsertCoMappingRequest": {
            "type": "object",
            "properties": {
                "courseOutcomes": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/CoDefinition"
                    }
                }
            },
            "required": [
                "courseOutcomes"
            ]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "format": {
                    "type": "string",
                    "enum": [
                        "csv",
                        "pdf"
                    ]
                }
            },
            "required": [
                "format"
            ]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
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
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
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
