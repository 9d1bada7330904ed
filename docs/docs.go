// Package docs holds the OpenAPI document served under /swagger/. It
// mirrors the handler annotations in package api; go generate rebuilds it
// with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/cves": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer",
                        "default": 1
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer",
                        "default": 20
                    },
                    {
                        "name": "sortBy",
                        "in": "query",
                        "required": false,
                        "description": "publishedDate, cvssScore or cveId",
                        "type": "string"
                    },
                    {
                        "name": "sortOrder",
                        "in": "query",
                        "required": false,
                        "description": "asc or desc",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Page-core_Vulnerability"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "List vulnerabilities",
                "description": "Returns a page of vulnerabilities, newest first unless sortBy is given",
                "tags": [
                    "cves"
                ]
            }
        },
        "/api/cves/product/{productId}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "productId",
                        "in": "path",
                        "required": true,
                        "description": "Product ID",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Page-core_Vulnerability"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Vulnerabilities affecting a product",
                "tags": [
                    "cves"
                ]
            }
        },
        "/api/cves/search": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "q",
                        "in": "query",
                        "required": true,
                        "description": "Search term",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Page-core_Vulnerability"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Search vulnerabilities",
                "description": "Case-insensitive substring match on CVE id and description",
                "tags": [
                    "cves"
                ]
            }
        },
        "/api/cves/severity/{severity}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "severity",
                        "in": "path",
                        "required": true,
                        "description": "CRITICAL, HIGH, MEDIUM, LOW or NONE",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Page-core_Vulnerability"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Vulnerabilities by severity",
                "description": "Records whose score falls in the band, highest score first. Unknown labels apply no score constraint.",
                "tags": [
                    "cves"
                ]
            }
        },
        "/api/cves/stats/summary": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.VulnerabilitySummary"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Vulnerability summary",
                "description": "Total count, counts per severity band and the number published in the last 30 days",
                "tags": [
                    "cves"
                ]
            }
        },
        "/api/cves/stats/timeline": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "period",
                        "in": "query",
                        "required": false,
                        "description": "day, week or month",
                        "type": "string",
                        "default": "month"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Number of buckets",
                        "type": "integer",
                        "default": 12
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/service.TimelinePoint"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Publication timeline",
                "description": "Non-empty buckets of the most recent periods, oldest first",
                "tags": [
                    "cves"
                ]
            }
        },
        "/api/cves/vendor/{vendorId}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "vendorId",
                        "in": "path",
                        "required": true,
                        "description": "Vendor ID",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Page-core_Vulnerability"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Vulnerabilities affecting a vendor",
                "tags": [
                    "cves"
                ]
            }
        },
        "/api/cves/{cveId}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "cveId",
                        "in": "path",
                        "required": true,
                        "description": "CVE id",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/core.Vulnerability"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Get vulnerability",
                "description": "Get a vulnerability by CVE id with its affected products resolved",
                "tags": [
                    "cves"
                ]
            }
        },
        "/api/products": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer",
                        "default": 1
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer",
                        "default": 20
                    },
                    {
                        "name": "sortBy",
                        "in": "query",
                        "required": false,
                        "description": "cveCount, name or lastSeen",
                        "type": "string"
                    },
                    {
                        "name": "sortOrder",
                        "in": "query",
                        "required": false,
                        "description": "asc or desc",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Page-core_Product"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "List products",
                "description": "Returns a page of products with their vendor names, most CVEs first unless sortBy is given",
                "tags": [
                    "products"
                ]
            }
        },
        "/api/products/search": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "q",
                        "in": "query",
                        "required": true,
                        "description": "Search term",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Page-core_Product"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Search products",
                "description": "Case-insensitive substring match on product or vendor name",
                "tags": [
                    "products"
                ]
            }
        },
        "/api/products/stats/summary": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.ProductSummary"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Product summary",
                "tags": [
                    "products"
                ]
            }
        },
        "/api/products/vendor/{vendorId}/name/{productName}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "vendorId",
                        "in": "path",
                        "required": true,
                        "description": "Vendor ID",
                        "type": "string"
                    },
                    {
                        "name": "productName",
                        "in": "path",
                        "required": true,
                        "description": "Exact product name",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/core.Product"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Find product by vendor and name",
                "tags": [
                    "products"
                ]
            }
        },
        "/api/products/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Product ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/core.Product"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Get product",
                "tags": [
                    "products"
                ]
            }
        },
        "/api/products/{id}/cves": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Product ID",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Page-core_Vulnerability"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Vulnerabilities of a product",
                "tags": [
                    "products"
                ]
            }
        },
        "/api/products/{id}/stats": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Product ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.EntityStats"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Product statistics",
                "description": "Severity distribution, average score, version counts and a 12 month timeline",
                "tags": [
                    "products"
                ]
            }
        },
        "/api/products/{id}/versions": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Product ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.ProductVersions"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Versions of a product",
                "tags": [
                    "products"
                ]
            }
        },
        "/api/search": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "q",
                        "in": "query",
                        "required": true,
                        "description": "Search term",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer",
                        "default": 1
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.GlobalSearchResult"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Global search",
                "description": "Matches the term against vulnerabilities, vendors and products. Each kind is paged independently.",
                "tags": [
                    "search"
                ]
            }
        },
        "/api/search/advanced": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "criteria",
                        "in": "body",
                        "required": true,
                        "description": "Search criteria",
                        "schema": {
                            "$ref": "#/definitions/search.Criteria"
                        }
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer",
                        "default": 1
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Page-core_Vulnerability"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Advanced search",
                "description": "All supplied criteria must hold. At least one key is required.",
                "tags": [
                    "search"
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/api/search/suggestions": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "prefix",
                        "in": "query",
                        "required": true,
                        "description": "Prefix",
                        "type": "string"
                    },
                    {
                        "name": "type",
                        "in": "query",
                        "required": false,
                        "description": "all, cve, vendor or product",
                        "type": "string",
                        "default": "all"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Entries per kind",
                        "type": "integer",
                        "default": 10
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Suggestions"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Autocomplete suggestions",
                "description": "Entities whose identifying field starts with the prefix. Only requested kinds appear in the response.",
                "tags": [
                    "search"
                ]
            }
        },
        "/api/vendors": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer",
                        "default": 1
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer",
                        "default": 20
                    },
                    {
                        "name": "sortBy",
                        "in": "query",
                        "required": false,
                        "description": "cveCount, productCount, name or lastSeen",
                        "type": "string"
                    },
                    {
                        "name": "sortOrder",
                        "in": "query",
                        "required": false,
                        "description": "asc or desc",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Page-core_Vendor"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "List vendors",
                "description": "Returns a page of vendors, most CVEs first unless sortBy is given",
                "tags": [
                    "vendors"
                ]
            }
        },
        "/api/vendors/name/{name}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Vendor name",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/core.Vendor"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Find vendor by name",
                "description": "First vendor whose name contains the given text, case-insensitively",
                "tags": [
                    "vendors"
                ]
            }
        },
        "/api/vendors/search": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "q",
                        "in": "query",
                        "required": true,
                        "description": "Search term",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Page-core_Vendor"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Search vendors",
                "tags": [
                    "vendors"
                ]
            }
        },
        "/api/vendors/stats/summary": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.VendorSummary"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Vendor summary",
                "description": "Total count with the top vendors by CVEs, by products and by most recent activity",
                "tags": [
                    "vendors"
                ]
            }
        },
        "/api/vendors/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Vendor ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/core.Vendor"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Get vendor",
                "tags": [
                    "vendors"
                ]
            }
        },
        "/api/vendors/{id}/products": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Vendor ID",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "description": "Page size",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.Page-core_Product"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Products of a vendor",
                "tags": [
                    "vendors"
                ]
            }
        },
        "/api/vendors/{id}/stats": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Vendor ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.EntityStats"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "summary": "Vendor statistics",
                "description": "Severity distribution, average score and a 12 month timeline of the vendor's vulnerabilities",
                "tags": [
                    "vendors"
                ]
            }
        },
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/api.HealthResponse"
                        }
                    }
                },
                "summary": "Health check",
                "description": "Reports whether the storage backend is reachable",
                "tags": [
                    "system"
                ]
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "boolean",
                    "example": "true"
                },
                "message": {
                    "type": "string",
                    "example": "vendor 64b000000000000000000001 not found"
                }
            }
        },
        "api.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "example": "ok"
                },
                "timestamp": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "api.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    },
                    "example": "limit must be at most 100"
                }
            }
        },
        "core.AffectedProduct": {
            "type": "object",
            "properties": {
                "product": {
                    "type": "string"
                },
                "vendor": {
                    "type": "string"
                },
                "productName": {
                    "type": "string",
                    "example": "log4j"
                },
                "vendorName": {
                    "type": "string",
                    "example": "Apache"
                },
                "versions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.VersionStatus"
                    }
                },
                "productDetail": {
                    "$ref": "#/definitions/core.ProductSummary"
                }
            }
        },
        "core.ProblemType": {
            "type": "object",
            "properties": {
                "cweId": {
                    "type": "string",
                    "example": "CWE-502"
                },
                "description": {
                    "type": "string"
                }
            }
        },
        "core.Product": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string",
                    "example": "Windows 10"
                },
                "vendor": {
                    "$ref": "#/definitions/core.VendorRef"
                },
                "vendorName": {
                    "type": "string",
                    "example": "Microsoft"
                },
                "cveCount": {
                    "type": "integer"
                },
                "versions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.VersionStatus"
                    }
                },
                "firstSeen": {
                    "type": "string",
                    "format": "date-time"
                },
                "lastSeen": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "core.ProductSummary": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "vendorName": {
                    "type": "string"
                },
                "versions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.VersionStatus"
                    }
                }
            }
        },
        "core.Vendor": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string",
                    "example": "Microsoft"
                },
                "productCount": {
                    "type": "integer"
                },
                "cveCount": {
                    "type": "integer"
                },
                "firstSeen": {
                    "type": "string",
                    "format": "date-time"
                },
                "lastSeen": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "core.VendorRef": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                }
            }
        },
        "core.VersionStatus": {
            "type": "object",
            "properties": {
                "version": {
                    "type": "string",
                    "example": "2.14.1"
                },
                "affected": {
                    "type": "boolean",
                    "example": "true"
                }
            }
        },
        "core.Vulnerability": {
            "type": "object",
            "properties": {
                "cveId": {
                    "type": "string",
                    "example": "CVE-2021-44228"
                },
                "description": {
                    "type": "string"
                },
                "cvssScore": {
                    "type": "number",
                    "example": 10.0
                },
                "cvssVector": {
                    "type": "string"
                },
                "publishedDate": {
                    "type": "string",
                    "format": "date-time"
                },
                "lastModifiedDate": {
                    "type": "string",
                    "format": "date-time"
                },
                "problemType": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.ProblemType"
                    }
                },
                "affectedProducts": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.AffectedProduct"
                    }
                },
                "severity": {
                    "type": "string",
                    "example": "CRITICAL"
                }
            }
        },
        "search.Criteria": {
            "type": "object",
            "properties": {
                "cveId": {
                    "type": "string",
                    "example": "CVE-2021"
                },
                "description": {
                    "type": "string",
                    "example": "remote code execution"
                },
                "vendor": {
                    "type": "string",
                    "example": "Apache"
                },
                "product": {
                    "type": "string",
                    "example": "log4j"
                },
                "severity": {
                    "type": "string",
                    "example": "HIGH"
                },
                "minCvss": {
                    "type": "number",
                    "example": 8.0
                },
                "maxCvss": {
                    "type": "number",
                    "example": 10.0
                },
                "minScore": {
                    "type": "number"
                },
                "maxScore": {
                    "type": "number"
                },
                "startDate": {
                    "type": "string",
                    "example": "2021-01-01"
                },
                "endDate": {
                    "type": "string",
                    "example": "2021-12-31"
                },
                "cweId": {
                    "type": "string",
                    "example": "CWE-502"
                }
            }
        },
        "service.EntityStats": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "vendor": {
                    "type": "string"
                },
                "cachedCount": {
                    "type": "integer"
                },
                "productCount": {
                    "type": "integer"
                },
                "firstSeen": {
                    "type": "string",
                    "format": "date-time"
                },
                "lastSeen": {
                    "type": "string",
                    "format": "date-time"
                },
                "severityDistribution": {
                    "$ref": "#/definitions/service.SeverityDistribution"
                },
                "avgScore": {
                    "type": "string",
                    "example": "8.50"
                },
                "timeline": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/service.MonthCount"
                    }
                },
                "versionStats": {
                    "$ref": "#/definitions/service.VersionStats"
                }
            }
        },
        "service.GlobalSearchResult": {
            "type": "object",
            "properties": {
                "results": {
                    "$ref": "#/definitions/service.SearchResults"
                },
                "counts": {
                    "$ref": "#/definitions/service.SearchCounts"
                },
                "pagination": {
                    "$ref": "#/definitions/service.SearchPagination"
                }
            }
        },
        "service.MonthCount": {
            "type": "object",
            "properties": {
                "month": {
                    "type": "string",
                    "example": "2024-03"
                },
                "count": {
                    "type": "integer"
                }
            }
        },
        "service.Page-core_Product": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.Product"
                    }
                },
                "pagination": {
                    "$ref": "#/definitions/service.Pagination"
                }
            }
        },
        "service.Page-core_Vendor": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.Vendor"
                    }
                },
                "pagination": {
                    "$ref": "#/definitions/service.Pagination"
                }
            }
        },
        "service.Page-core_Vulnerability": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.Vulnerability"
                    }
                },
                "pagination": {
                    "$ref": "#/definitions/service.Pagination"
                }
            }
        },
        "service.Pagination": {
            "type": "object",
            "properties": {
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "totalPages": {
                    "type": "integer"
                }
            }
        },
        "service.ProductSuggestion": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "vendorName": {
                    "type": "string"
                }
            }
        },
        "service.ProductSummary": {
            "type": "object",
            "properties": {
                "total": {
                    "type": "integer"
                },
                "topByCVE": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.Product"
                    }
                },
                "recentlyAffected": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.Product"
                    }
                }
            }
        },
        "service.ProductVersions": {
            "type": "object",
            "properties": {
                "productName": {
                    "type": "string"
                },
                "vendorName": {
                    "type": "string"
                },
                "versions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.VersionStatus"
                    }
                }
            }
        },
        "service.SearchCounts": {
            "type": "object",
            "properties": {
                "vulnerabilities": {
                    "type": "integer"
                },
                "vendors": {
                    "type": "integer"
                },
                "products": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "service.SearchPagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "totalPages": {
                    "type": "integer"
                }
            }
        },
        "service.SearchResults": {
            "type": "object",
            "properties": {
                "vulnerabilities": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.Vulnerability"
                    }
                },
                "vendors": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.Vendor"
                    }
                },
                "products": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.Product"
                    }
                }
            }
        },
        "service.SeverityDistribution": {
            "type": "object",
            "properties": {
                "CRITICAL": {
                    "type": "integer"
                },
                "HIGH": {
                    "type": "integer"
                },
                "MEDIUM": {
                    "type": "integer"
                },
                "LOW": {
                    "type": "integer"
                },
                "NONE": {
                    "type": "integer"
                }
            }
        },
        "service.Suggestions": {
            "type": "object",
            "properties": {
                "vulnerabilities": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/service.VulnerabilitySuggestion"
                    }
                },
                "vendors": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/service.VendorSuggestion"
                    }
                },
                "products": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/service.ProductSuggestion"
                    }
                }
            }
        },
        "service.TimelinePoint": {
            "type": "object",
            "properties": {
                "period": {
                    "type": "string",
                    "example": "2024-03"
                },
                "count": {
                    "type": "integer",
                    "example": 42
                },
                "avgScore": {
                    "type": "number",
                    "example": 6.73
                }
            }
        },
        "service.VendorSuggestion": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                }
            }
        },
        "service.VendorSummary": {
            "type": "object",
            "properties": {
                "total": {
                    "type": "integer"
                },
                "topByCVE": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.Vendor"
                    }
                },
                "topByProducts": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.Vendor"
                    }
                },
                "recentlyAffected": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/core.Vendor"
                    }
                }
            }
        },
        "service.VersionStats": {
            "type": "object",
            "properties": {
                "affected": {
                    "type": "integer"
                },
                "notAffected": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "service.VulnerabilitySuggestion": {
            "type": "object",
            "properties": {
                "cveId": {
                    "type": "string"
                }
            }
        },
        "service.VulnerabilitySummary": {
            "type": "object",
            "properties": {
                "total": {
                    "type": "integer"
                },
                "bySeverity": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "recentCount": {
                    "type": "integer"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "cvedex API",
	Description:      "Read-only search and analytics over CVE records, vendors and products",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
