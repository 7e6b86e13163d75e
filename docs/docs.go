// Package docs registers the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{.Description}}",
        "version": "{{.Version}}"
    },
    "servers": [{"url": "/api/v1"}],
    "components": {
        "securitySchemes": {
            "BearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
        },
        "schemas": {
            "Response": {
                "type": "object",
                "properties": {
                    "success": {"type": "boolean"},
                    "data": {},
                    "error": {
                        "type": "object",
                        "properties": {
                            "code": {"type": "string"},
                            "message": {"type": "string"},
                            "request_id": {"type": "string"}
                        }
                    },
                    "meta": {
                        "type": "object",
                        "properties": {
                            "total": {"type": "integer"},
                            "page": {"type": "integer"},
                            "page_size": {"type": "integer"},
                            "total_pages": {"type": "integer"}
                        }
                    }
                }
            }
        },
        "responses": {
            "Envelope": {
                "description": "Standard response envelope",
                "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}
            }
        }
    },
    "paths": {
        "/shipping/config": {
            "get": {"tags": ["shipping"], "summary": "Get shipping rate configuration", "operationId": "getShippingConfig", "security": [{"BearerAuth": []}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}},
            "put": {"tags": ["shipping"], "summary": "Update shipping rates", "operationId": "updateShippingConfig", "security": [{"BearerAuth": []}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/shipping/audit-logs": {
            "get": {"tags": ["shipping"], "summary": "List rate change audit entries", "operationId": "listShippingAuditLogs", "security": [{"BearerAuth": []}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/shipping/quote": {
            "post": {"tags": ["shipping"], "summary": "Estimate shipping for a cart", "operationId": "quoteShipping", "security": [{"BearerAuth": []}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/batches/active": {
            "get": {"tags": ["batches"], "summary": "Get the open batch for a transport mode", "operationId": "getActiveBatch", "parameters": [{"name": "mode", "in": "query", "schema": {"type": "string", "enum": ["sea", "air"]}}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}, "404": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/batches": {
            "get": {"tags": ["batches"], "summary": "List batches", "operationId": "listBatches", "security": [{"BearerAuth": []}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}},
            "post": {"tags": ["batches"], "summary": "Create a draft batch", "operationId": "createBatch", "security": [{"BearerAuth": []}], "responses": {"201": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/batches/{id}": {
            "get": {"tags": ["batches"], "summary": "Get a batch by ID", "operationId": "getBatch", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/batches/{id}/status": {
            "put": {"tags": ["batches"], "summary": "Move a batch to its next status", "operationId": "updateBatchStatus", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}, "409": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/batches/{id}/settlement": {
            "get": {"tags": ["batches"], "summary": "Payment settlement summary for a batch", "operationId": "getBatchSettlement", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/orders": {
            "get": {"tags": ["orders"], "summary": "List all orders", "operationId": "listOrders", "security": [{"BearerAuth": []}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}},
            "post": {"tags": ["orders"], "summary": "Place an order", "operationId": "createOrder", "security": [{"BearerAuth": []}], "responses": {"201": {"$ref": "#/components/responses/Envelope"}, "409": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/orders/mine": {
            "get": {"tags": ["orders"], "summary": "List the caller's orders", "operationId": "listMyOrders", "security": [{"BearerAuth": []}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/orders/{id}": {
            "get": {"tags": ["orders"], "summary": "Get an order", "operationId": "getOrder", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/orders/{id}/pay": {
            "put": {"tags": ["payments"], "summary": "Record a payment taken outside the gateway", "operationId": "confirmManualPayment", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/orders/{id}/deliver": {
            "put": {"tags": ["orders"], "summary": "Mark a fully settled order as delivered", "operationId": "deliverOrder", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/orders/{id}/status": {
            "put": {"tags": ["orders"], "summary": "Move an order along its workflow", "operationId": "updateOrderStatus", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/payments/checkout": {
            "post": {"tags": ["payments"], "summary": "Start a hosted checkout session", "operationId": "initiateCheckout", "security": [{"BearerAuth": []}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}, "502": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/payments/webhook/{provider}": {
            "post": {"tags": ["payments"], "summary": "Receive a provider payment notification", "operationId": "paymentWebhook", "parameters": [{"name": "provider", "in": "path", "required": true, "schema": {"type": "string"}}, {"name": "token", "in": "query", "schema": {"type": "string"}}], "responses": {"200": {"$ref": "#/components/responses/Envelope"}, "401": {"$ref": "#/components/responses/Envelope"}}}
        },
        "/ping": {
            "get": {"tags": ["system"], "summary": "Ping", "operationId": "ping", "responses": {"200": {"$ref": "#/components/responses/Envelope"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "Napster Imports Settlement API",
	Description:      "Shipping rates, shipment batches, order pricing and payment reconciliation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
