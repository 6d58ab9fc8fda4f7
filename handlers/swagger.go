package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>resumeforge API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the auth and resume endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "resumeforge", "version": "v0.1.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Credentials": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"},"fullName":{"type":"string"}}},
      "Login": {"type":"object","properties":{"mode":{"type":"string","enum":["password","oauth_code"]},"email":{"type":"string"},"password":{"type":"string"},"code":{"type":"string"}}},
      "Refresh": {"type":"object","properties":{"refresh_token":{"type":"string"}}},
      "FieldUpdate": {"type":"object","required":["field"],"properties":{"field":{"type":"string"},"value":{"type":"string"}}},
      "Document": {"type":"object","required":["personalInfo","education","experience","projects","skills","languages"]}
    }
  },
  "security": [{ "bearer": [] }],
  "paths": {
    "/auth/signup": { "post": { "summary": "Create a password account", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Credentials"}}}}, "responses": { "201": { "description": "tokens returned" }, "409": { "description": "email taken" } } } },
    "/auth/login": { "post": { "summary": "Password sign-in or OAuth code exchange", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Login"}}}}, "responses": { "200": { "description": "tokens returned" }, "401": { "description": "invalid credentials" } } } },
    "/auth/refresh": { "post": { "summary": "Rotate refresh token", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Refresh"}}}}, "responses": { "200": { "description": "new tokens" }, "401": { "description": "invalid refresh" } } } },
    "/auth/logout": { "post": { "summary": "Logout and revoke tokens", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Refresh"}}}}, "responses": { "200": { "description": "logged out" } } } },
    "/auth/oidc": { "get": { "summary": "Start OAuth sign-in", "responses": { "302": { "description": "redirect to provider" } } } },
    "/auth/callback": { "get": { "summary": "OAuth redirect target", "responses": { "302": { "description": "redirect to dashboard or login" } } } },
    "/api/v1/me": { "get": { "summary": "Current user", "responses": { "200": { "description": "user" } } } },
    "/api/v1/settings": { "get": { "summary": "Account settings", "responses": { "200": { "description": "settings" } } } },
    "/api/v1/resumes": { "get": { "summary": "List own resumes", "parameters": [{"name":"search","in":"query","schema":{"type":"string"}},{"name":"filter","in":"query","schema":{"type":"string","enum":["all","recent","oldest"]}}], "responses": { "200": { "description": "resumes" } } } },
    "/api/v1/resumes/{id}": {
      "get": { "summary": "Get resume", "responses": { "200": { "description": "resume" }, "404": { "description": "not found" } } },
      "put": { "summary": "Replace resume document", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Document"}}}}, "responses": { "200": { "description": "updated" }, "400": { "description": "invalid" } } },
      "delete": { "summary": "Delete resume", "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/v1/resumes/{id}/preview": { "get": { "summary": "Printable HTML preview", "responses": { "200": { "description": "html" } } } },
    "/api/v1/resumes/{id}/download": { "get": { "summary": "Export PDF", "responses": { "200": { "description": "application/pdf" } } } },
    "/api/v1/resumes/{id}/exports": { "get": { "summary": "Export history", "responses": { "200": { "description": "exports" } } } },
    "/api/v1/draft": {
      "get": { "summary": "Current draft", "responses": { "200": { "description": "draft" } } },
      "put": { "summary": "Replace draft", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Document"}}}}, "responses": { "200": { "description": "draft" } } },
      "delete": { "summary": "Clear draft", "responses": { "200": { "description": "draft cleared" } } }
    },
    "/api/v1/draft/save": { "post": { "summary": "Save draft as a new resume", "responses": { "201": { "description": "created" }, "400": { "description": "full name required" } } } },
    "/api/v1/draft/preview": { "get": { "summary": "Draft preview", "responses": { "200": { "description": "html" } } } },
    "/api/v1/draft/personal-info": { "patch": { "summary": "Set a personal info field", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/FieldUpdate"}}}}, "responses": { "200": { "description": "draft" } } } },
    "/api/v1/draft/title": { "put": { "summary": "Set the title", "responses": { "200": { "description": "draft" } } } },
    "/api/v1/draft/skills": { "post": { "summary": "Add a skill", "responses": { "200": { "description": "draft" } } } },
    "/api/v1/draft/skills/{skill}": { "delete": { "summary": "Remove a skill", "responses": { "200": { "description": "draft" } } } },
    "/api/v1/draft/sections/{section}": { "post": { "summary": "Add a blank entry", "responses": { "200": { "description": "draft" }, "400": { "description": "unknown section" } } } },
    "/api/v1/draft/sections/{section}/{entryID}": {
      "patch": { "summary": "Update an entry field", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/FieldUpdate"}}}}, "responses": { "200": { "description": "draft" } } },
      "delete": { "summary": "Remove an entry", "responses": { "200": { "description": "draft" }, "409": { "description": "last entry" } } }
    },
    "/api/v1/templates": { "get": { "summary": "Preview templates", "responses": { "200": { "description": "templates" } } } },
    "/api/v1/templates/select": { "post": { "summary": "Select a template", "responses": { "200": { "description": "selected" } } } },
    "/api/v1/suggestions": { "get": { "summary": "Skill, language and proficiency suggestions", "responses": { "200": { "description": "catalogs" } } } },
    "/api/v1/chat": {
      "get": { "summary": "Assistant greeting", "responses": { "200": { "description": "greeting" } } },
      "post": { "summary": "Ask the FAQ assistant", "responses": { "200": { "description": "reply" }, "204": { "description": "blank message ignored" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
