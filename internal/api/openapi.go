package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	taskSchemaRef    = "#/components/schemas/Task"
	messageSchemaRef = "#/components/schemas/Message"
)

// BuildOpenAPISpec describes the JSON API.
func BuildOpenAPISpec() *openapi3.T {
	described := func(s *openapi3.Schema, description string) *openapi3.Schema {
		s.Description = description
		return s
	}

	taskSchema := openapi3.NewObjectSchema().
		WithProperty("id", described(openapi3.NewStringSchema(), "Task identifier")).
		WithProperty("title", described(openapi3.NewStringSchema(), "Task title")).
		WithProperty("description", described(openapi3.NewStringSchema(), "Task description")).
		WithProperty("completed", described(openapi3.NewBoolSchema(), "Completion flag")).
		WithProperty("createdAt", described(openapi3.NewStringSchema(), "Creation time (ISO-8601 or date)"))
	taskSchema.Required = []string{"id", "title", "description", "completed", "createdAt"}

	messageSchema := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema())
	messageSchema.Required = []string{"message"}

	createSchema := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema())
	createSchema.Required = []string{"title", "description"}

	toggleSchema := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema())
	toggleSchema.Required = []string{"id"}

	taskRef := &openapi3.SchemaRef{Ref: taskSchemaRef, Value: taskSchema}
	messageRef := &openapi3.SchemaRef{Ref: messageSchemaRef, Value: messageSchema}

	taskList := openapi3.NewArraySchema()
	taskList.Items = taskRef

	jsonResponse := func(description string, schema *openapi3.SchemaRef) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(description).WithJSONSchemaRef(schema)}
	}
	internal := jsonResponse("Internal server error", messageRef)

	listOp := &openapi3.Operation{
		OperationID: "listTasks",
		Summary:     "List tasks, newest first",
		Tags:        []string{"tasks"},
		Parameters: openapi3.Parameters{
			&openapi3.ParameterRef{Value: openapi3.NewQueryParameter("status").
				WithDescription("Only completed or only incomplete tasks; anything else lists all").
				WithSchema(openapi3.NewStringSchema().WithEnum("all", "completed", "incomplete"))},
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, jsonResponse("Tasks", &openapi3.SchemaRef{Value: taskList})),
			openapi3.WithStatus(http.StatusInternalServerError, internal),
		),
	}

	createOp := &openapi3.Operation{
		OperationID: "createTask",
		Summary:     "Create a task at the front of the list",
		Tags:        []string{"tasks"},
		RequestBody: &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchema(createSchema)},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusCreated, jsonResponse("Created task", taskRef)),
			openapi3.WithStatus(http.StatusBadRequest, jsonResponse(MsgTitleDescriptionRequired, messageRef)),
			openapi3.WithStatus(http.StatusInternalServerError, internal),
		),
	}

	toggleOp := &openapi3.Operation{
		OperationID: "toggleTask",
		Summary:     "Flip the completion flag of a task",
		Tags:        []string{"tasks"},
		RequestBody: &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchema(toggleSchema)},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, jsonResponse("Updated task", taskRef)),
			openapi3.WithStatus(http.StatusBadRequest, jsonResponse(MsgTaskIDRequired, messageRef)),
			openapi3.WithStatus(http.StatusNotFound, jsonResponse(MsgTaskNotFound, messageRef)),
			openapi3.WithStatus(http.StatusInternalServerError, internal),
		),
	}

	getOp := &openapi3.Operation{
		OperationID: "getTask",
		Summary:     "Get a single task",
		Tags:        []string{"tasks"},
		Parameters: openapi3.Parameters{
			&openapi3.ParameterRef{Value: openapi3.NewPathParameter("taskID").
				WithSchema(openapi3.NewStringSchema())},
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, jsonResponse("Task", taskRef)),
			openapi3.WithStatus(http.StatusNotFound, jsonResponse(MsgTaskNotFound, messageRef)),
		),
	}

	exportOp := &openapi3.Operation{
		OperationID: "exportTasks",
		Summary:     "Download tasks as markdown, csv, json or pdf",
		Tags:        []string{"export"},
		Parameters: openapi3.Parameters{
			&openapi3.ParameterRef{Value: openapi3.NewQueryParameter("format").
				WithSchema(openapi3.NewStringSchema().WithEnum("markdown", "csv", "json", "pdf"))},
			&openapi3.ParameterRef{Value: openapi3.NewQueryParameter("status").
				WithSchema(openapi3.NewStringSchema().WithEnum("all", "completed", "incomplete"))},
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Export document")}),
			openapi3.WithStatus(http.StatusBadRequest, jsonResponse("Unknown format", messageRef)),
		),
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Tasks API",
			Description: "In-memory task tracker",
			Version:     "1.0.0",
		},
		Servers: openapi3.Servers{
			&openapi3.Server{URL: "/", Description: "Current server"},
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/api/tasks", &openapi3.PathItem{Get: listOp, Post: createOp, Patch: toggleOp}),
			openapi3.WithPath("/api/tasks/{taskID}", &openapi3.PathItem{Get: getOp}),
			openapi3.WithPath("/api/export", &openapi3.PathItem{Get: exportOp}),
		),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Task":    &openapi3.SchemaRef{Value: taskSchema},
				"Message": &openapi3.SchemaRef{Value: messageSchema},
			},
		},
	}
}

// HandleOpenAPISpec returns the OpenAPI specification for the API
func HandleOpenAPISpec(logger *slog.Logger) http.HandlerFunc {
	doc := BuildOpenAPISpec()
	return func(w http.ResponseWriter, r *http.Request) {
		jsonData, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			writeInternalError(w, r, logger, "openapi", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(jsonData)
	}
}
