package gql

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/m04kA/SMC-CarReservation/internal/api/handlers"
)

const msgInvalidBody = "некорректный GraphQL запрос"

// Request тело запроса POST /graphql
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type Handler struct {
	schema graphql.Schema
	logger Logger
}

func NewHandler(schema graphql.Schema, logger Logger) *Handler {
	return &Handler{
		schema: schema,
		logger: logger,
	}
}

// Handle POST /graphql
// Ответ всегда 200: ошибки выполнения возвращаются в поле errors по соглашению GraphQL
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := handlers.DecodeJSON(r, &req); err != nil || req.Query == "" {
		h.logger.Warn("POST /graphql - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	if result.HasErrors() {
		h.logger.Warn("POST /graphql - Operation %q finished with errors: %v", req.OperationName, result.Errors)
	} else {
		h.logger.Info("POST /graphql - Operation %q executed successfully", req.OperationName)
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
