package graphqlapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/spec-kit/taskboard/internal/auth"
	apperrors "github.com/spec-kit/taskboard/pkg/util"
)

// Handler serves POST /graphql.
type Handler struct {
	schema graphql.Schema
	logger *zap.Logger
}

// NewHandler constructs the handler.
func NewHandler(schema graphql.Schema, logger *zap.Logger) *Handler {
	return &Handler{schema: schema, logger: logger}
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Post executes a GraphQL request. The raw Authorization header rides the
// context into the resolvers; per GraphQL convention resolver failures are
// reported in the errors array of a 200 response.
func (h *Handler) Post(c *fiber.Ctx) error {
	var req graphqlRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Query) == "" {
		return apperrors.NewValidationError("query required", nil)
	}

	ctx := auth.WithAuthorization(c.UserContext(), c.Get(fiber.HeaderAuthorization))

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	if result.HasErrors() {
		h.logger.Debug("graphql request failed", zap.Any("errors", result.Errors))
	}
	return c.JSON(result)
}
