package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
	mcpclientproto "github.com/viant/mcp-protocol/client"
	mcplogger "github.com/viant/mcp-protocol/logger"
	mcpschema "github.com/viant/mcp-protocol/schema"
	mcpserverproto "github.com/viant/mcp-protocol/server"

	"github.com/guttosm/polypulse/internal/domain/models"
	"github.com/guttosm/polypulse/internal/logger"
)

// ToolName is the single tool the bridge exposes.
const ToolName = "list_aggs"

// ToolInput carries the arguments of a list_aggs tool call. The field names
// match the aggregate data service's query parameters one to one, so the
// bridge forwards arguments without renaming.
type ToolInput struct {
	Ticker     string `json:"ticker"`
	Multiplier int    `json:"multiplier,omitempty"`
	Timespan   string `json:"timespan,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

// query converts the tool arguments into the shared request type.
func (in ToolInput) query() models.AggsQuery {
	return models.AggsQuery{
		Ticker:     in.Ticker,
		Multiplier: in.Multiplier,
		Timespan:   in.Timespan,
		From:       in.From,
		To:         in.To,
		Limit:      in.Limit,
		MaxResults: in.MaxResults,
	}
}

// Handler translates agent tool calls into HTTP requests against the
// aggregate data service. It implements the MCP server handler surface:
// tools/list and tools/call are served, every other capability reports
// method-not-found.
type Handler struct {
	svc *Service
}

// NewHandler returns a Handler forwarding tool calls through svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// NewHandlerFactory adapts a Handler to the server constructor's factory
// signature. The same handler instance serves every session; it holds no
// per-session state.
func NewHandlerFactory(h *Handler) func(ctx context.Context, notifier transport.Notifier, l mcplogger.Logger, client mcpclientproto.Operations) (mcpserverproto.Handler, error) {
	return func(_ context.Context, _ transport.Notifier, _ mcplogger.Logger, _ mcpclientproto.Operations) (mcpserverproto.Handler, error) {
		return h, nil
	}
}

func (h *Handler) Initialize(_ context.Context, _ *mcpschema.InitializeRequestParams, _ *mcpschema.InitializeResult) {
}

// ListTools advertises the single list_aggs tool with its input schema.
func (h *Handler) ListTools(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ListToolsRequest]) (*mcpschema.ListToolsResult, *jsonrpc.Error) {
	logger.L().Info().Msg("tools/list called")
	return &mcpschema.ListToolsResult{Tools: []mcpschema.Tool{toolDefinition()}}, nil
}

// CallTool dispatches a tool call. An unknown tool name is rejected with a
// method-not-found error before any HTTP request is made.
func (h *Handler) CallTool(ctx context.Context, req *jsonrpc.TypedRequest[*mcpschema.CallToolRequest]) (*mcpschema.CallToolResult, *jsonrpc.Error) {
	if req == nil || req.Request == nil {
		return nil, jsonrpc.NewInvalidRequest("missing request", nil)
	}
	name := req.Request.Params.Name
	logger.L().Info().Str("tool", name).Msg("tools/call received")

	if name != ToolName {
		return nil, mcpschema.NewUnknownTool(name)
	}

	var input ToolInput
	if len(req.Request.Params.Arguments) > 0 {
		raw, err := json.Marshal(req.Request.Params.Arguments)
		if err != nil {
			return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("unable to marshal tool arguments: %v", err), nil)
		}
		if err := json.Unmarshal(raw, &input); err != nil {
			return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("invalid tool arguments: %v", err), nil)
		}
	}

	body, err := h.svc.ListAggs(ctx, input.query())
	if err != nil {
		logger.L().Error().Err(err).Str("tool", name).Msg("tool call failed")
		isErr := true
		return &mcpschema.CallToolResult{
			IsError: &isErr,
			Content: []mcpschema.CallToolResultContentElem{{Type: "text", Text: err.Error()}},
		}, nil
	}

	return &mcpschema.CallToolResult{
		Content: []mcpschema.CallToolResultContentElem{{Type: "text", Text: body}},
	}, nil
}

func (h *Handler) ListResources(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ListResourcesRequest]) (*mcpschema.ListResourcesResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("resources/list not implemented", nil)
}

func (h *Handler) ListResourceTemplates(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ListResourceTemplatesRequest]) (*mcpschema.ListResourceTemplatesResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("resources/templates/list not implemented", nil)
}

func (h *Handler) ReadResource(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ReadResourceRequest]) (*mcpschema.ReadResourceResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("resources/read not implemented", nil)
}

func (h *Handler) Subscribe(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.SubscribeRequest]) (*mcpschema.SubscribeResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("subscribe not implemented", nil)
}

func (h *Handler) Unsubscribe(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.UnsubscribeRequest]) (*mcpschema.UnsubscribeResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("unsubscribe not implemented", nil)
}

func (h *Handler) ListPrompts(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ListPromptsRequest]) (*mcpschema.ListPromptsResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("prompts/list not implemented", nil)
}

func (h *Handler) GetPrompt(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.GetPromptRequest]) (*mcpschema.GetPromptResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("prompts/get not implemented", nil)
}

func (h *Handler) Complete(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.CompleteRequest]) (*mcpschema.CompleteResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("complete not implemented", nil)
}

func (h *Handler) OnNotification(_ context.Context, _ *jsonrpc.Notification) {}

func (h *Handler) Implements(method string) bool {
	switch method {
	case mcpschema.MethodToolsList, mcpschema.MethodToolsCall:
		return true
	default:
		return false
	}
}

// toolDefinition builds the advertised schema for list_aggs. The parameter
// set mirrors ToolInput; only the ticker is required.
func toolDefinition() mcpschema.Tool {
	desc := "Fetch aggregate bars (OHLCV data) for a stock ticker"
	return mcpschema.Tool{
		Name:        ToolName,
		Description: &desc,
		InputSchema: mcpschema.ToolInputSchema{
			Type: "object",
			Properties: mcpschema.ToolInputSchemaProperties{
				"ticker":      {"type": "string", "description": "Stock ticker symbol (e.g., AAPL)"},
				"multiplier":  {"type": "integer", "description": "Size of the timespan multiplier"},
				"timespan":    {"type": "string", "description": "Time window (minute, hour, day, week, month, quarter, year)"},
				"from":        {"type": "string", "description": "Start date (YYYY-MM-DD)"},
				"to":          {"type": "string", "description": "End date (YYYY-MM-DD)"},
				"limit":       {"type": "integer", "description": "Maximum number of results to fetch upstream"},
				"max_results": {"type": "integer", "description": "Maximum results to return in the response"},
			},
			Required: []string{"ticker"},
		},
	}
}
