package deepagent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/youssef-mostafa25/deepagents/oracle"
)

// OracleInput is everything the decision-making oracle sees for one call:
// the session instructions, the transcript so far, the tool catalog, the
// rendered workspace/todo state, and an optional model override.
type OracleInput struct {
	Instructions string
	Transcript   []Turn
	Catalog      []oracle.ToolDefinition
	Context      string
	Model        string
}

// Oracle is the external decision-making collaborator. Given the current
// transcript and tool catalog it returns an agent turn carrying either a
// final answer (no actions) or one or more requested actions. The core
// never inspects how the decision was made.
type Oracle interface {
	Decide(ctx context.Context, in OracleInput) (Turn, error)
}

// ClientOracle adapts an oracle.Client into the core's Oracle interface,
// with per-call retry and an optional timeout.
type ClientOracle struct {
	client  *oracle.Client
	model   string
	retry   oracle.RetryPolicy
	timeout time.Duration
}

// ClientOracleOption configures a ClientOracle.
type ClientOracleOption func(*ClientOracle)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p oracle.RetryPolicy) ClientOracleOption {
	return func(o *ClientOracle) { o.retry = p }
}

// WithTimeout bounds each oracle call.
func WithTimeout(d time.Duration) ClientOracleOption {
	return func(o *ClientOracle) { o.timeout = d }
}

// NewClientOracle creates an Oracle backed by the given client and default
// model.
func NewClientOracle(client *oracle.Client, model string, opts ...ClientOracleOption) *ClientOracle {
	o := &ClientOracle{
		client: client,
		model:  model,
		retry:  oracle.DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Decide renders the transcript as messages, calls the model, and maps the
// response back onto an agent turn.
func (o *ClientOracle) Decide(ctx context.Context, in OracleInput) (Turn, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	model := in.Model
	if model == "" {
		model = o.model
	}

	system := in.Instructions + basePrompt
	if in.Context != "" {
		system += "\n\n" + in.Context
	}

	messages := append([]oracle.Message{oracle.SystemMessage(system)}, transcriptToMessages(in.Transcript)...)

	req := oracle.Request{
		Model:      model,
		Messages:   messages,
		ToolDefs:   in.Catalog,
		ToolChoice: &oracle.ToolChoice{Mode: "auto"},
	}

	resp, err := oracle.Retry(ctx, o.retry, func(ctx context.Context) (*oracle.Response, error) {
		return o.client.Complete(ctx, req)
	})
	if err != nil {
		return Turn{}, fmt.Errorf("oracle call failed: %w", err)
	}

	return responseToTurn(resp), nil
}

// transcriptToMessages converts the turn-based transcript into oracle
// messages.
func transcriptToMessages(transcript []Turn) []oracle.Message {
	var messages []oracle.Message
	for _, turn := range transcript {
		switch turn.Kind {
		case TurnUser:
			messages = append(messages, oracle.UserMessage(turn.Content))
		case TurnAgent:
			msg := oracle.AssistantMessage(turn.Content)
			for _, action := range turn.Actions {
				msg.Content = append(msg.Content,
					oracle.ToolCallPart(action.ID, action.Name, action.Arguments))
			}
			messages = append(messages, msg)
		case TurnActionResult:
			if turn.Result != nil {
				messages = append(messages,
					oracle.ToolResultMessage(turn.Result.RequestID, turn.Result.Content, turn.Result.Failed()))
			}
		}
	}
	return messages
}

// responseToTurn maps an oracle response onto an agent turn. Tool calls
// missing an identifier get a synthesized one so every ActionRequest stays
// correlatable to its result.
func responseToTurn(resp *oracle.Response) Turn {
	calls := resp.ToolCalls()
	actions := make([]ActionRequest, 0, len(calls))
	for _, call := range calls {
		id := call.ID
		if id == "" {
			id = "call_" + uuid.New().String()[:8]
		}
		actions = append(actions, ActionRequest{
			ID:        id,
			Name:      call.Name,
			Arguments: call.Arguments,
		})
	}
	return NewAgentTurn(resp.Text(), actions)
}
