package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/dispatch"
	"github.com/DuckHunt-discord/Coroned-event/corona"
)

// Frames are protobuf encoded google.protobuf.Struct envelopes. Identities
// are snowflakes above 2^53, so they travel as decimal strings.

// ErrMalformed is returned for frames that are not a valid request.
var ErrMalformed = errors.New("malformed envelope")

var requestTypes = map[string]dispatch.RequestType{
	"command": dispatch.RequestCommand,
	"message": dispatch.RequestMessage,
}

// DecodeRequest parses one client frame.
func DecodeRequest(data []byte) (dispatch.Request, error) {
	var env structpb.Struct
	if err := proto.Unmarshal(data, &env); err != nil {
		return dispatch.Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	fields := env.GetFields()

	req := dispatch.Request{
		ID:          fields["request_id"].GetStringValue(),
		Command:     strings.TrimSpace(fields["command"].GetStringValue()),
		Arg:         strings.TrimSpace(fields["arg"].GetStringValue()),
		BotAuthored: fields["bot_authored"].GetBoolValue(),
	}

	seq, err := uintValue(fields["seq"])
	if err != nil {
		return req, fmt.Errorf("%w: seq: %v", ErrMalformed, err)
	}
	req.Seq = seq

	typ, ok := requestTypes[fields["type"].GetStringValue()]
	if !ok {
		return req, fmt.Errorf("%w: unknown type %q", ErrMalformed, fields["type"].GetStringValue())
	}
	req.Type = typ

	actor, err := decodeActor(fields["actor"])
	if err != nil {
		return req, fmt.Errorf("%w: actor: %v", ErrMalformed, err)
	}
	if actor == nil {
		return req, fmt.Errorf("%w: missing actor", ErrMalformed)
	}
	req.Actor = *actor

	if req.Target, err = decodeActor(fields["target"]); err != nil {
		return req, fmt.Errorf("%w: target: %v", ErrMalformed, err)
	}

	for _, v := range fields["peers"].GetListValue().GetValues() {
		id, err := uintValue(v)
		if err != nil {
			return req, fmt.Errorf("%w: peers: %v", ErrMalformed, err)
		}
		req.Peers = append(req.Peers, id)
	}
	return req, nil
}

func decodeActor(v *structpb.Value) (*dispatch.Actor, error) {
	s := v.GetStructValue()
	if s == nil {
		return nil, nil
	}
	id, err := uintValue(s.GetFields()["id"])
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, errors.New("missing id")
	}
	return &dispatch.Actor{
		ID:     id,
		Name:   s.GetFields()["name"].GetStringValue(),
		System: s.GetFields()["system"].GetBoolValue(),
	}, nil
}

// uintValue accepts a decimal string or a whole number. A missing value
// is 0.
func uintValue(v *structpb.Value) (uint64, error) {
	switch k := v.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return 0, nil
	case *structpb.Value_StringValue:
		return strconv.ParseUint(strings.TrimSpace(k.StringValue), 10, 64)
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n < 0 || n != math.Trunc(n) || n > 1<<53 {
			return 0, fmt.Errorf("not an exact identity: %v", n)
		}
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("unexpected %T", k)
	}
}

// EncodeRequest builds a client frame. Bridges written in Go and the tests
// use it.
func EncodeRequest(req dispatch.Request) ([]byte, error) {
	fields := map[string]any{
		"request_id":   req.ID,
		"seq":          strconv.FormatUint(req.Seq, 10),
		"type":         req.Type.String(),
		"actor":        encodeActor(req.Actor),
		"command":      req.Command,
		"arg":          req.Arg,
		"bot_authored": req.BotAuthored,
	}
	if req.Target != nil {
		fields["target"] = encodeActor(*req.Target)
	}
	if len(req.Peers) > 0 {
		peers := make([]any, 0, len(req.Peers))
		for _, id := range req.Peers {
			peers = append(peers, strconv.FormatUint(id, 10))
		}
		fields["peers"] = peers
	}
	return marshal(fields)
}

func encodeActor(a dispatch.Actor) map[string]any {
	return map[string]any{
		"id":     strconv.FormatUint(a.ID, 10),
		"name":   a.Name,
		"system": a.System,
	}
}

// EncodeResponse builds the server frame answering a request.
func EncodeResponse(resp dispatch.Response) ([]byte, error) {
	outcomes := make([]any, 0, len(resp.Outcomes))
	for _, o := range resp.Outcomes {
		outcomes = append(outcomes, encodeOutcome(o))
	}
	fields := map[string]any{
		"request_id": resp.RequestID,
		"seq":        strconv.FormatUint(resp.Seq, 10),
		"outcomes":   outcomes,
	}
	if resp.Err != nil {
		fields["error"] = resp.Err.Error()
	}
	return marshal(fields)
}

// EncodeError answers a frame that could not be dispatched.
func EncodeError(seq uint64, err error) ([]byte, error) {
	return EncodeResponse(dispatch.Response{Seq: seq, Err: err})
}

func encodeOutcome(o corona.Outcome) map[string]any {
	directives := make([]any, 0, len(o.Directives))
	for _, d := range o.Directives {
		dir := map[string]any{
			"type":    d.Type.String(),
			"subject": strconv.FormatUint(d.Subject, 10),
		}
		if d.Role != "" {
			dir["role"] = string(d.Role)
		}
		if d.File != "" {
			dir["file"] = d.File
		}
		if d.Text != "" {
			dir["text"] = d.Text
		}
		directives = append(directives, dir)
	}
	return map[string]any{
		"action":     o.Action.String(),
		"kind":       o.Kind.String(),
		"message":    o.Message,
		"changed":    o.Changed,
		"directives": directives,
	}
}

func marshal(fields map[string]any) ([]byte, error) {
	env, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build envelope: %w", err)
	}
	return proto.Marshal(env)
}
