package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/dispatch"
	"github.com/DuckHunt-discord/Coroned-event/corona"
)

func frame(t *testing.T, fields map[string]any) []byte {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	data, err := proto.Marshal(s)
	require.NoError(t, err)
	return data
}

func TestRequestRoundTripKeepsSnowflakes(t *testing.T) {
	want := dispatch.Request{
		ID:      "abc",
		Seq:     7,
		Type:    dispatch.RequestCommand,
		Actor:   dispatch.Actor{ID: 138751484517941259, Name: "Eyesofcreeper"},
		Target:  &dispatch.Actor{ID: 687658498766602240, Name: "Webhook", System: true},
		Command: "use",
		Arg:     "gun",
		Peers:   []uint64{138751484517941259, 687658498766602241},
	}
	data, err := EncodeRequest(want)
	require.NoError(t, err)

	got, err := DecodeRequest(data)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDecodeRequestAcceptsSmallNumbers(t *testing.T) {
	got, err := DecodeRequest(frame(t, map[string]any{
		"seq":   3,
		"type":  "message",
		"actor": map[string]any{"id": 12},
		"peers": []any{13, "14"},
	}))
	require.NoError(t, err)
	require.Equal(t, uint64(3), got.Seq)
	require.Equal(t, dispatch.RequestMessage, got.Type)
	require.Equal(t, uint64(12), got.Actor.ID)
	require.Nil(t, got.Target)
	require.Equal(t, []uint64{13, 14}, got.Peers)
}

func TestDecodeRequestRejectsMalformed(t *testing.T) {
	cases := map[string][]byte{
		"garbage":        {0xff, 0x01, 0x02},
		"unknown type":   frame(t, map[string]any{"type": "dance", "actor": map[string]any{"id": "1"}}),
		"missing actor":  frame(t, map[string]any{"type": "command"}),
		"zero actor":     frame(t, map[string]any{"type": "command", "actor": map[string]any{"id": "0"}}),
		"fractional id":  frame(t, map[string]any{"type": "command", "actor": map[string]any{"id": 1.5}}),
		"negative seq":   frame(t, map[string]any{"seq": -1, "type": "command", "actor": map[string]any{"id": "1"}}),
		"bad peer":       frame(t, map[string]any{"type": "message", "actor": map[string]any{"id": "1"}, "peers": []any{"x"}}),
		"boolean target": frame(t, map[string]any{"type": "command", "actor": map[string]any{"id": "1"}, "target": map[string]any{"id": true}}),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRequest(data)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestEncodeResponse(t *testing.T) {
	data, err := EncodeResponse(dispatch.Response{
		RequestID: "r1",
		Seq:       9,
		Outcomes: []corona.Outcome{{
			Action:  corona.ActionTest,
			Kind:    corona.OutcomeInfo,
			Message: "🎈 RIP {actor}. Dead, Jim!",
			Changed: true,
			Directives: []corona.Directive{
				{Type: corona.DirectiveGrantRole, Subject: 138751484517941259, Role: corona.RoleDead},
				{Type: corona.DirectiveLog, Subject: 138751484517941259, Text: "Looks like {actor} is dead :("},
			},
		}},
	})
	require.NoError(t, err)

	var env structpb.Struct
	require.NoError(t, proto.Unmarshal(data, &env))
	m := env.AsMap()
	require.Equal(t, "r1", m["request_id"])
	require.Equal(t, "9", m["seq"])
	require.NotContains(t, m, "error")

	outcomes := m["outcomes"].([]any)
	require.Len(t, outcomes, 1)
	o := outcomes[0].(map[string]any)
	require.Equal(t, "test", o["action"])
	require.Equal(t, "info", o["kind"])
	require.Equal(t, true, o["changed"])

	dirs := o["directives"].([]any)
	require.Len(t, dirs, 2)
	grant := dirs[0].(map[string]any)
	require.Equal(t, "grant_role", grant["type"])
	require.Equal(t, "138751484517941259", grant["subject"])
	require.Equal(t, "dead", grant["role"])
	require.Equal(t, "log", dirs[1].(map[string]any)["type"])
}

func TestEncodeError(t *testing.T) {
	data, err := EncodeError(4, dispatch.ErrUnknownCommand)
	require.NoError(t, err)

	var env structpb.Struct
	require.NoError(t, proto.Unmarshal(data, &env))
	require.Equal(t, "unknown command", env.GetFields()["error"].GetStringValue())
	require.Empty(t, env.GetFields()["outcomes"].GetListValue().GetValues())
}
