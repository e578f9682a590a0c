package corona

// Message templates may contain these placeholders; the bridge replaces
// them with platform mentions.
const (
	ActorPlaceholder  = "{actor}"
	TargetPlaceholder = "{target}"
)

// OutcomeKind tells the bridge how to present an Outcome.
type OutcomeKind byte

const (
	OutcomeInfo     OutcomeKind = 0 // action resolved
	OutcomeDenied   OutcomeKind = 1 // precondition failed, nothing changed
	OutcomeConfused OutcomeKind = 2 // unknown item or argument
)

var OutcomeKindDictionary = map[OutcomeKind]string{
	OutcomeInfo:     "info",
	OutcomeDenied:   "denied",
	OutcomeConfused: "confused",
}

func (k OutcomeKind) String() string {
	if s, ok := OutcomeKindDictionary[k]; ok {
		return s
	}
	return "unknown"
}

// DirectiveType is a side effect the bridge performs on the chat server.
type DirectiveType byte

const (
	DirectiveGrantRole  DirectiveType = 1
	DirectiveRevokeRole DirectiveType = 2
	DirectiveAttachFile DirectiveType = 3
	DirectiveLog        DirectiveType = 4 // post Text to the moderation log channel
)

var DirectiveTypeDictionary = map[DirectiveType]string{
	DirectiveGrantRole:  "grant_role",
	DirectiveRevokeRole: "revoke_role",
	DirectiveAttachFile: "attach_file",
	DirectiveLog:        "log",
}

func (t DirectiveType) String() string {
	if s, ok := DirectiveTypeDictionary[t]; ok {
		return s
	}
	return "unknown"
}

// Role names a chat role the bridge grants or revokes.
type Role string

const (
	RoleDead     Role = "dead"
	RoleInfected Role = "infected"
	RoleCured    Role = "cured"
)

// Directive is a side effect the bridge performs on the chat platform.
// Subject is the identity the directive applies to.
type Directive struct {
	Type    DirectiveType
	Subject uint64
	Role    Role
	File    string
	Text    string
}

// Outcome is the result of one action or ambient event, ready for the
// bridge to render.
type Outcome struct {
	Action     Action
	Kind       OutcomeKind
	Message    string
	Directives []Directive
	// Changed is true when any participant was mutated and must be saved.
	Changed bool
}

// Denied reports a refused action.
func (o Outcome) Denied() bool { return o.Kind == OutcomeDenied }

func info(a Action, msg string) Outcome {
	return Outcome{Action: a, Kind: OutcomeInfo, Message: msg, Changed: true}
}

// note is an informational outcome that did not change state.
func note(a Action, msg string) Outcome {
	return Outcome{Action: a, Kind: OutcomeInfo, Message: msg}
}

func denied(a Action, msg string) Outcome {
	return Outcome{Action: a, Kind: OutcomeDenied, Message: msg}
}

func confused(a Action, msg string) Outcome {
	return Outcome{Action: a, Kind: OutcomeConfused, Message: msg}
}

func (o *Outcome) grantRole(p *Player, r Role) {
	if p.System {
		return
	}
	o.Directives = append(o.Directives, Directive{Type: DirectiveGrantRole, Subject: p.Identity, Role: r})
}

func (o *Outcome) revokeRole(p *Player, r Role) {
	if p.System {
		return
	}
	o.Directives = append(o.Directives, Directive{Type: DirectiveRevokeRole, Subject: p.Identity, Role: r})
}

func (o *Outcome) attach(file string) {
	o.Directives = append(o.Directives, Directive{Type: DirectiveAttachFile, File: file})
}

func (o *Outcome) log(p *Player, text string) {
	o.Directives = append(o.Directives, Directive{Type: DirectiveLog, Subject: p.Identity, Text: text})
}

// NoTarget is the answer to a two-party command sent without a target.
func NoTarget(a Action) Outcome {
	return confused(a, "❓ {actor}, you need to mention someone to "+a.String()+".")
}
