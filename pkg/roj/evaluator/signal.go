package evaluator

import "github.com/sambeau/roj/pkg/roj/lexer"

// SignalKind identifies a control signal.
type SignalKind int

const (
	SignalStop SignalKind = iota + 1
	SignalJumpover
	SignalHalt
	SignalReturn
)

func (k SignalKind) String() string {
	switch k {
	case SignalStop:
		return "stop"
	case SignalJumpover:
		return "jumpover"
	case SignalHalt:
		return "halt"
	case SignalReturn:
		return "return"
	}
	return "unknown"
}

// Signal is a control transfer in flight. It is never a language value.
type Signal struct {
	Kind    SignalKind
	Payload Object      // halt and return only; nil otherwise
	Token   lexer.Token // the statement that raised it
}

// Outcome is the result of evaluating a node: an ordinary value, or a
// signal when Signal is non-nil.
type Outcome struct {
	Value  Object
	Signal *Signal
}

// IsSignal reports whether the outcome carries a control signal.
func (o Outcome) IsSignal() bool {
	return o.Signal != nil
}

func valueOutcome(obj Object) Outcome {
	return Outcome{Value: obj}
}

func signalOutcome(kind SignalKind, payload Object, tok lexer.Token) Outcome {
	return Outcome{Signal: &Signal{Kind: kind, Payload: payload, Token: tok}}
}
