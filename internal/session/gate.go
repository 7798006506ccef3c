package session

// Gate approves destructive actions. The session never prompts on its own;
// the caller decides how confirmation is obtained.
type Gate interface {
	Confirm(prompt string) bool
}

// GateFunc adapts a function to Gate.
type GateFunc func(prompt string) bool

func (f GateFunc) Confirm(prompt string) bool { return f(prompt) }

// Authorized approves every action. Use it when the caller has already confirmed.
var Authorized Gate = GateFunc(func(string) bool { return true })

// Denied refuses every action.
var Denied Gate = GateFunc(func(string) bool { return false })

func confirm(g Gate, prompt string) bool {
	return g != nil && g.Confirm(prompt)
}
