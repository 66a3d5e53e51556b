package status

// Kind is the phase of one interaction.
type Kind int

const (
	Idle Kind = iota
	Pending
	Succeeded
	Failed
)

func (k Kind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Status is what a status surface shows.
type Status struct {
	Kind Kind
	Text string
}

func Start(text string) Status {
	return Status{Kind: Pending, Text: text}
}

func Succeed(text string) Status {
	return Status{Kind: Succeeded, Text: text}
}

// Fail renders a failure message as "Error: <message>".
func Fail(message string) Status {
	return Status{Kind: Failed, Text: "Error: " + message}
}

// Busy reports whether a request is in flight.
func (s Status) Busy() bool {
	return s.Kind == Pending
}

func (s Status) String() string {
	return s.Text
}
