package types

// Outcome is the result of one administrative action: whether it succeeded
// and the text shown to the operator. The message is surfaced verbatim on
// the status screen, success only picks the styling.
type Outcome struct {
	Success bool
	Message string
}
