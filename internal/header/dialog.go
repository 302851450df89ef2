package header

type DialogState int

const (
	DialogClosed DialogState = iota
	DialogOpen
)

func (s DialogState) String() string {
	switch s {
	case DialogOpen:
		return "open"
	default:
		return "closed"
	}
}

func (s DialogState) IsOpen() bool {
	return s == DialogOpen
}

type DialogEvent int

const (
	DialogEventRequest DialogEvent = iota
	DialogEventCancel
	DialogEventConfirm
)

func (e DialogEvent) String() string {
	switch e {
	case DialogEventRequest:
		return "request"
	case DialogEventCancel:
		return "cancel"
	case DialogEventConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Next returns the dialog state reached from s when e occurs.
// Unknown events leave the state unchanged.
func (s DialogState) Next(e DialogEvent) DialogState {
	switch e {
	case DialogEventRequest:
		return DialogOpen
	case DialogEventCancel, DialogEventConfirm:
		return DialogClosed
	default:
		return s
	}
}
