package library

// NoticeLevel classifies a [Notice].
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a short user-facing message, rendered as a toast by the TUI and printed by the CLI.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// notify sends a notice without blocking.
func (s *Store) notify(level NoticeLevel, msg string) {
	if s.notices == nil {
		return
	}
	select {
	case s.notices <- Notice{Level: level, Message: msg}:
	default:
	}
}
