package model

// MessageType tags a Message coming out of the background pipeline.
type MessageType int

const (
	MessageSnapshot MessageType = iota + 1
	MessageIcon
)

func (t MessageType) String() string {
	switch t {
	case MessageSnapshot:
		return "snapshot"
	case MessageIcon:
		return "icon"
	default:
		return "unknown"
	}
}

// Message is the tagged union carried on the pipeline's outbound channel.
// A snapshot replaces the consumer's view, it is never a delta.
type Message struct {
	Type      MessageType
	Processes []Process

	PID  uint32
	Icon *Icon
}

// ProcessSnapshot wraps a full process table.
func ProcessSnapshot(processes []Process) Message {
	return Message{Type: MessageSnapshot, Processes: processes}
}

// IconReady wraps an extracted icon for pid.
func IconReady(pid uint32, icon *Icon) Message {
	return Message{Type: MessageIcon, PID: pid, Icon: icon}
}

// IconRequest asks the icon resolver to extract the icon of ExePath for PID.
type IconRequest struct {
	PID     uint32
	ExePath string
}
