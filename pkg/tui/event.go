package tui

type eventType int

const (
	eventTypeSpin eventType = iota
	eventTypeBar
	eventTypeText
)

type Event struct {
	eventType eventType
	text      string
	percent   float64
}

func NewEventSpin(text string) Event {
	return Event{
		eventType: eventTypeSpin,
		text:      text,
	}
}

// NewEventBar shows a progress bar, percent in [0, 1].
func NewEventBar(text string, percent float64) Event {
	return Event{
		eventType: eventTypeBar,
		text:      text,
		percent:   percent,
	}
}

func NewEventText(text string) Event {
	return Event{
		eventType: eventTypeText,
		text:      text,
	}
}

func (e Event) Text() string { return e.text }

func (e Event) Percent() float64 { return e.percent }

func (e Event) IsBar() bool { return e.eventType == eventTypeBar }
