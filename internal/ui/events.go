package ui

import (
	"quiz-ladders/internal/board"
)

// EventType tells a subscriber what changed.
type EventType string

const (
	// EventState means the view content changed and should be re-rendered.
	EventState EventType = "state"
	// EventFrame carries a new marker position.
	EventFrame EventType = "frame"
)

// Frame is one animation step of the marker.
type Frame struct {
	Position float64 `json:"position"`
	Cell     int     `json:"cell"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Measured bool    `json:"measured"`
}

// Event is delivered to subscribers. Exactly one of View or Frame is meaningful, by Type.
type Event struct {
	Type  EventType
	View  View
	Frame Frame
}

// Subscribe returns a channel of state and frame events. The current marker frame is
// delivered first. The caller must invoke the returned cancel function to avoid leaks.
// On a closed store the channel is closed right after the initial frame.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	s.pubMu.Lock()
	// ch is empty, so the initial frame never blocks and always precedes broadcasts
	ch <- Event{Type: EventFrame, Frame: frameAt(s.anim.Position(), s.geometry)}
	if s.pubClosed {
		close(ch)
		s.pubMu.Unlock()
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	s.pubMu.Unlock()

	cancel := func() {
		s.pubMu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.pubMu.Unlock()
	}
	return ch, cancel
}

func frameAt(pos float64, g board.Geometry) Frame {
	f := Frame{Position: pos, Cell: board.CellNumber(pos), Measured: g.Measured()}
	if f.Measured {
		p := g.PixelFor(pos)
		f.X, f.Y = p.X, p.Y
	}
	return f
}

func (s *Store) publishFrame(pos float64) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.broadcastLocked(Event{Type: EventFrame, Frame: frameAt(pos, s.geometry)})
}

func (s *Store) publishState(v View) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.broadcastLocked(Event{Type: EventState, View: v})
}

func (s *Store) broadcastLocked(ev Event) {
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// slow reader: drop its oldest event to make room
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
