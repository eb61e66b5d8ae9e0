package statusfeed

import (
	"context"
	"time"

	"tutorhub/internal/domain"
)

// StatusEvent is what both parties see when their slot changes state.
// The view field carries the projected status, never the raw column.
type StatusEvent struct {
	Type       string          `json:"type"`
	SlotID     int64           `json:"slot_id"`
	View       domain.SlotView `json:"view"`
	MeetingURL string          `json:"meeting_url,omitempty"`
	At         time.Time       `json:"at"`
}

// Notifier pushes slot status changes over the hub. Delivery is best
// effort: an offline party just misses the push and reads the status
// endpoint later.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) NotifySlotStatus(ctx context.Context, slot *domain.Slot, view domain.SlotView) {
	event := StatusEvent{
		Type:   "slot_status",
		SlotID: slot.ID,
		View:   view,
		At:     time.Now(),
	}
	if view == domain.ViewPaid {
		event.MeetingURL = slot.MeetingURL
	}

	n.hub.SendToUser(slot.TutorID, event)
	n.hub.SendToUser(slot.LearnerID, event)
}
