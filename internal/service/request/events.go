package request

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
)

// HubPublisher pushes request transitions to the owner and to managers.
type HubPublisher struct {
	hub *sse.Hub
}

func NewHubPublisher(hub *sse.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

// Publish implements request.EventPublisher.
func (p *HubPublisher) Publish(ev request.Event) {
	delivered := p.hub.Publish(
		sse.Event{Name: string(ev.Type), Data: ev},
		sse.UserTopic(ev.Request.UserID),
		sse.RoleTopic(string(user.RoleManager)),
	)
	slog.Debug("Request event published", "type", ev.Type, "request_id", ev.Request.ID, "delivered", delivered)
}

var _ request.EventPublisher = (*HubPublisher)(nil)
