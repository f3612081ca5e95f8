package events

import (
	"context"
	"sync"
	"time"
)

// Event types published on lead mutations.
const (
	TypeLeadCreated            = "lead.created"
	TypeLeadStatusChanged      = "lead.status_changed"
	TypeLeadReassigned         = "lead.reassigned"
	TypeLeadTechnicianAssigned = "lead.technician_assigned"
)

// LeadEvent is the JSON body published to the queue.
type LeadEvent struct {
	Type         string    `json:"type"`
	LeadID       uint      `json:"leadId"`
	Status       string    `json:"status,omitempty"`
	OperatorID   uint      `json:"operatorId,omitempty"`
	TechnicianID uint      `json:"technicianId,omitempty"`
	ActorID      uint      `json:"actorId,omitempty"`
	At           time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev LeadEvent) error
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, LeadEvent) error { return nil }

// Recorder keeps published events in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	events []LeadEvent
}

func (r *Recorder) Publish(_ context.Context, ev LeadEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []LeadEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LeadEvent, len(r.events))
	copy(out, r.events)
	return out
}
