package model

import "time"

type NotificationKind string

const (
	NotificationAccepted NotificationKind = "accepted"
	NotificationRejected NotificationKind = "rejected"
)

// ParticipantRef points at the (possibly former) roster entry a notification is about.
// The participant row may already be gone when a rejection is delivered, so the project
// and volunteer ids are carried alongside it.
type ParticipantRef struct {
	ParticipantID string `json:"participant_id"`
	ProjectID     string `json:"project_id"`
	VolunteerID   string `json:"volunteer_id"`
}

// SiteContext describes the site that links in notification emails point to
type SiteContext struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	Domain   string `json:"domain" yaml:"domain" validate:"required,hostname|hostname_port"`
	Protocol string `json:"protocol" yaml:"protocol" validate:"omitempty,oneof=http https"`
}

// URL returns the site root, defaulting to https
func (s SiteContext) URL() string {
	protocol := s.Protocol
	if protocol == "" {
		protocol = "https"
	}
	return protocol + "://" + s.Domain
}

// Notification is a queued accept/reject message for a volunteer
type Notification struct {
	ID          string           `json:"id"`
	Kind        NotificationKind `json:"kind"`
	Participant ParticipantRef   `json:"participant"`
	Site        SiteContext      `json:"site"`
	Attempt     int              `json:"attempt"`
	CreatedAt   time.Time        `json:"created_at"`
}
