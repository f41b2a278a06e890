package model

import "fmt"

// Status is the shared lifecycle state for orders and candidatures.
// Entities start PENDING and transition at most once to a terminal state.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// ParseStatus decodes a stored status string. Unknown values are an error,
// never a silent default.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusAccepted, StatusRejected:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Terminal reports whether no further transition may fire.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// DeliveryStatus keeps the state names of the store's delivery workflow.
// EM_ANALISE is accepted when decoding stored records but no transition in
// this system ever produces it.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDENTE"
	DeliveryDelivered DeliveryStatus = "ENTREGUE"
	DeliveryCancelled DeliveryStatus = "CANCELADO"
	DeliveryInReview  DeliveryStatus = "EM_ANALISE"
)

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	switch DeliveryStatus(s) {
	case DeliveryPending, DeliveryDelivered, DeliveryCancelled, DeliveryInReview:
		return DeliveryStatus(s), nil
	}
	return "", fmt.Errorf("unknown delivery status %q", s)
}

// Fireable reports whether a transition may still be applied. Only PENDENTE
// deliveries accept transitions; everything else is rejected as finalized.
func (s DeliveryStatus) Fireable() bool {
	return s == DeliveryPending
}
