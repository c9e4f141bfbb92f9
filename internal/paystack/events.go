package paystack

import (
	"encoding/json"
	"strconv"
)

type EventKind string

const (
	EventChargeSuccess EventKind = "charge.success"
	EventChargeFailed  EventKind = "charge.failed"
	EventOther         EventKind = "other"
)

// Event is the one place loosely-typed gateway payloads become a
// tagged value; nothing past this boundary inspects raw maps.
type Event struct {
	Kind          EventKind
	Reference     string
	TransactionID string
	Amount        int64
	PaidAt        string
}

type rawEvent struct {
	Event string `json:"event"`
	Data  struct {
		ID        int64  `json:"id"`
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

func ParseEvent(body []byte) (Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return Event{}, err
	}
	ev := Event{
		Kind:      EventOther,
		Reference: raw.Data.Reference,
		Amount:    raw.Data.Amount,
		PaidAt:    raw.Data.PaidAt,
	}
	switch raw.Event {
	case "charge.success":
		ev.Kind = EventChargeSuccess
		ev.TransactionID = strconv.FormatInt(raw.Data.ID, 10)
	case "charge.failed":
		ev.Kind = EventChargeFailed
	}
	return ev, nil
}

// EventFromVerification maps a synchronous verify result onto the same
// tagged shape the webhook path produces, so both entry points converge
// on one reconciliation routine. Statuses other than success/failed
// (abandoned, pending) map to EventOther and reconcile as a no-op.
func EventFromVerification(reference string, v *VerifyResult) Event {
	ev := Event{
		Kind:      EventOther,
		Reference: reference,
		Amount:    v.Amount,
		PaidAt:    v.PaidAt,
	}
	switch v.Status {
	case "success":
		ev.Kind = EventChargeSuccess
		ev.TransactionID = strconv.FormatInt(v.TransactionID, 10)
	case "failed":
		ev.Kind = EventChargeFailed
	}
	return ev
}
