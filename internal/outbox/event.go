package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

const (
	// EventSlotsConfirmed is emitted when a confirmed batch of slots lands
	// in storage.
	EventSlotsConfirmed = "availability.slots.confirmed.v1"
	// EventMonthCleared is emitted when a vet wipes a month of slots.
	EventMonthCleared = "availability.slots.cleared.v1"
)
