package ledger

// Occupancy is a course's active bookings against its configured maximum.
type Occupancy struct {
	Active          int `json:"active"`
	MaxParticipants int `json:"max_participants"`
}

func (o Occupancy) HasCapacity() bool {
	return o.Active < o.MaxParticipants
}
