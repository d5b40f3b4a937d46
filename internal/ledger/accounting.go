package ledger

// Balance is a user's credit position derived from the ledger.
type Balance struct {
	Purchased int `json:"purchased"`
	Consumed  int `json:"consumed"`
}

// Remaining is purchased credits minus active bookings across every course.
// A negative value only appears if the ledger was already corrupted.
func (b Balance) Remaining() int {
	return b.Purchased - b.Consumed
}

func (b Balance) CanSpend() bool {
	return b.Remaining() >= 1
}
