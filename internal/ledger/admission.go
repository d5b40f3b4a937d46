package ledger

// Decision is the result of evaluating a request against the ledger.
// A zero Reason means the request is admitted.
type Decision struct {
	Reason Reason
}

func Admit() Decision {
	return Decision{}
}

func Reject(r Reason) Decision {
	return Decision{Reason: r}
}

func (d Decision) Admitted() bool {
	return d.Reason == ""
}

// BookingSnapshot is the ledger state observed for one (user, course) pair
// while both keys are held.
type BookingSnapshot struct {
	CourseExists     bool
	HasActiveBooking bool
	Balance          Balance
	Occupancy        Occupancy
}

// DecideBooking reports the first failing check in order:
// course existence, duplicate booking, credit balance, course capacity.
func DecideBooking(s BookingSnapshot) Decision {
	switch {
	case !s.CourseExists:
		return Reject(ReasonCourseNotFound)
	case s.HasActiveBooking:
		return Reject(ReasonAlreadyBooked)
	case !s.Balance.CanSpend():
		return Reject(ReasonInsufficientCredit)
	case !s.Occupancy.HasCapacity():
		return Reject(ReasonCourseFull)
	default:
		return Admit()
	}
}

func DecideCancellation(hasActiveBooking bool) Decision {
	if !hasActiveBooking {
		return Reject(ReasonBookingNotFound)
	}
	return Admit()
}

func DecidePurchase(packageExists bool) Decision {
	if !packageExists {
		return Reject(ReasonPackageNotFound)
	}
	return Admit()
}
