package ledger

// Kind groups rejection reasons by the class of failure they represent.
type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindConflict         Kind = "CONFLICT"
	KindCapacityExceeded Kind = "CAPACITY_EXCEEDED"
	KindCreditExhausted  Kind = "CREDIT_EXHAUSTED"
)

// Reason is the typed outcome of a rejected ledger request.
type Reason string

const (
	ReasonCourseNotFound     Reason = "COURSE_NOT_FOUND"
	ReasonAlreadyBooked      Reason = "ALREADY_BOOKED"
	ReasonInsufficientCredit Reason = "INSUFFICIENT_CREDIT"
	ReasonCourseFull         Reason = "COURSE_FULL"
	ReasonBookingNotFound    Reason = "BOOKING_NOT_FOUND"
	ReasonPackageNotFound    Reason = "PACKAGE_NOT_FOUND"
)

func (r Reason) Kind() Kind {
	switch r {
	case ReasonCourseNotFound, ReasonBookingNotFound, ReasonPackageNotFound:
		return KindNotFound
	case ReasonAlreadyBooked:
		return KindConflict
	case ReasonCourseFull:
		return KindCapacityExceeded
	case ReasonInsufficientCredit:
		return KindCreditExhausted
	default:
		return ""
	}
}

func (r Reason) Message() string {
	switch r {
	case ReasonCourseNotFound:
		return "course not found"
	case ReasonAlreadyBooked:
		return "course already booked"
	case ReasonInsufficientCredit:
		return "no remaining credits"
	case ReasonCourseFull:
		return "course has reached its maximum participants"
	case ReasonBookingNotFound:
		return "no active booking for this course"
	case ReasonPackageNotFound:
		return "credit package not found"
	default:
		return string(r)
	}
}
