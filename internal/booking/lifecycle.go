package booking

// Transition returns the status a booking moves to when its item owner decides on it.
// Approval requires WAITING. Rejection is accepted from any status and always yields REJECTED.
func Transition(current Status, approve bool) (Status, error) {
	if !approve {
		return StatusRejected, nil
	}
	if current != StatusWaiting {
		return current, ErrInvalidStatusTransition
	}
	return StatusApproved, nil
}
