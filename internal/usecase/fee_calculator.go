package usecase

import "time"

// ComputeFee charges ratePerDay for every local calendar day the vehicle
// touches. The entry instant is anchored to midnight of the next calendar day,
// the exit instant (or now, while the vehicle is still inside) to 23:59:59.999
// of its own day; one ratePerDay covers the first day and one more is added
// per boundary crossed. Day arithmetic is done in the facility's local zone,
// which is a business rule, not a convenience.
func ComputeFee(timeIn time.Time, timeOut *time.Time, ratePerDay float64, loc *time.Location) float64 {
	in := timeIn.In(loc)
	boundary := time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	outRef := time.Now()
	if timeOut != nil {
		outRef = *timeOut
	}
	out := outRef.In(loc)
	end := time.Date(out.Year(), out.Month(), out.Day(), 23, 59, 59, int(999*time.Millisecond), loc)

	fee := ratePerDay
	for boundary.Before(end) {
		fee += ratePerDay
		boundary = boundary.AddDate(0, 0, 1)
	}
	if fee == 0 {
		fee = ratePerDay
	}
	return fee
}

// IsValidTimestamps checks the entry-before-exit precondition. A nil exit is
// compared against the current time.
func IsValidTimestamps(timeIn time.Time, timeOut *time.Time) bool {
	out := time.Now()
	if timeOut != nil {
		out = *timeOut
	}
	return timeIn.Before(out)
}
