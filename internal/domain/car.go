package domain

// Car links a license plate to its current owner ids.
// Owners receive entrance/exit/warning notifications for the plate.
type Car struct {
	LicenseNumber string
	Owners        []string
}
