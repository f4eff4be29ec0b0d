package models

// Repair statuses, shared by orders and devices. A device status is
// independent of its order's status but feeds the order synchronization
// rule in repo.DeviceStore.
const (
	StatusPreluat     = "PRELUAT"      // received from the client
	StatusInLucru     = "IN_LUCRU"     // a technician is working on it
	StatusInAsteptare = "IN_ASTEPTARE" // waiting (usually for parts)
	StatusFinalizat   = "FINALIZAT"    // repair done, not yet picked up
	StatusPredat      = "PREDAT"       // handed back to the client, terminal
)

var knownStatuses = map[string]struct{}{
	StatusPreluat:     {},
	StatusInLucru:     {},
	StatusInAsteptare: {},
	StatusFinalizat:   {},
	StatusPredat:      {},
}

func ValidStatus(s string) bool {
	_, ok := knownStatuses[s]
	return ok
}

// DisplayStatus maps the stored status to the English label the dashboard
// frontend expects.
func DisplayStatus(status string) string {
	switch status {
	case StatusPredat:
		return "completed"
	case StatusInAsteptare:
		return "awaiting_parts"
	case "CANCELLED", "cancelled":
		return "cancelled"
	default:
		return "in_progress"
	}
}

// PredefinedAccessories is the fixed vocabulary offered in the intake form.
// Devices may carry free-text accessories alongside these.
var PredefinedAccessories = []string{
	"Încărcător",
	"Geantă",
	"Mouse",
	"Tastatură",
	"Dock Station",
	"Cabluri",
	"Husă",
	"Alimentator",
	"Căști",
	"HDD extern",
}
