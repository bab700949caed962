// Package core implements the maintenance-notification pipeline: parsing
// uploaded circuit inventories, classifying circuit identifiers, normalizing
// the maintenance window to UTC, and composing the final email text.
// This package has no HTTP dependencies and can be driven by any frontend.
package core

// Record is one (identifier, label) pair extracted from an inventory row.
// The identifier is never empty; the label may be.
type Record struct {
	CID   string
	Label string
}

// Classification holds the circuit identifiers grouped by naming pattern,
// deduplicated and sorted, ready for rendering.
type Classification struct {
	WLWLP []string // WL-/WLP- wavelength circuits, raw identifiers
	OC    []string // OC-prefixed optical carriers, "CID (Label)" form
	POC3  []string // 3POC third-party optical carriers, "CID (Label)" form
}

// Empty reports whether no category matched any record.
func (c Classification) Empty() bool {
	return len(c.WLWLP) == 0 && len(c.OC) == 0 && len(c.POC3) == 0
}

// EmailRequest carries everything the composer needs for one notification.
// All string fields arrive raw from the form; trimming happens inside the
// pipeline so callers do not need to sanitize.
type EmailRequest struct {
	JiraRef   string
	PoP       string
	Equipment string
	Line      string

	StartDate string // d/m/y, 2- or 4-digit year
	StartTime string // HH:MM, 24-hour
	EndDate   string
	EndTime   string
	UTCOffset string // "+3", "-4.5", "+05:30", "UTC+2", ...

	OverrideDowntime string
	PurposePresets   []string
	PurposeFree      string

	// Files holds the raw bytes of each uploaded inventory table,
	// in upload order.
	Files [][]byte
}

// Email is the composed notification. CalculatedDowntime always reflects the
// duration computed from the time window ("" when the window is incomplete),
// independent of any override used in the body.
type Email struct {
	Subject            string
	Body               string
	CalculatedDowntime string
}
