package core

// compose.go assembles the notification subject and body. Pure formatting:
// no I/O, no clock, fully deterministic for a given request.

import "strings"

// Placeholder text for fields the operator has not filled in yet.
const (
	placeholderDowntime = "[specify]"
	placeholderPurpose  = "[Enter purpose here]"
	noneDetected        = "(none detected)"
	noInterruption      = "No service interruption is anticipated."
)

// zeroAliases are override values meaning "no downtime", compared after
// trimming and lower-casing.
var zeroAliases = map[string]struct{}{
	"0":         {},
	"0m":        {},
	"0min":      {},
	"0 minutes": {},
	"0mins":     {},
	"0h":        {},
	"0 hr":      {},
	"0 hrs":     {},
}

func isZeroDowntime(s string) bool {
	_, ok := zeroAliases[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// BuildEmail runs the full pipeline for one request and returns the composed
// notification. It is total: any combination of missing or malformed fields
// produces placeholder text, never an error.
func BuildEmail(req EmailRequest) Email {
	cls := Classify(CollectRecords(req.Files))

	startUTC, haveStart := ParseToUTC(req.StartDate, req.StartTime, req.UTCOffset)
	endUTC, haveEnd := ParseToUTC(req.EndDate, req.EndTime, req.UTCOffset)
	endUTC, haveEnd = NormalizeWindow(startUTC, endUTC, haveStart, haveEnd)

	calcMins := -1
	if haveStart && haveEnd {
		calcMins = WindowMinutes(startUTC, endUTC)
	}

	// Downtime resolution: zero-alias override, verbatim override, computed
	// duration, placeholder — in that order.
	override := strings.TrimSpace(req.OverrideDowntime)
	var downtime string
	switch {
	case isZeroDowntime(override):
		downtime = "0"
	case override != "":
		downtime = override
	case calcMins >= 0:
		downtime = HumanizeMinutes(calcMins)
	default:
		downtime = placeholderDowntime
	}

	startDate := fmtDateUTC(startUTC, haveStart)
	endDate := fmtDateUTC(endUTC, haveEnd)
	startTime := fmtTimeUTC(startUTC, haveStart)
	endTime := fmtTimeUTC(endUTC, haveEnd)

	subject := composeSubject(req.JiraRef, req.PoP, req.Equipment,
		subjectWindow(startDate, endDate, startTime, endTime))

	impact := "Downtime: " + downtime
	if downtime == "0" || isZeroDowntime(downtime) {
		impact = noInterruption
	}

	body := composeBody(bodyParams{
		Location:  locationLine(req.PoP, req.Equipment, req.Line),
		StartDate: startDate,
		StartTime: startTime,
		EndDate:   endDate,
		EndTime:   endTime,
		Purpose:   purposeBlock(req.PurposePresets, req.PurposeFree),
		Impacted:  impactedBlock(cls),
		Impact:    impact,
	})

	calculated := ""
	if calcMins >= 0 {
		calculated = HumanizeMinutes(calcMins)
	}

	return Email{Subject: subject, Body: body, CalculatedDowntime: calculated}
}

// subjectWindow joins the date range, time range, and the "UTC+0" literal
// with ", ", skipping empty segments. Each range omits a missing side and
// its dash.
func subjectWindow(startDate, endDate, startTime, endTime string) string {
	segments := []string{
		joinRange(startDate, endDate),
		joinRange(startTime, endTime),
		"UTC+0",
	}
	var kept []string
	for _, seg := range segments {
		if seg != "" {
			kept = append(kept, seg)
		}
	}
	return strings.Trim(strings.Join(kept, ", "), ", ")
}

func joinRange(a, b string) string {
	switch {
	case a != "" && b != "":
		return a + " - " + b
	case a != "":
		return a
	default:
		return b
	}
}

func composeSubject(jiraRef, pop, equipment, window string) string {
	s := "Planned Network Maintenance – [" + strings.TrimSpace(jiraRef) + "] [" +
		strings.TrimSpace(pop) + " / " + strings.TrimSpace(equipment) + "] – [" + window + "]"
	return strings.TrimSpace(s)
}

// purposeBlock joins the non-empty preset purposes and the free-text purpose
// with "; ", or renders the placeholder when nothing was supplied.
func purposeBlock(presets []string, free string) string {
	var purposes []string
	for _, p := range presets {
		if p = strings.TrimSpace(p); p != "" {
			purposes = append(purposes, p)
		}
	}
	if free = strings.TrimSpace(free); free != "" {
		purposes = append(purposes, free)
	}
	if len(purposes) == 0 {
		return placeholderPurpose
	}
	return strings.Join(purposes, "; ")
}

// impactedBlock renders the classified services as labeled sections in fixed
// order, entries indented two spaces, sections blank-line separated.
func impactedBlock(cls Classification) string {
	var blocks []string
	for _, sec := range []struct {
		label   string
		entries []string
	}{
		{"WL / WLP:", cls.WLWLP},
		{"OC:", cls.OC},
		{"3POC:", cls.POC3},
	} {
		if len(sec.entries) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString(sec.label)
		for _, e := range sec.entries {
			b.WriteString("\n  ")
			b.WriteString(e)
		}
		blocks = append(blocks, b.String())
	}
	if len(blocks) == 0 {
		return noneDetected
	}
	return strings.Join(blocks, "\n\n")
}

// locationLine renders "pop / equipment", appending " / line" only when a
// line identifier was supplied.
func locationLine(pop, equipment, line string) string {
	s := strings.TrimSpace(pop) + " / " + strings.TrimSpace(equipment)
	if line = strings.TrimSpace(line); line != "" {
		s += " / " + line
	}
	return s
}

type bodyParams struct {
	Location  string
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
	Purpose   string
	Impacted  string
	Impact    string
}

func composeBody(p bodyParams) string {
	var b strings.Builder
	b.WriteString("Dear Team,\n\n")
	b.WriteString("As part of our ongoing efforts to improve the reliability and performance of our network, we will be carrying out planned maintenance as outlined below:\n\n")
	b.WriteString("PoP/Devices/LINE:\n")
	b.WriteString(p.Location)
	b.WriteString("\n\n")
	b.WriteString("Maintenance Window (UTC+0):\n")
	b.WriteString("Start: " + p.StartDate + " " + p.StartTime + "\n")
	b.WriteString("End:   " + p.EndDate + " " + p.EndTime + "\n\n")
	b.WriteString("Purpose of Maintenance:\n")
	b.WriteString(p.Purpose)
	b.WriteString("\n\n")
	b.WriteString("Affected Customers/Services:\n")
	b.WriteString(p.Impacted)
	b.WriteString("\n\n")
	b.WriteString("Expected Impact:\n")
	b.WriteString(p.Impact)
	b.WriteString("\n")
	return b.String()
}
