package core

import (
	"sort"
	"strings"
)

// Classify partitions records into the three notification categories.
//
// Rules run top to bottom per record, first match wins:
//
//  1. OC-900001* identifiers are internal backbone circuits and are
//     excluded from the notification entirely.
//  2. Identifiers containing "WLP-" or "WL-" are wavelength services; the
//     raw identifier is listed without its label.
//  3. 3POC* identifiers are third-party optical carriers, listed as
//     "CID (Label)" when a label exists.
//  4. OC* identifiers are optical carriers, same display rule.
//
// Anything else is silently dropped. Matching is case-insensitive; display
// keeps the original casing. Each category is deduplicated and sorted.
func Classify(records []Record) Classification {
	wlwlp := make(map[string]struct{})
	oc := make(map[string]struct{})
	poc3 := make(map[string]struct{})

	for _, rec := range records {
		up := strings.ToUpper(rec.CID)
		switch {
		case strings.HasPrefix(up, "OC-900001"):
			// excluded
		case strings.Contains(up, "WLP-") || strings.Contains(up, "WL-"):
			wlwlp[rec.CID] = struct{}{}
		case strings.HasPrefix(up, "3POC"):
			poc3[displayString(rec)] = struct{}{}
		case strings.HasPrefix(up, "OC"):
			oc[displayString(rec)] = struct{}{}
		}
	}

	return Classification{
		WLWLP: sortedKeys(wlwlp),
		OC:    sortedKeys(oc),
		POC3:  sortedKeys(poc3),
	}
}

func displayString(rec Record) string {
	if rec.Label != "" {
		return rec.CID + " (" + rec.Label + ")"
	}
	return rec.CID
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
