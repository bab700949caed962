package core

// inventory.go decodes uploaded tab-separated inventory exports into Records.
//
// The exports come from an external inventory tool and arrive in whatever
// shape the operator's spreadsheet program produced: UTF-8 or Windows
// Cyrillic codepages, any line-ending convention, optional "#" comments, an
// optional "CID / Label" header row, and residual status rows. Parsing is
// deliberately total: malformed input degrades to fewer records, never to an
// error.

import (
	"bytes"
	"encoding/csv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// maxHeaderSearchRows bounds how deep we scan for a header row.
const maxHeaderSearchRows = 5

// reservedTokens are identifier values that mark export artifacts rather
// than circuits: status columns and stray header cells.
var reservedTokens = map[string]struct{}{
	"ENABLED":  {},
	"DISABLED": {},
	"CID":      {},
	"LABEL":    {},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeUpload converts raw upload bytes to a string using a three-tier
// fallback: valid UTF-8 is taken as-is, then cp1251 with a strict policy,
// then Latin-1 as a lossless last resort (every byte maps to a rune, so this
// tier cannot fail). A leading UTF-8 BOM is stripped first; Windows tools
// add one and it would otherwise defeat header detection on the first line.
func DecodeUpload(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data)
	}

	// cp1251 leaves a handful of codepoints unmapped; the decoder surfaces
	// those as replacement characters, which we treat as a strict failure.
	if out, err := charmap.Windows1251.NewDecoder().Bytes(data); err == nil {
		if !bytes.ContainsRune(out, utf8.RuneError) {
			return string(out)
		}
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// Unreachable for a single-byte charmap, but stay total.
		return string(data)
	}
	return string(out)
}

// ParseInventory extracts (CID, Label) records from the raw bytes of one
// uploaded table. Order follows input order; no deduplication happens here.
func ParseInventory(data []byte) []Record {
	if len(data) == 0 {
		return nil
	}

	text := DecodeUpload(data)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		s := strings.TrimSpace(ln)
		if s == "" {
			continue
		}
		if strings.HasPrefix(s, "#") {
			// A commented-out header is still a header.
			if strings.Contains(s, "CID") && strings.Contains(s, "Label") {
				lines = append(lines, strings.TrimSpace(strings.TrimLeft(s, "#")))
			}
			continue
		}
		lines = append(lines, s)
	}
	if len(lines) == 0 {
		return nil
	}

	rows := splitTabRows(lines)

	cidIdx, labelIdx, headerRow := findInventoryHeader(rows)
	dataRows := rows
	if headerRow >= 0 {
		dataRows = rows[headerRow+1:]
	}

	var records []Record
	for _, row := range dataRows {
		cid := cellAt(row, cidIdx)
		label := cellAt(row, labelIdx)
		if cid == "" {
			continue
		}
		if _, reserved := reservedTokens[strings.ToUpper(cid)]; reserved {
			continue
		}
		records = append(records, Record{CID: cid, Label: label})
	}
	return records
}

// CollectRecords parses every uploaded table and concatenates the results in
// upload order.
func CollectRecords(files [][]byte) []Record {
	var all []Record
	for _, data := range files {
		all = append(all, ParseInventory(data)...)
	}
	return all
}

// splitTabRows runs the pre-filtered lines through a quote-aware tab reader
// so literal tabs inside quoted fields do not split. The reader is lenient:
// ragged column counts and stray quotes are data, not errors.
func splitTabRows(lines []string) [][]string {
	r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		// Fall back to a plain split; inventory parsing never fails.
		rows = rows[:0]
		for _, ln := range lines {
			rows = append(rows, strings.Split(ln, "\t"))
		}
	}
	return rows
}

// findInventoryHeader scans at most the first maxHeaderSearchRows rows for
// one whose lower-cased cells contain both "cid" and "label". It returns the
// column index of each plus the header row index, or (0, 1, -1) when no
// header is present and columns 0/1 are assumed.
func findInventoryHeader(rows [][]string) (cidIdx, labelIdx, headerRow int) {
	maxRows := maxHeaderSearchRows
	if len(rows) < maxRows {
		maxRows = len(rows)
	}

	for i := 0; i < maxRows; i++ {
		cid, label := -1, -1
		for j, cell := range rows[i] {
			switch strings.ToLower(strings.TrimSpace(cell)) {
			case "cid":
				if cid < 0 {
					cid = j
				}
			case "label":
				if label < 0 {
					label = j
				}
			}
		}
		if cid >= 0 && label >= 0 {
			return cid, label, i
		}
	}
	return 0, 1, -1
}

// cellAt returns the trimmed cell at idx, degrading to "" for short rows.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
