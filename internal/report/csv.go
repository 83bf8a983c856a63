package report

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/qaforge/reqtrace/internal/result"
)

// csvHeader is the fixed header row of the traceability export.
var csvHeader = []string{
	"Requirement ID",
	"Description",
	"Status",
	"Covered",
	"Passing",
	"Test Modules",
}

// moduleSeparator joins contributing module names inside one CSV cell.
const moduleSeparator = "; "

// CSV serializes a traceability matrix: the fixed header plus one row per
// catalog requirement, in catalog order.
//
// Every cell is double-quoted with embedded quotes doubled (RFC 4180), so
// descriptions containing commas, quotes, or newlines survive a round
// trip through any compliant parser. CSV generation cannot fail.
func CSV(m result.Matrix) []byte {
	var buf bytes.Buffer
	writeCSVRow(&buf, csvHeader)

	for _, rec := range m.Records {
		writeCSVRow(&buf, []string{
			rec.RequirementID,
			rec.Description,
			string(rec.Status),
			strconv.FormatBool(rec.Covered),
			strconv.FormatBool(rec.Passing),
			strings.Join(rec.Modules, moduleSeparator),
		})
	}

	return buf.Bytes()
}

func writeCSVRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}
