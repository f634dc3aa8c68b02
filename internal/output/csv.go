package output

import (
	"bytes"
	"strings"
)

const bom = "\ufeff"

// EncodeCSV renders header and rows as a delimited file for spreadsheet
// tools: UTF-8 byte-order mark, every field quoted with doubled inner
// quotes, CRLF after every row.
func EncodeCSV(header []string, rows [][]string, delimiter rune) []byte {
	var buf bytes.Buffer
	buf.WriteString(bom)
	writeRecord(&buf, header, delimiter)
	for _, r := range rows {
		writeRecord(&buf, r, delimiter)
	}
	return buf.Bytes()
}

func writeRecord(buf *bytes.Buffer, fields []string, delimiter rune) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteRune(delimiter)
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")
}
