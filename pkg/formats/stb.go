// STB (data table) format codec.
package formats

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Faultbox/junon-rose/pkg/rw"
)

// STB format errors.
var (
	ErrInvalidSTBIdentifier = errors.New("invalid STB identifier")
	ErrSTBRowWidth          = errors.New("STB row cell count does not match header count")
)

// STB identifier tags. STB0 is a legacy sub-version that stores one shared
// column width instead of per-column widths.
const (
	STBIdentifierLegacy  = "STB0"
	STBIdentifierCurrent = "STB1"
)

// DataTableColumn is a column header: display name and pixel width.
type DataTableColumn struct {
	Name  string
	Width uint16
}

// DataTable is a row/column table of string cells (an STB file).
//
// Data rows always carry exactly len(Headers) cells; cell 0 is the row's own
// name and lives in a different file region than the remaining cells, which
// are written after a forward-patched offset (see Write).
type DataTable struct {
	Identifier string

	HeaderRowHeight uint16
	HeaderRowName   string

	Headers   []DataTableColumn
	Data      [][]string
	RowHeight uint16
}

// NewDataTable returns an empty table with current-version defaults.
func NewDataTable() *DataTable {
	return &DataTable{
		Identifier:      STBIdentifierCurrent,
		HeaderRowHeight: 100,
		RowHeight:       40,
	}
}

// Rows returns the number of data rows.
func (t *DataTable) Rows() int {
	return len(t.Data)
}

// Cols returns the number of cells per data row, including the row name.
func (t *DataTable) Cols() int {
	if len(t.Data) > 0 {
		return len(t.Data[0])
	}
	return 0
}

// Column returns the header for column idx, or nil if out of range.
func (t *DataTable) Column(idx int) *DataTableColumn {
	if idx >= 0 && idx < len(t.Headers) {
		return &t.Headers[idx]
	}
	return nil
}

// Value returns the cell at (row, col) and whether it exists.
func (t *DataTable) Value(row, col int) (string, bool) {
	if row >= 0 && row < t.Rows() && col >= 0 && col < t.Cols() {
		return t.Data[row][col], true
	}
	return "", false
}

// Get returns the cell at (row, col), or "" if out of range.
func (t *DataTable) Get(row, col int) string {
	v, _ := t.Value(row, col)
	return v
}

// GetInt returns the cell at (row, col) parsed as an integer, or 0.
func (t *DataTable) GetInt(row, col int) int {
	n, err := strconv.Atoi(t.Get(row, col))
	if err != nil {
		return 0
	}
	return n
}

// Read decodes a table. The header region holds the identifier, the bulk
// cell offset, off-by-one row/column counts, column widths, header names and
// every row-name cell; the remaining cells are read after seeking to the
// stored offset.
func (t *DataTable) Read(r *rw.Reader) error {
	identifier, err := r.ReadFixedString(4)
	if err != nil {
		return err
	}
	if identifier != STBIdentifierLegacy && identifier != STBIdentifierCurrent {
		return fmt.Errorf("%w: %q", ErrInvalidSTBIdentifier, identifier)
	}
	t.Identifier = identifier

	offset, err := r.ReadUint32()
	if err != nil {
		return err
	}
	rowCount, err := r.ReadUint32()
	if err != nil {
		return err
	}
	colCount, err := r.ReadUint32()
	if err != nil {
		return err
	}
	// Counts include the header row and the row-name column.
	if rowCount > 0 {
		rowCount--
	}
	if colCount > 0 {
		colCount--
	}
	rowHeight, err := r.ReadUint32()
	if err != nil {
		return err
	}
	t.RowHeight = uint16(rowHeight)

	columnWidths := make([]uint16, colCount)
	var headerColumnWidth uint16
	if t.Identifier == STBIdentifierLegacy {
		t.HeaderRowHeight = 100
		width, err := r.ReadUint32()
		if err != nil {
			return err
		}
		headerColumnWidth = uint16(width)
		for i := range columnWidths {
			columnWidths[i] = headerColumnWidth
		}
	} else {
		if t.HeaderRowHeight, err = r.ReadUint16(); err != nil {
			return err
		}
		if headerColumnWidth, err = r.ReadUint16(); err != nil {
			return err
		}
		for i := range columnWidths {
			if columnWidths[i], err = r.ReadUint16(); err != nil {
				return err
			}
		}
	}

	headerColumnName, err := r.ReadStringU16()
	if err != nil {
		return err
	}
	t.Headers = make([]DataTableColumn, 0, colCount+1)
	t.Headers = append(t.Headers, DataTableColumn{Name: headerColumnName, Width: headerColumnWidth})
	for i := uint32(0); i < colCount; i++ {
		name, err := r.ReadStringU16()
		if err != nil {
			return err
		}
		t.Headers = append(t.Headers, DataTableColumn{Name: name, Width: columnWidths[i]})
	}

	if t.HeaderRowName, err = r.ReadStringU16(); err != nil {
		return err
	}

	t.Data = make([][]string, 0, rowCount)
	for i := uint32(0); i < rowCount; i++ {
		rowName, err := r.ReadStringU16()
		if err != nil {
			return err
		}
		row := make([]string, 1, colCount+1)
		row[0] = rowName
		t.Data = append(t.Data, row)
	}

	if err := r.Seek(int64(offset)); err != nil {
		return err
	}
	for i := uint32(0); i < rowCount; i++ {
		for j := uint32(0); j < colCount; j++ {
			cell, err := r.ReadStringU16()
			if err != nil {
				return err
			}
			t.Data[i] = append(t.Data[i], cell)
		}
	}

	return nil
}

// Write encodes the table. The bulk cell offset is unknown until the header
// region and all row names are serialized, so a placeholder is written first
// and patched once the real position is known.
func (t *DataTable) Write(w *rw.Writer) error {
	for i, row := range t.Data {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("%w: row %d has %d cells, want %d",
				ErrSTBRowWidth, i, len(row), len(t.Headers))
		}
	}

	w.WriteFixedString(t.Identifier, 4)

	offsetPos := w.Position()
	w.WriteUint32(0)

	w.WriteUint32(uint32(len(t.Data) + 1))
	w.WriteUint32(uint32(len(t.Headers)))
	w.WriteUint32(uint32(t.RowHeight))

	if t.Identifier == STBIdentifierLegacy {
		var width uint16
		if len(t.Headers) > 0 {
			width = t.Headers[0].Width
		}
		w.WriteUint32(uint32(width))
	} else {
		w.WriteUint16(t.HeaderRowHeight)
		for _, header := range t.Headers {
			w.WriteUint16(header.Width)
		}
	}

	for _, header := range t.Headers {
		w.WriteStringU16(header.Name)
	}

	w.WriteStringU16(t.HeaderRowName)

	for _, row := range t.Data {
		w.WriteStringU16(row[0])
	}

	offset := w.Position()
	for _, row := range t.Data {
		for _, cell := range row[1:] {
			w.WriteStringU16(cell)
		}
	}
	end := w.Position()

	w.Seek(offsetPos)
	w.WriteUint32(uint32(offset))
	w.Seek(end)

	return nil
}
