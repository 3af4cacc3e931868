package table

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// acceptedExtensions are the OOXML spreadsheet containers the loader can
// open. Legacy binary .xls is rejected up front with a conversion hint
// rather than letting excelize fail with an opaque zip error.
var acceptedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

// LoadFile reads the first worksheet of a spreadsheet file into a Table.
func LoadFile(path string) (*Table, error) {
	if err := checkExtension(path); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &ParseError{Path: path, Reason: "file not found — check that the path is correct"}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "is this a valid .xlsx file?", Err: err}
	}
	defer f.Close()

	t, err := readFirstSheet(f)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return t, nil
}

// LoadBytes reads the first worksheet of an uploaded spreadsheet held in
// memory. name is only used for the extension check and error messages.
func LoadBytes(name string, data []byte) (*Table, error) {
	if err := checkExtension(name); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Path: name, Reason: "is this a valid .xlsx file?", Err: err}
	}
	defer f.Close()

	t, err := readFirstSheet(f)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = name
		}
		return nil, err
	}
	return t, nil
}

func checkExtension(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".xls" {
		return &ParseError{Path: name, Reason: "legacy .xls is not supported — save the workbook as .xlsx first"}
	}
	if !acceptedExtensions[ext] {
		return &ParseError{Path: name, Reason: fmt.Sprintf("unsupported file type %q — expected .xlsx or .xlsm", ext)}
	}
	return nil
}

func readFirstSheet(f *excelize.File) (*Table, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Reason: "workbook has no worksheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("could not read sheet %q", sheets[0]), Err: err}
	}

	return FromRows(rows)
}
