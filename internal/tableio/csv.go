package tableio

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"vaconvert/internal/model"
)

const utf8BOM = "\ufeff"

// ReadCSV 读取 CSV，允许行宽不一致（按表头补齐）
func ReadCSV(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty csv")
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return model.NewTable(header, records[1:]), nil
}

// WriteCSV 写出 CSV
func WriteCSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
