package probe

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tbckr/statuspane/internal/output"
)

// Result is the outcome of probing one URL.
type Result struct {
	URL     string `json:"url"`
	OK      bool   `json:"ok"`
	Status  int    `json:"status,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MultiResult aggregates probe results in input order.
type MultiResult struct {
	Results []*Result `json:"results"`
}

// Failed counts results that are not OK.
func (m *MultiResult) Failed() int {
	n := 0
	for _, r := range m.Results {
		if !r.OK {
			n++
		}
	}
	return n
}

func (r *Result) statusCell() string {
	if r.Status == 0 {
		return "-"
	}
	return strconv.Itoa(r.Status)
}

func (r *Result) detail() string {
	if r.Error != "" {
		return output.Cell(r.Error)
	}
	return output.Cell(r.Message)
}

// WriteText renders the results as a table.
func (m *MultiResult) WriteText(w io.Writer) error {
	rows := make([][]string, 0, len(m.Results))
	for _, r := range m.Results {
		rows = append(rows, []string{output.Cell(r.URL), strconv.FormatBool(r.OK), r.statusCell(), output.Cell(r.Code), r.detail()})
	}
	return output.WriteTable(w, []string{"URL", "OK", "Status", "Code", "Message"}, rows)
}

// WritePlain renders one tab-separated line per result.
func (m *MultiResult) WritePlain(w io.Writer) error {
	for _, r := range m.Results {
		if _, err := fmt.Fprintf(w, "%s\t%t\t%s\t%s\t%s\n",
			output.Cell(r.URL), r.OK, r.statusCell(), output.Cell(r.Code), r.detail()); err != nil {
			return err
		}
	}
	return nil
}
