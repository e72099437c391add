package reporting

import (
	"fmt"
	"io"

	"accountdesk/pkg/domain"
)

// FormatClientLine renders a summary the way the branch console prints it.
func FormatClientLine(c ClientSummary) string {
	line := fmt.Sprintf("%s - CPF: %s - Estado: %s - Renda: R$ %s",
		c.Name, c.TaxID, c.Region, domain.FormatIncome(c.Income))
	if c.ManagerName != "" {
		line += " - Gerente: " + c.ManagerName
	}
	return line
}

// RenderManagerReport writes one line per client, or the not-found message.
func RenderManagerReport(w io.Writer, report *ManagerReport) error {
	if !report.Found {
		_, err := fmt.Fprintln(w, report.Message)
		return err
	}
	for _, c := range report.Clients {
		if _, err := fmt.Fprintln(w, FormatClientLine(c)); err != nil {
			return err
		}
	}
	if report.Missing > 0 {
		if _, err := fmt.Fprintf(w, "(%d roster entries without a client record)\n", report.Missing); err != nil {
			return err
		}
	}
	return nil
}

// RenderSegmentReport writes a "Segmento:" header per group followed by its clients.
func RenderSegmentReport(w io.Writer, groups []SegmentGroup) error {
	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "Segmento: %s\n", g.Segment); err != nil {
			return err
		}
		for _, c := range g.Clients {
			if _, err := fmt.Fprintln(w, FormatClientLine(c)); err != nil {
				return err
			}
		}
	}
	return nil
}
