package predictor

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"
)

// reportRow is one flattened line of a predictor report, shared by every
// export format.
type reportRow struct {
	Name           string
	Predictions    uint64
	Mispredictions uint64
	Rate           float64
}

func (r Report) rows() []reportRow {
	rows := make([]reportRow, 0, 2+2*len(Sizes))
	rows = append(rows, reportRow{"nt", r.NT.Predictions, r.NT.Mispredictions, r.NT.MispredictRate()})
	rows = append(rows, reportRow{"btfnt", r.BTFNT.Predictions, r.BTFNT.Mispredictions, r.BTFNT.MispredictRate()})
	for _, s := range r.Bimodal {
		rows = append(rows, reportRow{"bimodal-" + strconv.Itoa(s.Size), s.Stat.Predictions, s.Stat.Mispredictions, s.Stat.MispredictRate()})
	}
	for _, s := range r.Gshare {
		rows = append(rows, reportRow{"gshare-" + strconv.Itoa(s.Size), s.Stat.Predictions, s.Stat.Mispredictions, s.Stat.MispredictRate()})
	}
	return rows
}

// ExportJSON writes the report as indented JSON.
func (r Report) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.rows())
}

// ExportCSV writes the report as a "predictor,predictions,mispredictions,rate" table.
func (r Report) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"predictor", "predictions", "mispredictions", "rate"}); err != nil {
		return err
	}
	for _, row := range r.rows() {
		record := []string{
			row.Name,
			fmt.Sprintf("%d", row.Predictions),
			fmt.Sprintf("%d", row.Mispredictions),
			fmt.Sprintf("%.4f", row.Rate),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return nil
}

var htmlReportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"mul": func(a, b float64) float64 { return a * b },
}).Parse(`
<!DOCTYPE html>
<html>
<head>
    <title>Branch Predictor Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        table { border-collapse: collapse; margin: 10px 0; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #4CAF50; color: white; }
        tr:nth-child(even) { background-color: #f2f2f2; }
    </style>
</head>
<body>
    <h1>Branch Predictor Report</h1>
    <table>
        <tr><th>Predictor</th><th>Predictions</th><th>Mispredictions</th><th>Rate</th></tr>
        {{range .}}
        <tr><td>{{.Name}}</td><td>{{.Predictions}}</td><td>{{.Mispredictions}}</td><td>{{printf "%.2f%%" (mul .Rate 100)}}</td></tr>
        {{end}}
    </table>
</body>
</html>
`))

// ExportHTML writes the report as a styled HTML table, in the same spirit
// as the teacher's PerformanceStatistics.ExportHTML.
func (r Report) ExportHTML(w io.Writer) error {
	return htmlReportTemplate.Execute(w, r.rows())
}
