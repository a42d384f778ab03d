package task

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/rodaine/table"

	"github.com/seventv/RainbowProcessor/src/job"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	headerFmt = color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt = color.New(color.FgYellow).SprintfFunc()
)

// PrintSummary writes one row per path followed by the totals.
func PrintSummary(w io.Writer, summary job.Summary) {
	tbl := table.New("Path", "Output", "Frames", "Status", "Took")
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt).WithWriter(w)

	for _, r := range summary.Results {
		status := "ok"
		if !r.Success() {
			status = r.Error
		}
		tbl.AddRow(r.Path, r.Output, r.Frames, status, r.Took.Round(time.Millisecond))
	}

	tbl.Print()

	fmt.Fprintf(w, "%d converted, %d failed in %s\n", summary.Succeeded(), summary.Failed(), summary.Took.Round(time.Millisecond))
}

// WriteReport stores the summary as JSON at path.
func WriteReport(path string, summary job.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
