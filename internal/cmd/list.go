package cmd

import (
	"io"

	"github.com/felixgeelhaar/lunar/internal/taskinfo"
	"github.com/felixgeelhaar/lunar/internal/tui"
	"github.com/felixgeelhaar/lunar/internal/ux"
)

func listTasks(records map[string]taskinfo.Record, format ux.Format, w io.Writer) error {
	sorted := taskinfo.Sorted(records)
	if format == ux.FormatText {
		return ux.Write(w, format, tui.TaskList{Records: sorted})
	}
	return ux.Write(w, format, sorted)
}
