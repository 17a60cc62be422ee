package taskinfo

import (
	"fmt"
	"sort"

	"github.com/felixgeelhaar/lunar/internal/log"
)

// Record is a resolved task as exposed on the command line.
type Record struct {
	Name  string `json:"name" yaml:"name"`
	Args  string `json:"args,omitempty" yaml:"args,omitempty"`
	About string `json:"about,omitempty" yaml:"about,omitempty"`
	// Path is the backing script. Empty means the task cannot be run.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// SubtaskArgs are passed to the script before the user's arguments.
	SubtaskArgs []string `json:"subtask_args,omitempty" yaml:"subtask_args,omitempty"`
}

// Runnable reports whether the task has a script to run.
func (r Record) Runnable() bool {
	return r.Path != ""
}

// Usage returns "name args", or just the name when no args are declared.
func (r Record) Usage() string {
	if r.Args == "" {
		return r.Name
	}
	return r.Name + " " + r.Args
}

// BuildRecords expands every task through the metadata tree of its script.
// A visible node becomes a record; every child is registered under its own
// name with the child name appended to the parent's subtask arguments. Names
// are visited in sorted order and later registrations replace earlier ones.
func BuildRecords(tasks map[string]string, logger *log.Logger) map[string]Record {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	records := make(map[string]Record, len(tasks))
	for _, name := range sortedKeys(tasks) {
		path := tasks[name]
		info, err := Extract(path)
		if err != nil {
			logger.WithError(err).Warn("Failed to read task script", "task", name, "path", path)
			info = Info{About: ptr(fmt.Sprintf("failed to read info: %v", err))}
		}
		addRecord(records, name, path, info, nil)
	}
	return records
}

func addRecord(records map[string]Record, name, path string, info Info, subtaskArgs []string) {
	if !info.Hide {
		records[name] = Record{
			Name:        name,
			Args:        deref(info.Args),
			About:       deref(info.About),
			Path:        path,
			SubtaskArgs: subtaskArgs,
		}
	}

	for _, sub := range sortedKeys(info.Tasks) {
		args := make([]string, 0, len(subtaskArgs)+1)
		args = append(args, subtaskArgs...)
		args = append(args, sub)
		addRecord(records, sub, path, info.Tasks[sub], args)
	}
}

// Sorted returns the records ordered by name.
func Sorted(records map[string]Record) []Record {
	out := make([]Record, 0, len(records))
	for _, name := range sortedKeys(records) {
		out = append(out, records[name])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
