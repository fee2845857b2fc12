package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

// readYAML decodes a YAML input file into v, rejecting unknown keys
func readYAML(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// FormatError renders a workflow error with one line per invalid field
func FormatError(err error) string {
	e, ok := errs.As(err)
	if !ok {
		return err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)

	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		for _, msg := range e.Fields[field] {
			fmt.Fprintf(&b, "\n  %s: %s", field, msg)
		}
	}
	return b.String()
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

func printProject(w io.Writer, p *model.Project, loc *time.Location) {
	fmt.Fprintf(w, "Project ID:   %s\n", p.ID)
	fmt.Fprintf(w, "Name:         %s\n", p.Name)
	fmt.Fprintf(w, "Status:       %s\n", p.StatusApprove)
	fmt.Fprintf(w, "Applications: %s - %s\n", formatTime(p.StartDateApplication, loc), formatTime(p.EndDateApplication, loc))
	fmt.Fprintf(w, "Event:        %s - %s\n", formatTime(p.StartDatetime, loc), formatTime(p.EndDatetime, loc))
	if p.AdminComments != "" {
		fmt.Fprintf(w, "Comments:     %s\n", p.AdminComments)
	}
}
