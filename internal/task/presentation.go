package task

import (
	"fmt"
	"strconv"
	"strings"
)

// Summary aggregates the figures shown above a plan.
type Summary struct {
	Count       int
	TotalHours  float64
	MaxDeadline float64
	ByPriority  map[Priority]int
}

// Summarize computes the plan header figures. Absent hours and deadlines count as zero.
func Summarize(tasks []Task) Summary {
	s := Summary{
		Count:      len(tasks),
		ByPriority: make(map[Priority]int),
	}
	for _, t := range tasks {
		s.TotalHours += t.Hours()
		if d := t.Deadline(); d > s.MaxDeadline {
			s.MaxDeadline = d
		}
		s.ByPriority[t.Priority]++
	}
	return s
}

// FormatNumber prints whole numbers without a fractional part.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTask renders a task as plain text for non-interactive output.
func FormatTask(index int, t Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d. %s [%s]", index+1, t.Title, t.Priority)
	if t.Category != "" {
		fmt.Fprintf(&sb, " (%s)", t.Category)
	}
	sb.WriteString("\n")
	if t.Description != "" {
		fmt.Fprintf(&sb, "   %s\n", t.Description)
	}

	var meta []string
	if t.EstimatedHours != nil {
		meta = append(meta, FormatNumber(*t.EstimatedHours)+"h")
	}
	if t.DeadlineDays != nil {
		meta = append(meta, "day "+FormatNumber(*t.DeadlineDays))
	}
	if len(t.Dependencies) > 0 {
		meta = append(meta, "after: "+strings.Join(t.Dependencies, ", "))
	}
	if len(meta) > 0 {
		fmt.Fprintf(&sb, "   %s\n", strings.Join(meta, " · "))
	}
	return sb.String()
}

// FormatSummary renders the plan header line.
func FormatSummary(s Summary) string {
	parts := []string{fmt.Sprintf("%d tasks", s.Count)}
	if s.TotalHours > 0 {
		parts = append(parts, FormatNumber(s.TotalHours)+"h total")
	}
	if s.MaxDeadline > 0 {
		parts = append(parts, FormatNumber(s.MaxDeadline)+" days")
	}
	return strings.Join(parts, " · ")
}
