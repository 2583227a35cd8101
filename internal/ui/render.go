package ui

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskFlow/internal/session"
	"github.com/josephgoksu/TaskFlow/internal/task"
)

// RenderTask draws one task card.
func RenderTask(index int, t task.Task, width int) string {
	var sb strings.Builder

	title := StyleBold.Render(fmt.Sprintf("%d. %s", index+1, t.Title))
	badge := PriorityStyle(t.Priority).Render(PriorityLabel(t.Priority))
	sb.WriteString(title + "  " + badge)
	if t.Category != "" {
		sb.WriteString("  " + StyleCyan.Render(t.Category))
	}
	sb.WriteString("\n")

	if t.Description != "" {
		sb.WriteString(StyleText.Render(WrapText(t.Description, width-4)))
		sb.WriteString("\n")
	}

	var meta []string
	if t.EstimatedHours != nil {
		meta = append(meta, "⏱ "+task.FormatNumber(*t.EstimatedHours)+"h")
	}
	if t.DeadlineDays != nil {
		meta = append(meta, "📅 day "+task.FormatNumber(*t.DeadlineDays))
	}
	if len(t.Dependencies) > 0 {
		meta = append(meta, "↳ after "+strings.Join(t.Dependencies, ", "))
	}
	if len(meta) > 0 {
		sb.WriteString(StyleSubtle.Render(strings.Join(meta, "   ")))
	}

	return StyleTaskCard.Render(strings.TrimRight(sb.String(), "\n"))
}

// RenderPlan draws the result header followed by every task.
func RenderPlan(s session.Session, width int) string {
	var sb strings.Builder
	sb.WriteString(StyleSectionTitle.Render("Plan: " + s.Goal))
	sb.WriteString("\n")
	summary := s.Summary()
	sb.WriteString(StyleSubtle.Render(task.FormatSummary(summary)))
	for _, p := range []task.Priority{task.PriorityHigh, task.PriorityMedium, task.PriorityLow} {
		if n := summary.ByPriority[p]; n > 0 {
			sb.WriteString("  " + PriorityStyle(p).Render(fmt.Sprintf("%d %s", n, PriorityLabel(p))))
		}
	}
	sb.WriteString("\n\n")
	for i, t := range s.Tasks {
		sb.WriteString(RenderTask(i, t, width))
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderNotice draws a success or error notice no wider than width.
func RenderNotice(n session.Notice, width int) string {
	if n.Title == "" {
		return ""
	}
	if n.IsError() {
		return noticeBox("✗ "+n.Title, n.Description, ColorError, width)
	}
	return noticeBox("✓ "+n.Title, n.Description, ColorSuccess, width)
}
