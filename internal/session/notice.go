package session

import (
	"fmt"

	"github.com/josephgoksu/TaskFlow/internal/relay"
	"github.com/josephgoksu/TaskFlow/internal/task"
)

// Level is the severity of a Notice.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Notice is the transient message shown after a generation attempt.
type Notice struct {
	Level       Level
	Title       string
	Description string
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool {
	return n.Level == LevelError
}

var (
	noticeRateLimited = Notice{LevelError, "Rate Limit Exceeded", "Too many requests. Please try again in a moment."}
	noticeQuota       = Notice{LevelError, "Credits Exhausted", "Please add more AI credits to continue."}
	noticeFailed      = Notice{LevelError, "Error", "Failed to generate tasks. Please try again."}
	noticeNoTasks     = Notice{LevelError, "No Tasks Generated", "Please try rephrasing your goal."}
	noticeUnexpected  = Notice{LevelError, "Error", "An unexpected error occurred. Please try again."}
)

// NoticeFor maps a generation result to the message shown to the user.
func NoticeFor(tasks []task.Task, err error) Notice {
	if err != nil {
		switch relay.KindOf(err) {
		case relay.KindRateLimited:
			return noticeRateLimited
		case relay.KindQuotaExhausted:
			return noticeQuota
		default:
			return noticeFailed
		}
	}
	if len(tasks) == 0 {
		return noticeNoTasks
	}
	return Notice{
		Level:       LevelSuccess,
		Title:       "Success!",
		Description: fmt.Sprintf("Generated %d tasks for your goal.", len(tasks)),
	}
}
