package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/josephgoksu/TaskFlow/internal/relay"
	"github.com/spf13/viper"
)

var (
	// ErrEmptyGoal is returned when the goal argument is blank.
	ErrEmptyGoal = errors.New("goal must not be empty")
	// ErrNoTasks is returned when the model produced an empty task list.
	ErrNoTasks = errors.New("no tasks generated; try rephrasing your goal")
)

// PrintError prints err for the user. Relay errors print their public
// message unless --verbose is set, in which case the full chain is shown.
func PrintError(err error) {
	var re *relay.Error
	if errors.As(err, &re) && !viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Error: %s\n", re.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
