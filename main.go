package main

import (
	"github.com/josephgoksu/TaskFlow/cmd"
	"github.com/josephgoksu/TaskFlow/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
