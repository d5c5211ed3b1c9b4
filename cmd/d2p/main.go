package main

import (
	"fmt"

	"github.com/dir2prompt/dir2prompt/internal/cli"
	"github.com/dir2prompt/dir2prompt/internal/utils"
)

// main is the entry point for the d2p command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
