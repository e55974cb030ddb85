package main

import (
	"fmt"
	"os"

	"github.com/lpenlpen/atlas/app"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	settings, err := app.LoadSettings(app.GetSettingsPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if settings.LogFile != "" {
		commonlog.Configure(settings.LogVerbosity, &settings.LogFile)
	} else {
		commonlog.Configure(settings.LogVerbosity, nil)
	}

	if len(os.Args) > 1 {
		if app.IsHeadlessCommand(os.Args[1]) {
			os.Exit(app.HeadlessRun(os.Args[1:], settings))
		}
		// A lone argument is the project directory to open.
		settings.ProjectDir = os.Args[1]
	}

	if err := app.Main(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
