package commands

import "io"

type (
	AppConfig = appConfig
)

// Config returns the configuration of the app.
func (a *App) Config() AppConfig {
	return a.config
}

// SetArgs sets the arguments for the command.
// No arguments means none rather than the test binary ones.
func (a *App) SetArgs(args ...string) {
	if args == nil {
		args = []string{}
	}
	a.cmd.SetArgs(args)
}

// SetOut sets the destination of the command output.
func (a *App) SetOut(w io.Writer) {
	a.cmd.SetOut(w)
}
