package cli

import (
	"errors"

	"github.com/MakeNowJust/heredoc"
)

var (
	ErrConfigNotFound = errors.New(heredoc.Doc(`
	Config file not found. Loading from defaults...

	Run "kerbside config init" to initialize a new configuration file
	Alternatively, make a "kerbside.yaml" file in the current directory
`))
)
