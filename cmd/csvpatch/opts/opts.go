package opts

import (
	"github.com/walteh/csvpatch/cmd/csvpatch/ui"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	UserLogger *ui.UserLogger
}
