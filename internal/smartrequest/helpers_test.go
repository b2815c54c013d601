package smartrequest

import (
	"io"

	"github.com/rs/zerolog"
)

func discard() zerolog.Logger {
	return zerolog.New(io.Discard)
}
