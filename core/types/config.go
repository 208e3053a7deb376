package types

import "github.com/fluxora/streams-go/core/util"

// Config is the engine's process-wide configuration: the streamed asset and
// the administrator identity. It is written exactly once by Init and is
// immutable afterwards.
type Config struct {
	Asset util.Address
	Admin util.Address
}
