package datachannel

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-dcbridge/pkg/types"
)

// errServiceShutdown 服务已拆除
var errServiceShutdown = errors.New("data channel service shut down")

// creationError 包装为 ChannelCreationError
func creationError(label string, err error) error {
	return fmt.Errorf("%w: label %q: %v", types.ErrChannelCreation, label, err)
}

// notFoundError 包装为 ChannelNotFoundError
func notFoundError(id types.ChannelID) error {
	return fmt.Errorf("%w: id %d", types.ErrChannelNotFound, id)
}

// sendRejectedError 包装为 SendRejectedError
func sendRejectedError(id types.ChannelID, err error) error {
	return fmt.Errorf("%w: id %d: %v", types.ErrSendRejected, id, err)
}
