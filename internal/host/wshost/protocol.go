package wshost

import (
	"errors"

	"github.com/dep2p/go-dcbridge/internal/core/codec"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

// 帧字段
const (
	keyKind    = "kind"
	keySeq     = "seq"
	keyMethod  = "method"
	keyArgs    = "args"
	keyStream  = "stream"
	keyResult  = "result"
	keyCode    = "code"
	keyMessage = "message"
	keyData    = "data"
)

// 帧类型
const (
	KindCall        = "call"
	KindListen      = "listen"
	KindCancel      = "cancel"
	KindResult      = "result"
	KindError       = "error"
	KindEvent       = "event"
	KindEndOfStream = "endOfStream"
)

// 方法名
const (
	MethodCreateDataChannel = "createDataChannel"
	MethodDataChannelSend   = "dataChannelSend"
	MethodDataChannelClose  = "dataChannelClose"
)

// 参数字段
const (
	ArgPeerConnectionID = "peerConnectionId"
	ArgLabel            = "label"
	ArgDataChannelDict  = "dataChannelDict"
	ArgDataChannelID    = "dataChannelId"
	ArgType             = "type"
	ArgData             = "data"
)

// 错误码
const (
	CodeConfigDecode       = "ConfigDecodeError"
	CodeChannelCreation    = "ChannelCreationError"
	CodeChannelNotFound    = "ChannelNotFoundError"
	CodeSendRejected       = "SendRejectedError"
	CodeConnectionNotFound = "ConnectionNotFoundError"
	CodeConduitNotFound    = "ConduitNotFound"
	CodeUnknownMethod      = "UnknownMethod"
	CodeInternal           = "InternalError"
)

// ErrorCode 将错误映射为宿主可见的错误码
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, types.ErrConfigDecode):
		return CodeConfigDecode
	case errors.Is(err, types.ErrChannelCreation):
		return CodeChannelCreation
	case errors.Is(err, types.ErrChannelNotFound):
		return CodeChannelNotFound
	case errors.Is(err, types.ErrSendRejected):
		return CodeSendRejected
	case errors.Is(err, types.ErrConnectionNotFound):
		return CodeConnectionNotFound
	case errors.Is(err, types.ErrConduitNotFound):
		return CodeConduitNotFound
	default:
		return CodeInternal
	}
}

func resultFrame(seq int, result any) codec.Map {
	return codec.Map{keyKind: KindResult, keySeq: seq, keyResult: result}
}

func errorFrame(seq int, code, message string) codec.Map {
	return codec.Map{keyKind: KindError, keySeq: seq, keyCode: code, keyMessage: message}
}

func eventFrame(stream string, data any) codec.Map {
	return codec.Map{keyKind: KindEvent, keyStream: stream, keyData: data}
}

func endOfStreamFrame(stream string) codec.Map {
	return codec.Map{keyKind: KindEndOfStream, keyStream: stream}
}
