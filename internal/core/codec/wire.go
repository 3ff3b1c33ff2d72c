package codec

import (
	"fmt"
	"reflect"

	cbor "github.com/fxamacker/cbor/v2"

	"github.com/dep2p/go-dcbridge/pkg/types"
)

// Wire 宿主边界的二进制帧编解码器
//
// 使用 CBOR：字节串与文本串是不同的主类型，[]byte 与 string 在往返后保持区分。
// 解码时 map 统一为 map[string]any。
type Wire struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewWire 创建 CBOR 编解码器
func NewWire() (*Wire, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		return nil, err
	}
	return &Wire{enc: em, dec: dm}, nil
}

// ContentType 返回内容类型
func (w *Wire) ContentType() string { return "application/cbor" }

// Marshal 编码结构值
func (w *Wire) Marshal(v any) ([]byte, error) {
	return w.enc.Marshal(v)
}

// Unmarshal 解码一个顶层 map
func (w *Wire) Unmarshal(data []byte) (Map, error) {
	var m Map
	if err := w.dec.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrConfigDecode, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: frame is not a map", types.ErrConfigDecode)
	}
	return m, nil
}
