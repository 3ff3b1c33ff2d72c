package types

import (
	"strconv"

	"github.com/google/uuid"
)

// ============================================================================
//                              ChannelID
// ============================================================================

// ChannelID 数据通道 ID
//
// 在所属连接内唯一，由传输层在创建时分配（协商通道由调用方预先指定），
// 分配后不可变。
type ChannelID int

// String 返回十进制表示
func (id ChannelID) String() string {
	return strconv.Itoa(int(id))
}

// ============================================================================
//                              ConnectionID
// ============================================================================

// ConnectionID 所属对等连接的标识
type ConnectionID string

// NewConnectionID 生成随机连接 ID
func NewConnectionID() ConnectionID {
	return ConnectionID(uuid.NewString())
}

// String 返回字符串表示
func (id ConnectionID) String() string {
	return string(id)
}

// IsEmpty 是否为空
func (id ConnectionID) IsEmpty() bool {
	return id == ""
}
