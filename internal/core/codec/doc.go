// Package codec 在宿主侧的无类型结构值与内部强类型参数之间转换
//
// 结构值是 map[string]any，叶子为 string、整数、bool、[]byte 或 nil。
// 解码统一遵循一条策略：
//   - 键不存在或为 nil：返回文档约定的默认值
//   - 键存在但类型错误：返回包装了 types.ErrConfigDecode 的错误
//
// 编码时字节序列保持为 []byte，与 string 区分。
package codec
