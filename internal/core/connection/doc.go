// Package connection 按对等连接管理数据通道服务
//
// 每个登记的对等连接拥有一个 datachannel.Service，其事件管道命名空间为
// "<namespace>/<connectionID>"。移除连接时释放该连接的全部通道，
// 并关闭底层对等连接。
package connection
