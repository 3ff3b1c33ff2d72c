// Package stunprobe 探测配置中的 STUN 服务器
//
// 对每个 stun:/stuns: 地址发送 Binding Request，读取 XOR-MAPPED-ADDRESS
// （或旧版 MAPPED-ADDRESS），得到本机的服务器反射地址。
// 用于启动前确认 ICE 配置可用，turn: 地址被跳过。
//
// 使用示例:
//
//	p := stunprobe.New(cfg.Transport.ICEServers)
//	results := p.ProbeAll(ctx)
package stunprobe
