package stunprobe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/pion/stun"

	"github.com/dep2p/go-dcbridge/pkg/lib/log"
)

var logger = log.Logger("transport/stunprobe")

const defaultTimeout = 3 * time.Second

// ErrNoServers 没有可探测的 STUN 服务器
var ErrNoServers = errors.New("no STUN servers configured")

// Result 单个服务器的探测结果
type Result struct {
	Server string
	Addr   *net.UDPAddr
	RTT    time.Duration
	Err    error
}

// Prober STUN 探测器
type Prober struct {
	servers []string
	timeout time.Duration
}

// New 创建探测器
//
// servers 接受 "stun:host:port"、"stun://host:port" 或 "host:port"，
// turn:/turns: 地址被忽略。
func New(servers []string) *Prober {
	return &Prober{
		servers: normalizeServers(servers),
		timeout: defaultTimeout,
	}
}

// SetTimeout 设置单次请求超时
func (p *Prober) SetTimeout(d time.Duration) {
	if d > 0 {
		p.timeout = d
	}
}

// Servers 返回归一化后的服务器列表
func (p *Prober) Servers() []string {
	return append([]string(nil), p.servers...)
}

// ProbeAll 依次探测所有服务器
func (p *Prober) ProbeAll(ctx context.Context) ([]Result, error) {
	if len(p.servers) == 0 {
		return nil, ErrNoServers
	}
	results := make([]Result, 0, len(p.servers))
	for _, server := range p.servers {
		start := time.Now()
		addr, err := p.Probe(ctx, server)
		r := Result{Server: server, Addr: addr, RTT: time.Since(start), Err: err}
		if err != nil {
			logger.Warn("stun probe failed", "server", server, "err", err)
		} else {
			logger.Info("stun probe ok", "server", server, "mapped", addr.String(), "rtt", r.RTT)
		}
		results = append(results, r)
		if ctx.Err() != nil {
			break
		}
	}
	return results, nil
}

// Probe 查询单个服务器的映射地址
func (p *Prober) Probe(ctx context.Context, server string) (*net.UDPAddr, error) {
	addr, err := net.ResolveUDPAddr("udp", server)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", server, err)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", server, err)
	}
	defer conn.Close()

	// ctx 取消时关闭连接，打断阻塞的读
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	msg, err := stun.Build(stun.TransactionID, stun.BindingRequest)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if _, err := msg.WriteTo(conn); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	buf := make([]byte, 1500)
	n, err := conn.Read(buf)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("read response: %w", err)
	}

	res := new(stun.Message)
	res.Raw = buf[:n]
	if err := res.Decode(); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if res.TransactionID != msg.TransactionID {
		return nil, errors.New("transaction id mismatch")
	}

	var xorAddr stun.XORMappedAddress
	if err := xorAddr.GetFrom(res); err == nil {
		return &net.UDPAddr{IP: xorAddr.IP, Port: xorAddr.Port}, nil
	}
	var mapped stun.MappedAddress
	if err := mapped.GetFrom(res); err != nil {
		return nil, fmt.Errorf("no mapped address in response: %w", err)
	}
	return &net.UDPAddr{IP: mapped.IP, Port: mapped.Port}, nil
}

// normalizeServers 归一化为 "host:port"，跳过 TURN 地址
func normalizeServers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		s := strings.TrimSpace(raw)
		if s == "" || strings.HasPrefix(s, "turn:") || strings.HasPrefix(s, "turns:") {
			continue
		}
		if i := strings.Index(s, "://"); i >= 0 {
			s = s[i+3:]
		} else {
			s = strings.TrimPrefix(s, "stuns:")
			s = strings.TrimPrefix(s, "stun:")
		}
		// 去掉 "?transport=udp" 之类的参数
		if i := strings.IndexByte(s, '?'); i >= 0 {
			s = s[:i]
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
