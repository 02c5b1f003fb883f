package nats

import (
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"sudooom.rummy/internal/config"
)

// Client NATS 客户端封装
type Client struct {
	conn   *nats.Conn
	name   string
	logger *slog.Logger
}

// NewClient 连接 NATS，name 作为连接名出现在服务端监控和本服务日志中
func NewClient(cfg config.NATSConfig, name string) (*Client, error) {
	c := &Client{
		name:   name,
		logger: slog.Default().With("component", "NATSClient", "service", name),
	}

	opts := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(c.onDisconnect),
		nats.ReconnectHandler(c.onReconnect),
		nats.ClosedHandler(func(nc *nats.Conn) {
			c.logger.Info("NATS connection closed")
		}),
		nats.Timeout(10 * time.Second),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *Client) onDisconnect(nc *nats.Conn, err error) {
	// 断线期间健康检查返回 disconnected，电脑回合照常执行但状态推送会丢失
	c.logger.Warn("Disconnected from NATS", "error", err)
}

func (c *Client) onReconnect(nc *nats.Conn) {
	c.logger.Info("Reconnected to NATS",
		"url", nc.ConnectedUrl(),
		"reconnects", nc.Stats().Reconnects)
}

// Conn 返回底层 NATS 连接
func (c *Client) Conn() *nats.Conn {
	return c.conn
}

// Name 连接名
func (c *Client) Name() string {
	return c.name
}

// Reconnects 累计重连次数
func (c *Client) Reconnects() uint64 {
	if c.conn == nil {
		return 0
	}
	return c.conn.Stats().Reconnects
}

// Drain 处理完已收到的消息后关闭连接
func (c *Client) Drain() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Drain()
}

// Close 关闭连接
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// IsConnected 检查连接状态
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}
