// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// minThroughput is the slowest transfer rate (bytes/s) a connection may
// sustain before its deadline expires.
const minThroughput = 4000

// Listener hands out connections whose read and write deadlines grow with
// the bytes already transferred. A large upload keeps going while a stalled
// client is dropped after Timeout.
type Listener struct {
	net.Listener
	Timeout time.Duration
}

func (l *Listener) Accept() (net.Conn, error) {
	c, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	if l.Timeout <= 0 {
		return c, nil
	}
	return &deadlineConn{Conn: c, timeout: l.Timeout}, nil
}

type deadlineConn struct {
	net.Conn
	timeout time.Duration
	read    int64
	written int64
}

// deadline allows one timeout per timeout*minThroughput bytes transferred.
func (c *deadlineConn) deadline(transferred int64) time.Time {
	budget := int64(float64(minThroughput) * c.timeout.Seconds())
	if budget <= 0 {
		budget = 1
	}
	return time.Now().Add(c.timeout * time.Duration(transferred/budget+1))
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(c.deadline(c.read)); err != nil {
		return 0, err
	}
	n, err := c.Conn.Read(b)
	c.read += int64(n)
	return n, err
}

func (c *deadlineConn) Write(b []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(c.deadline(c.written)); err != nil {
		return 0, err
	}
	n, err := c.Conn.Write(b)
	c.written += int64(n)
	return n, err
}

// NewListener listens on addr. A zero timeout disables deadlines.
func NewListener(addr string, timeout time.Duration) (net.Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{Listener: l, Timeout: timeout}, nil
}

func JoinHostPort(host string, port int) string {
	portStr := strconv.Itoa(port)
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		return host + ":" + portStr
	}
	return net.JoinHostPort(host, portStr)
}
