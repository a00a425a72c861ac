// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// Package lirc provides a connection to the socket on which lircd publishes
// decoded remote control events.
//
// Each event is a line of the form:
//
//	<code> <repeat count> <button name> <remote name>
package lirc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/warthog618/lircind"
	"golang.org/x/sys/unix"
)

// DefaultSocket is the path of the lircd output socket.
const DefaultSocket = "/var/run/lirc/lircd"

// RecordSize is the maximum size of a record returned by ReadRecord.
const RecordSize = 128

// Conn is a connection to the lircd socket.
type Conn struct {
	conn *net.UnixConn
	buf  []byte
}

// Dial connects to the lircd socket at path.
func Dial(ctx context.Context, path string) (*Conn, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, lircind.NewError(lircind.ErrConnection,
			fmt.Sprintf("unable to open LIRC socket %s", path), err)
	}
	return &Conn{conn: c.(*net.UnixConn), buf: make([]byte, RecordSize)}, nil
}

// NewDialer returns a lircind.Dialer that connects to the lircd socket at
// path.
func NewDialer(path string) lircind.Dialer {
	return lircind.DialerFunc(func(ctx context.Context) (lircind.EventSource, error) {
		c, err := Dial(ctx, path)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

// ReadRecord blocks until data is available and returns up to RecordSize
// bytes of it.
//
// Returns an empty record and nil error once the remote end has closed the
// connection.
func (c *Conn) ReadRecord() ([]byte, error) {
	n, err := c.conn.Read(c.buf)
	if n > 0 {
		rec := make([]byte, n)
		copy(rec, c.buf[:n])
		return rec, nil
	}
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err == nil {
		err = io.ErrNoProgress
	}
	return nil, err
}

// DiscardBuffered drops all data that has been received but not yet read.
//
// Does not block.
func (c *Conn) DiscardBuffered() error {
	rc, err := c.conn.SyscallConn()
	if err != nil {
		return err
	}
	var rerr error
	err = rc.Read(func(fd uintptr) bool {
		for {
			n, err := unix.Read(int(fd), c.buf)
			if n > 0 {
				continue
			}
			if err == unix.EINTR {
				continue
			}
			if err != unix.EAGAIN {
				// EOF is left for the next ReadRecord to find
				rerr = err
			}
			return true
		}
	})
	if err != nil {
		return err
	}
	if rerr != nil {
		return &net.OpError{Op: "read", Net: "unix", Addr: c.conn.RemoteAddr(), Err: rerr}
	}
	return nil
}

// Close closes the connection.
//
// May be called concurrently with ReadRecord, which then returns an error.
func (c *Conn) Close() error {
	return c.conn.Close()
}
