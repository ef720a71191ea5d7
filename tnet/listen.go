package tnet

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/ridge/must/v2"
)

var listenConfig = net.ListenConfig{
	KeepAlive: 3 * time.Minute,
}

// Listen opens a listener on the address.
//
// "unix:PATH" listens on a UNIX domain socket. "tcp:HOST:PORT" and a bare
// "HOST:PORT" listen on TCP with keep-alive enabled.
func Listen(address string) (net.Listener, error) {
	network := "tcp"
	if proto, rest, ok := strings.Cut(address, ":"); ok {
		switch proto {
		case "unix":
			network, address = "unix", rest
		case "tcp":
			address = rest
		}
	}
	return listenConfig.Listen(context.Background(), network, address)
}

// ListenOnRandomPort listens on a random local TCP port
func ListenOnRandomPort() net.Listener {
	return must.OK1(Listen("localhost:"))
}
