package utils

import (
	"errors"
	"net"
)

// routeTarget is only used for route selection; no packet is sent to it.
var routeTarget = "8.8.8.8:80"

// LocalIP returns the IPv4 address the OS would use for outbound traffic,
// or "localhost" when there is no usable interface or route.
func LocalIP() string {
	ip, err := outboundIPv4("udp4", routeTarget)
	if err != nil {
		return "localhost"
	}
	return ip.String()
}

// outboundIPv4 "connects" a datagram socket to target and reads back the
// local address the kernel picked for it.
func outboundIPv4(network, target string) (net.IP, error) {
	conn, err := net.Dial(network, target)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil, errors.New("probe socket has no UDP address")
	}
	ip := addr.IP.To4()
	if ip == nil || ip.IsUnspecified() {
		return nil, errors.New("no IPv4 route")
	}
	return ip, nil
}
