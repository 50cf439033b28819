// Package serviceaddr computes the address a service stamps on the entities
// it returns, in the form "hostname/ip:port".
package serviceaddr

import (
	"fmt"
	"net"
	"os"
)

// Resolve returns "hostname/ip:port" for this process. Lookup failures fall
// back to "unknown" for the host and 127.0.0.1 for the address.
func Resolve(port int) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return Format(host, lookupIP(host), port)
}

// Format joins the parts of a service address.
func Format(host, ip string, port int) string {
	return fmt.Sprintf("%s/%s:%d", host, ip, port)
}

// lookupIP prefers the first IPv4 address host resolves to, then any
// non-loopback interface address.
func lookupIP(host string) string {
	if addrs, err := net.LookupIP(host); err == nil {
		for _, a := range addrs {
			if v4 := a.To4(); v4 != nil {
				return v4.String()
			}
		}
	}

	if ifaces, err := net.InterfaceAddrs(); err == nil {
		for _, a := range ifaces {
			if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return "127.0.0.1"
}
