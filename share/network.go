package share

import (
	"fmt"
	"net"

	"github.com/moyoez/dropvault-go/tool"
)

// NetworkInfo is one usable local IPv4 address.
type NetworkInfo struct {
	InterfaceName string `json:"interfaceName"`
	IPAddress     string `json:"ipAddress"`
	Number        string `json:"number"`
	NumberInt     int    `json:"numberInt"`
}

// GetSelfNetworkInfos returns all valid local network interfaces with their IP and segment number.
// It ignores tun/vpn interfaces and loopback interfaces.
// The number is derived from the last octet of the IP address.
// For example: 192.168.3.12 -> #12
func GetSelfNetworkInfos() []NetworkInfo {
	var result []NetworkInfo

	interfaces, err := net.Interfaces()
	if err != nil {
		tool.DefaultLogger.Errorf("Failed to get network interfaces: %v", err)
		return result
	}

	for _, iface := range interfaces {
		if rejectUnsupportedInterface(&iface) {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}

			ip := ipnet.IP.To4()
			if ip == nil || ip.IsLoopback() {
				continue
			}

			lastOctet := int(ip[3])
			result = append(result, NetworkInfo{
				InterfaceName: iface.Name,
				IPAddress:     ip.String(),
				Number:        fmt.Sprintf("#%d", lastOctet),
				NumberInt:     lastOctet,
			})
		}
	}

	return result
}

// ServerURLs lists the addresses a LAN client can reach the control server on.
// Loopback is always included last.
func ServerURLs(port int) []string {
	infos := GetSelfNetworkInfos()
	urls := make([]string, 0, len(infos)+1)
	for _, info := range infos {
		urls = append(urls, fmt.Sprintf("http://%s:%d/", info.IPAddress, port))
	}
	return append(urls, fmt.Sprintf("http://127.0.0.1:%d/", port))
}

func rejectUnsupportedInterface(iface *net.Interface) bool {
	if iface.Flags&net.FlagUp == 0 {
		return true
	}
	if iface.Flags&net.FlagLoopback != 0 {
		return true
	}
	if iface.Flags&net.FlagPointToPoint != 0 {
		return true // utun / tun / vpn
	}
	return iface.Flags&net.FlagMulticast == 0
}
