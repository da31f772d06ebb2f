package capture

import "net"

// InterfaceInfo describes one local network interface for the bind-failure
// diagnostic.
type InterfaceInfo struct {
	Name  string
	Addrs []string
}

// LocalInterfaces enumerates the host's network interfaces and their
// addresses. Shown to the operator when binding fails, so they can see
// which addresses are actually available.
func LocalInterfaces() ([]InterfaceInfo, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	infos := make([]InterfaceInfo, 0, len(ifaces))
	for _, iface := range ifaces {
		info := InterfaceInfo{Name: iface.Name}
		addrs, err := iface.Addrs()
		if err == nil {
			for _, addr := range addrs {
				info.Addrs = append(info.Addrs, addr.String())
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}
