package billing

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
)

// DeactivationScript renders the one-shot script a scheduler job runs
// when a lease expires. The script cuts the subscriber off in order:
// drop the address from the authorized list, kill live connections from
// it, park the address on the pending list when a lease still holds it
// (tagged with the hardware address so staff can find the subscriber),
// and finally remove the scheduler job that fired it.
//
// Both identifiers are validated before embedding and every interpolated
// value is escaped for the device string syntax, so the rendered script
// cannot be broken out of by crafted input.
func DeactivationScript(address, mac, authorizedList, pendingList, jobName, pendingTimeout string) (string, error) {
	if _, err := netip.ParseAddr(address); err != nil {
		return "", fmt.Errorf("invalid subscriber address %q: %w", address, err)
	}
	hw, err := net.ParseMAC(mac)
	if err != nil {
		return "", fmt.Errorf("invalid hardware address %q: %w", mac, err)
	}
	if pendingTimeout == "" {
		pendingTimeout = "1d"
	}

	addr := escapeDeviceString(address)
	hwAddr := escapeDeviceString(strings.ToUpper(hw.String()))
	authorized := escapeDeviceString(authorizedList)
	pending := escapeDeviceString(pendingList)
	job := escapeDeviceString(jobName)
	timeout := escapeDeviceString(pendingTimeout)

	lines := []string{
		fmt.Sprintf(`/ip firewall address-list remove [find where list="%s" and address="%s"]`, authorized, addr),
		fmt.Sprintf(`/ip firewall connection remove [find where src-address~"%s"]`, addr),
		fmt.Sprintf(`:if ([:len [/ip dhcp-server lease find where address="%s"]] > 0) do={/ip firewall address-list add list="%s" address="%s" timeout=%s comment="%s"}`, addr, pending, addr, timeout, hwAddr),
		fmt.Sprintf(`/system scheduler remove [find where name="%s"]`, job),
	}
	return strings.Join(lines, "\n"), nil
}

// escapeDeviceString escapes a value for embedding inside a
// double-quoted device script string.
func escapeDeviceString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
