package ssdpmsg

import (
	"strconv"

	"github.com/nyxio/upnpcp/internal/httpmsg"
)

// MulticastAddr is the SSDP multicast group and port every device and
// control point listens on.
const MulticastAddr = "239.255.255.250:1900"

// BuildSearch constructs an M-SEARCH request for searchTarget ("ssdp:all",
// "upnp:rootdevice", a URN, or a specific UDN), with MX seconds for
// devices to stagger their responses over.
func BuildSearch(searchTarget string, mx int) *httpmsg.Message {
	req := httpmsg.NewRequest("M-SEARCH", "*", "1.1", nil)
	req.Header.Set("HOST", MulticastAddr)
	req.Header.Set("MAN", `"ssdp:discover"`)
	req.Header.Set("MX", strconv.Itoa(mx))
	req.Header.Set("ST", searchTarget)
	return req
}
