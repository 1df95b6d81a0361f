package middleware

import (
	"net"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxRealIP is the context key RealIP stores the client address under.
const CtxRealIP = "real_ip"

// RealIP resolves the client IP once per request. CF-Connecting-IP, then the
// left-most X-Forwarded-For entry, are honored only when the direct peer sits in
// one of trustedCIDRs. With no CIDRs every peer is treated as a proxy.
func RealIP(trustedCIDRs ...string) gin.HandlerFunc {
	trusted := parseCIDRs(trustedCIDRs)
	trustAll := len(trustedCIDRs) == 0
	return func(c *gin.Context) {
		ip := ""
		if trustAll || inNets(c.RemoteIP(), trusted) {
			ip = forwardedIP(c)
		}
		if ip == "" {
			ip = c.RemoteIP()
		}
		c.Set(CtxRealIP, ip)
		c.Next()
	}
}

func forwardedIP(c *gin.Context) string {
	if ip := net.ParseIP(strings.TrimSpace(c.GetHeader("CF-Connecting-IP"))); ip != nil {
		return ip.String()
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return ""
}

// parseCIDRs skips malformed entries; bare addresses are taken as single hosts.
func parseCIDRs(list []string) []netip.Prefix {
	out := make([]netip.Prefix, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if p, err := netip.ParsePrefix(s); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(s); err == nil {
			a = a.Unmap()
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return out
}

func inNets(raw string, nets []netip.Prefix) bool {
	a, err := netip.ParseAddr(raw)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range nets {
		if p.Contains(a) {
			return true
		}
	}
	return false
}
