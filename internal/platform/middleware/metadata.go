package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"github.com/ZafarDakhnairi/iGameDB/pkg/requestcontext"
)

// Metadata captures the client IP and a parsed device description into the
// request context. Audit events and login logging read them from there.
func Metadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), clientIP(r), deviceFrom(r.UserAgent()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	// First hop of X-Forwarded-For when behind a proxy.
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func deviceFrom(rawUA string) string {
	if rawUA == "" {
		return "unknown"
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()

	var b strings.Builder
	b.WriteString(name)
	if version != "" {
		// Major version is enough for audit purposes.
		if i := strings.IndexByte(version, '.'); i > 0 {
			version = version[:i]
		}
		b.WriteString(" ")
		b.WriteString(version)
	}
	if os := ua.OS(); os != "" {
		b.WriteString(" on ")
		b.WriteString(os)
	}
	if ua.Mobile() {
		b.WriteString(" (mobile)")
	}
	return b.String()
}
