package e2etest

import (
	"github.com/myrjola/dossier/internal/errors"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// cookieJar drops the Secure flag of cookies set by plain HTTP servers on the loopback interface, where the
// test servers listen. Cookies from any other origin are stored unchanged.
type cookieJar struct {
	jar *cookiejar.Jar
}

func newCookieJar() (*cookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "new cookie jar")
	}
	return &cookieJar{jar: jar}, nil
}

func (c *cookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if u.Scheme == "http" && isLoopback(u.Hostname()) {
		for _, cookie := range cookies {
			cookie.Secure = false
		}
	}
	c.jar.SetCookies(u, cookies)
}

func (c *cookieJar) Cookies(u *url.URL) []*http.Cookie {
	return c.jar.Cookies(u)
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
