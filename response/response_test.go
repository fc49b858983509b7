package response_test

import (
	"bytes"
	"net"
	"strings"

	"github.com/onion-http/onion/request"
	"github.com/onion-http/onion/response"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeAddr string

func (f fakeAddr) Network() string { return "tcp" }
func (f fakeAddr) String() string  { return string(f) }

type fakeConn struct {
	out bytes.Buffer
}

func (f *fakeConn) Read(p []byte) (int, error)  { return 0, nil }
func (f *fakeConn) Write(p []byte) (int, error) { return f.out.Write(p) }
func (f *fakeConn) Close() error                { return nil }
func (f *fakeConn) Fd() int                     { return 1 }
func (f *fakeConn) RemoteAddr() net.Addr        { return fakeAddr("10.0.0.1:1111") }
func (f *fakeConn) LocalAddr() net.Addr         { return fakeAddr("10.0.0.2:80") }
func (f *fakeConn) IsSecure() bool              { return false }

func newHTTP11(method request.Method) (*request.Request, *fakeConn) {
	c := &fakeConn{}
	r := request.New(c)
	r.SetMethod(method)
	r.SetFlag(request.FlagHTTP11)
	return r, c
}

var _ = Describe("Response", func() {
	It("infers Content-Length for a short body that fits the buffer", func() {
		req, conn := newHTTP11(request.GET)
		res := response.New(req)
		res.WriteString("hi")
		Expect(res.Close()).To(Succeed())

		out := conn.out.String()
		Expect(out).To(HavePrefix("HTTP/1.1 200 OK\r\n"))
		Expect(out).To(ContainSubstring("Content-Length: 2\r\n"))
		Expect(out).To(ContainSubstring("Server: onion\r\n"))
		Expect(out).To(ContainSubstring("Date: "))
		Expect(out).To(HaveSuffix("\r\n\r\nhi"))
		Expect(res.KeepAlive()).To(BeTrue())
	})

	It("uses chunked encoding when the body overflows the buffer with no declared length", func() {
		req, conn := newHTTP11(request.GET)
		res := response.New(req)

		remaining := 8192
		chunkSize := 900
		for remaining > 0 {
			n := chunkSize
			if n > remaining {
				n = remaining
			}
			written, err := res.Write(bytes.Repeat([]byte("a"), n))
			Expect(err).NotTo(HaveOccurred())
			remaining -= written
		}
		Expect(res.Close()).To(Succeed())

		out := conn.out.String()
		Expect(out).To(ContainSubstring("Transfer-Encoding: chunked\r\n"))
		Expect(out).To(HaveSuffix("0\r\n\r\n"))
		Expect(res.KeepAlive()).To(BeTrue())

		sum := 0
		body := out[strings.Index(out, "\r\n\r\n")+4:]
		for len(body) > 0 {
			end := strings.Index(body, "\r\n")
			sizeHex := body[:end]
			var n int
			for _, c := range sizeHex {
				n = n*16 + hexDigit(c)
			}
			if n == 0 {
				break
			}
			sum += n
			body = body[end+2+n+2:]
		}
		Expect(sum).To(Equal(8192))
	})

	It("drops body writes for HEAD requests but still sends headers", func() {
		req, conn := newHTTP11(request.HEAD)
		res := response.New(req)
		res.WriteString("this should not appear")
		Expect(res.Close()).To(Succeed())

		out := conn.out.String()
		Expect(out).NotTo(ContainSubstring("this should not appear"))
		Expect(out).To(ContainSubstring("HTTP/1.1 200 OK"))
	})

	It("closes the connection when the client requests it", func() {
		req, conn := newHTTP11(request.GET)
		req.Headers.Set("Connection", "close")
		res := response.New(req)
		res.WriteString("bye")
		Expect(res.Close()).To(Succeed())

		Expect(conn.out.String()).To(ContainSubstring("Connection: close\r\n"))
		Expect(res.KeepAlive()).To(BeFalse())
	})

	It("honors an explicit SetLength", func() {
		req, conn := newHTTP11(request.GET)
		res := response.New(req)
		res.SetLength(5)
		res.WriteString("hello")
		Expect(res.Close()).To(Succeed())
		Expect(conn.out.String()).To(ContainSubstring("Content-Length: 5\r\n"))
	})

	It("rejects an oversized cookie", func() {
		req, _ := newHTTP11(request.GET)
		res := response.New(req)
		err := res.AddCookie("big", strings.Repeat("x", 5000), response.CookieOptions{})
		Expect(err).To(HaveOccurred())
	})

	It("accepts a well-formed cookie with attributes", func() {
		req, conn := newHTTP11(request.GET)
		res := response.New(req)
		Expect(res.AddCookie("sessionid", "abc123", response.CookieOptions{
			Path:     "/",
			HttpOnly: true,
			SameSite: response.SameSiteLax,
		})).To(Succeed())
		Expect(res.Close()).To(Succeed())
		Expect(conn.out.String()).To(ContainSubstring("Set-Cookie: sessionid=abc123; Path=/; HttpOnly; SameSite=Lax\r\n"))
	})
})

func hexDigit(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}
