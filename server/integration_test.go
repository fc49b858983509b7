package server_test

import (
	"bufio"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/onion-http/onion/handler"
	"github.com/onion-http/onion/listenpoint"
	"github.com/onion-http/onion/request"
	"github.com/onion-http/onion/response"
	"github.com/onion-http/onion/router"
	"github.com/onion-http/onion/server"
	"github.com/onion-http/onion/websocket"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func startTestServer(chain handler.Handler) (*server.Server, string) {
	lp := listenpoint.NewHTTP("127.0.0.1", 0, 2*time.Second)
	Expect(lp.Listen()).To(Succeed())
	addr := lp.Addr().String()

	cfg := server.DefaultConfig()
	cfg.Name = "integration"
	cfg.Port = 1 // unused: AddListenPoint below takes precedence over defaultListenPoint

	srv, err := server.New(cfg, chain)
	Expect(err).NotTo(HaveOccurred())
	srv.AddListenPoint(lp)
	Expect(srv.Start()).To(Succeed())

	return srv, addr
}

var _ = Describe("Server integration", func() {
	It("serves a GET request end to end over a real TCP connection", func() {
		rt := router.New().AddFunc("/hello", func(req *request.Request, res *response.Response) handler.Status {
			res.SetHeader("Content-Type", "text/plain")
			_, _ = res.WriteString("hello world")
			return handler.Processed
		})
		chain := handler.NewChain().Add(rt)
		srv, addr := startTestServer(chain)
		defer srv.Stop()

		resp, err := http.Get("http://" + addr + "/hello")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(Equal("hello world"))
		Expect(resp.StatusCode).To(Equal(200))
	})

	It("returns the fallback 404 for an unmatched path", func() {
		rt := router.New().AddFunc("/known", func(req *request.Request, res *response.Response) handler.Status {
			return handler.Processed
		})
		chain := handler.NewChain().Add(rt)
		srv, addr := startTestServer(chain)
		defer srv.Stop()

		resp, err := http.Get("http://" + addr + "/unknown")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(404))
	})

	It("serves two requests on the same keep-alive connection", func() {
		calls := 0
		rt := router.New().AddFunc("/count", func(req *request.Request, res *response.Response) handler.Status {
			calls++
			_, _ = res.WriteString("ok")
			return handler.Processed
		})
		chain := handler.NewChain().Add(rt)
		srv, addr := startTestServer(chain)
		defer srv.Stop()

		client := &http.Client{}
		for i := 0; i < 2; i++ {
			resp, err := client.Get("http://" + addr + "/count")
			Expect(err).NotTo(HaveOccurred())
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		Expect(calls).To(Equal(2))
	})

	It("upgrades to a WebSocket and echoes a text frame", func() {
		wsHandler := handler.HandlerFunc(func(req *request.Request, res *response.Response) handler.Status {
			ws, err := websocket.Upgrade(req, res)
			if err != nil {
				return handler.InternalError
			}
			if ws == nil {
				return handler.NotProcessed
			}
			ws.SetCallback(func(w *websocket.WebSocket, dataLeft int) handler.Status {
				if dataLeft < 0 {
					return handler.CloseConnection
				}
				buf := make([]byte, dataLeft)
				n, rerr := w.Read(buf)
				if rerr != nil {
					return handler.CloseConnection
				}
				w.SetOpcode(websocket.OpText)
				if _, werr := w.Write(buf[:n]); werr != nil {
					return handler.CloseConnection
				}
				return handler.Processed
			})
			return handler.WebSocket
		})
		chain := handler.NewChain().Add(wsHandler)
		srv, addr := startTestServer(chain)
		defer srv.Stop()

		conn, err := net.Dial("tcp", addr)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		key := "dGhlIHNhbXBsZSBub25jZQ=="
		fmt.Fprintf(conn, "GET /chat HTTP/1.1\r\nHost: x\r\nUpgrade: websocket\r\nConnection: Upgrade\r\nSec-WebSocket-Key: %s\r\nSec-WebSocket-Version: 13\r\n\r\n", key)

		reader := bufio.NewReader(conn)
		statusLine, err := reader.ReadString('\n')
		Expect(err).NotTo(HaveOccurred())
		Expect(statusLine).To(ContainSubstring("101"))
		headers := map[string]string{}
		for {
			line, err := reader.ReadString('\n')
			Expect(err).NotTo(HaveOccurred())
			if line == "\r\n" {
				break
			}
			kv := strings.SplitN(strings.TrimRight(line, "\r\n"), ": ", 2)
			if len(kv) == 2 {
				headers[kv[0]] = kv[1]
			}
		}

		sum := sha1.Sum([]byte(key + "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"))
		Expect(headers["Sec-WebSocket-Accept"]).To(Equal(base64.StdEncoding.EncodeToString(sum[:])))

		payload := []byte("ping")
		frame := append([]byte{0x81, 0x80 | byte(len(payload))}, []byte{0, 0, 0, 0}...)
		frame = append(frame, payload...)
		_, err = conn.Write(frame)
		Expect(err).NotTo(HaveOccurred())

		var reply [2]byte
		_, err = io.ReadFull(reader, reply[:])
		Expect(err).NotTo(HaveOccurred())
		Expect(reply[0]).To(Equal(byte(0x81)))
		n := int(reply[1] & 0x7F)
		body := make([]byte, n)
		_, err = io.ReadFull(reader, body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(Equal("ping"))
	})
})
