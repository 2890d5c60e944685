package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"Warfront/internal/shared/security"
	"Warfront/internal/shared/transport"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func echoRouter() *Router {
	r := NewRouter(nil)
	r.Handle("echo", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		resp.Body.Code = transport.OK
		resp.Body.Payload = req.Body.Payload
	})
	r.HandlePrefix("action_", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		resp.Silent = true
		resp.Body.Code = transport.OK
	})
	return r
}

func readPlain(t *testing.T, c *websocket.Conn) RespBody {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var body RespBody
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return body
}

func TestServer_鉴权失败返回401(t *testing.T) {
	s := NewServer(echoRouter(), nil, Options{
		Authorize: func(r *http.Request) (map[string]any, error) {
			return nil, errors.New("no seat")
		},
	})
	srv := httptest.NewServer(s)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err == nil {
		t.Fatalf("dial should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("resp=%v", resp)
	}
}

func TestServer_明文模式握手心跳与静默指令(t *testing.T) {
	opened := make(chan *WsServer, 1)
	s := NewServer(echoRouter(), nil, Options{
		Authorize: func(r *http.Request) (map[string]any, error) {
			return map[string]any{ConnKeyPlayer: "p-1"}, nil
		},
		OnOpen: func(conn *WsServer) { opened <- conn },
	})
	srv := httptest.NewServer(s)
	defer srv.Close()

	c, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if hs := readPlain(t, c); hs.Type != HandshakeMsg {
		t.Fatalf("first frame=%+v", hs)
	}
	conn := <-opened
	if conn.GetProperty(ConnKeyPlayer) != "p-1" {
		t.Fatalf("authorize props not attached")
	}

	// 指令不回包，紧随其后的 echo 应该是下一帧
	_ = c.WriteJSON(ReqBody{Seq: 1, Type: "action_move", Payload: map[string]any{}})
	_ = c.WriteJSON(ReqBody{Seq: 2, Type: "echo", Payload: "hi"})
	if got := readPlain(t, c); got.Seq != 2 || got.Payload != "hi" {
		t.Fatalf("echo=%+v", got)
	}

	_ = c.WriteJSON(ReqBody{Seq: 3, Type: HeartbeatMsg, Payload: map[string]any{"ctime": 5}})
	hb := readPlain(t, c)
	if hb.Seq != 3 || hb.Code != transport.OK {
		t.Fatalf("heartbeat=%+v", hb)
	}

	_ = c.WriteJSON(ReqBody{Seq: 4, Type: "nope"})
	if got := readPlain(t, c); got.Code != transport.InvalidParam {
		t.Fatalf("unknown type code=%d", got.Code)
	}

	if !conn.Push("snapshot", map[string]int{"tick": 9}) {
		t.Fatalf("push rejected")
	}
	if got := readPlain(t, c); got.Type != "snapshot" || got.Seq != 0 {
		t.Fatalf("push=%+v", got)
	}

	conn.Close()
	if conn.Push("snapshot", nil) {
		t.Fatalf("push after close should fail")
	}
}

func TestServer_加密模式使用握手下发的密钥(t *testing.T) {
	s := NewServer(echoRouter(), nil, Options{NeedSecret: true})
	srv := httptest.NewServer(s)
	defer srv.Close()

	c, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	typ, data, err := c.ReadMessage()
	if err != nil || typ != websocket.BinaryMessage {
		t.Fatalf("handshake read: typ=%d err=%v", typ, err)
	}
	plain, err := security.UnZip(data)
	if err != nil {
		t.Fatalf("unzip handshake: %v", err)
	}
	var hs struct {
		Payload Handshake `json:"payload"`
	}
	if err := json.Unmarshal(plain, &hs); err != nil || len(hs.Payload.Key) != 32 {
		t.Fatalf("handshake=%s err=%v", plain, err)
	}

	codec, err := security.NewFrameCodec(hs.Payload.Key, "")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	req, _ := json.Marshal(ReqBody{Seq: 7, Type: "echo", Payload: "secret"})
	frame, _ := codec.Seal(req)
	if err := c.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, data, err = c.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	opened, err := codec.Open(data)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var resp RespBody
	_ = json.Unmarshal(opened, &resp)
	if resp.Seq != 7 || resp.Payload != "secret" {
		t.Fatalf("resp=%+v", resp)
	}
}
