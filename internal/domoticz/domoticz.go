// Package domoticz reads device state from Domoticz home automation server
// JSON API.
package domoticz

import (
	"bytes"
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/edomo/edomo/helpers"
	"github.com/edomo/edomo/log2"
	"github.com/juju/errors"
)

const DefaultTimeout = 10 * time.Second

// limit for response body, device answers are a few KB
const maxBody = 1 << 20

type Client struct {
	Host    string
	Port    int
	Timeout time.Duration
	Log     *log2.Log

	// Transport replaces default single connection transport, used by tests.
	Transport http.RoundTripper
}

// Fields is one element of response "result" array.
// Numbers are kept as json.Number to preserve server formatting.
type Fields map[string]interface{}

type Response struct {
	Status     string   `json:"status"`
	Title      string   `json:"title"`
	Result     []Fields `json:"result"`
	ServerTime string   `json:"ServerTime"`
	Sunrise    string   `json:"Sunrise"`
	Sunset     string   `json:"Sunset"`
}

// Field returns result[0].<name> as text and whether it was present.
// JSON null counts as absent.
func (r *Response) Field(name string) (string, bool) {
	if r == nil || len(r.Result) == 0 {
		return "", false
	}
	v, ok := r.Result[0][name]
	if !ok || v == nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return fmt.Sprint(x), true
	}
}

func (c *Client) baseURL() string {
	host := c.Host
	if c.Port != 0 && c.Port != 80 {
		host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	return "http://" + host
}

// Session holds one keep-alive connection for a batch of queries.
type Session struct {
	c    *Client
	http *http.Client
	base string
	rx   expvar.Int
}

func (c *Client) Session() *Session {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	tr := c.Transport
	if tr == nil {
		tr = &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        1,
			MaxIdleConnsPerHost: 1,
			MaxConnsPerHost:     1,
			IdleConnTimeout:     timeout,
		}
	}
	return &Session{
		c:    c,
		http: &http.Client{Transport: tr, Timeout: timeout},
		base: c.baseURL(),
	}
}

func (s *Session) URL(rid int) string {
	return fmt.Sprintf("%s/json.htm?type=devices&rid=%d", s.base, rid)
}

// Device fetches state of one device. Response without result is NotFound.
func (s *Session) Device(ctx context.Context, rid int) (*Response, error) {
	url := s.URL(rid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Annotatef(err, "domoticz rid=%d", rid)
	}
	s.c.Log.Debugf("domoticz GET %s", url)
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, errors.Annotatef(err, "domoticz rid=%d", rid)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(helpers.NewStatReader(io.LimitReader(resp.Body, maxBody), &s.rx, 0))
	if err != nil {
		return nil, errors.Annotatef(err, "domoticz rid=%d read", rid)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("domoticz rid=%d http status=%s", rid, resp.Status)
	}
	return parse(rid, body)
}

func parse(rid int, body []byte) (*Response, error) {
	r := &Response{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(r); err != nil {
		return nil, errors.Annotatef(err, "domoticz rid=%d parse", rid)
	}
	if r.Status != "" && r.Status != "OK" {
		return nil, errors.Errorf("domoticz rid=%d status=%s title=%s", rid, r.Status, r.Title)
	}
	if len(r.Result) == 0 {
		return r, errors.NotFoundf("domoticz rid=%d result", rid)
	}
	return r, nil
}

// RxBytes is total response body size read in this session.
func (s *Session) RxBytes() int64 { return s.rx.Value() }

// Close drops idle connections.
func (s *Session) Close() {
	s.http.CloseIdleConnections()
}
